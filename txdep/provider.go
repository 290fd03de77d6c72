// Package txdep declares the external-collaborator contracts the balancer
// consumes: resolving previous cells and their data, cell-deps by script
// identity, and block headers by transaction hash or block number. The
// core never implements these itself; txdep/memcollector and
// txdep/pgcollector are the worked examples this repository ships
// alongside the contracts.
package txdep

import (
	"errors"

	"github.com/ckbhub/txbuilder/ckbtype"
)

// ErrCellNotFound is returned by a TransactionDependencyProvider when an
// OutPoint cannot be resolved.
var ErrCellNotFound = errors.New("txdep: cell not found")

// ErrHeaderNotFound is a sentinel for a header that cannot be resolved by
// the requested key. HeaderDepResolver itself reports a missing header
// through its boolean result, not through this error.
var ErrHeaderNotFound = errors.New("txdep: header not found")

// TransactionDependencyProvider resolves the previous cell and raw cell
// data behind an OutPoint. Implementations should wrap backend-specific
// failures so callers can still recognize ErrCellNotFound with errors.Is.
type TransactionDependencyProvider interface {
	GetCell(op ckbtype.OutPoint) (*ckbtype.CellOutput, error)
	GetCellData(op ckbtype.OutPoint) ([]byte, error)
}

// CellDepResolver maps a ScriptId to the cell-dep a transaction must
// include to reference that script's code.
type CellDepResolver interface {
	Resolve(id ckbtype.ScriptId) (*ckbtype.CellDep, bool)
}

// HeaderDepResolver resolves block headers, needed only for DAO
// withdrawal fee computation.
type HeaderDepResolver interface {
	ResolveByTxHash(txHash [32]byte) (*ckbtype.Header, bool)
	ResolveByNumber(number uint64) (*ckbtype.Header, bool)
}
