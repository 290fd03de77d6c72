package txbuilder

import (
	"fmt"

	goerrors "github.com/go-errors/errors"

	"github.com/ckbhub/txbuilder/ckbtype"
)

// ErrCapacityOverflow reports that output capacity exceeds input value by
// Delta shannons. The fee oracle returns it as a terminal error; the
// balancer recovers from it locally as a demand for more input.
type ErrCapacityOverflow struct {
	Delta uint64
}

func (e *ErrCapacityOverflow) Error() string {
	return fmt.Sprintf("txbuilder: capacity overflow, delta=%d", e.Delta)
}

// ErrHeaderDependency reports that a DAO withdrawal computation could not
// resolve the prepare or deposit header it needed.
type ErrHeaderDependency struct {
	// Lookup names which resolution failed: "prepare header by transaction hash"
	// or "deposit header by block number".
	Lookup string
	Key    string
}

func (e *ErrHeaderDependency) Error() string {
	return fmt.Sprintf("txbuilder: resolve %s failed: %s", e.Lookup, e.Key)
}

// ErrCapacityNotEnough reports that every capacity provider was exhausted
// without reaching a balanced transaction.
type ErrCapacityNotEnough struct {
	Msg string
}

func (e *ErrCapacityNotEnough) Error() string {
	return "txbuilder: capacity not enough: " + e.Msg
}

// ErrForceSmallChangeAsFeeFailed reports that a trailing surplus exceeded
// the user-declared cap for donating it to miners as fee.
type ErrForceSmallChangeAsFeeFailed struct {
	Fee uint64
}

func (e *ErrForceSmallChangeAsFeeFailed) Error() string {
	return fmt.Sprintf("txbuilder: force small change as fee failed, fee=%d", e.Fee)
}

// ErrResolveCellDepFailed reports that a capacity provider's lock script
// has no registered cell-dep.
type ErrResolveCellDepFailed struct {
	ScriptId ckbtype.ScriptId
}

func (e *ErrResolveCellDepFailed) Error() string {
	return fmt.Sprintf("txbuilder: resolve cell dep failed for script id %x", e.ScriptId.CodeHash)
}

// errEmptyCapacityProvider reports that a CapacityBalancer was configured
// with no capacity providers, which violates the precondition that a
// CapacityProvider be non-empty.
var errEmptyCapacityProvider = fmt.Errorf("txbuilder: empty capacity provider")

// ErrInternal wraps a panic-recovered logic-error condition (change-cell
// capacity overflow, or the balancer exceeding its hard iteration cap)
// with a captured stack trace, since both indicate a bug in this library
// rather than a caller-correctable condition.
type ErrInternal struct {
	Err *goerrors.Error
}

func (e *ErrInternal) Error() string {
	return "txbuilder: internal error: " + e.Err.Error()
}

func (e *ErrInternal) Unwrap() error {
	return e.Err.Err
}

func newErrInternal(format string, args ...interface{}) *ErrInternal {
	return &ErrInternal{Err: goerrors.Errorf(format, args...)}
}
