package memcollector

import (
	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/txdep"
)

// Provider is an in-memory txdep.TransactionDependencyProvider +
// txdep.CellDepResolver + txdep.HeaderDepResolver, for tests that need
// the full set of resolvers alongside a Collector.
type Provider struct {
	Cells      map[ckbtype.OutPoint]*ckbtype.CellOutput
	CellData   map[ckbtype.OutPoint][]byte
	CellDeps   map[ckbtype.ScriptId]*ckbtype.CellDep
	HeadersByTxHash map[[32]byte]*ckbtype.Header
	HeadersByNumber map[uint64]*ckbtype.Header
}

// NewProvider builds an empty Provider ready for its maps to be populated.
func NewProvider() *Provider {
	return &Provider{
		Cells:           make(map[ckbtype.OutPoint]*ckbtype.CellOutput),
		CellData:        make(map[ckbtype.OutPoint][]byte),
		CellDeps:        make(map[ckbtype.ScriptId]*ckbtype.CellDep),
		HeadersByTxHash: make(map[[32]byte]*ckbtype.Header),
		HeadersByNumber: make(map[uint64]*ckbtype.Header),
	}
}

// PutCell registers a previous cell and its data under op, for both
// GetCell and GetCellData to serve.
func (p *Provider) PutCell(op ckbtype.OutPoint, out *ckbtype.CellOutput, data []byte) {
	p.Cells[op] = out
	p.CellData[op] = data
}

// GetCell implements txdep.TransactionDependencyProvider.
func (p *Provider) GetCell(op ckbtype.OutPoint) (*ckbtype.CellOutput, error) {
	c, ok := p.Cells[op]
	if !ok {
		return nil, txdep.ErrCellNotFound
	}
	return c, nil
}

// GetCellData implements txdep.TransactionDependencyProvider.
func (p *Provider) GetCellData(op ckbtype.OutPoint) ([]byte, error) {
	d, ok := p.CellData[op]
	if !ok {
		return nil, txdep.ErrCellNotFound
	}
	return d, nil
}

// Resolve implements txdep.CellDepResolver.
func (p *Provider) Resolve(id ckbtype.ScriptId) (*ckbtype.CellDep, bool) {
	d, ok := p.CellDeps[id]
	return d, ok
}

// ResolveByTxHash implements txdep.HeaderDepResolver.
func (p *Provider) ResolveByTxHash(txHash [32]byte) (*ckbtype.Header, bool) {
	h, ok := p.HeadersByTxHash[txHash]
	return h, ok
}

// ResolveByNumber implements txdep.HeaderDepResolver.
func (p *Provider) ResolveByNumber(number uint64) (*ckbtype.Header, bool) {
	h, ok := p.HeadersByNumber[number]
	return h, ok
}
