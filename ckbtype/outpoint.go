package ckbtype

// OutPoint references a previous cell by its creating transaction hash and
// output index.
type OutPoint struct {
	TxHash [32]byte
	Index  uint32
}

// Serialize renders the OutPoint as a molecule struct: {tx_hash: Byte32,
// index: Uint32} — a fixed 36 bytes.
func (o OutPoint) Serialize() []byte {
	out := make([]byte, 36)
	copy(out[0:32], o.TxHash[:])
	copy(out[32:36], packUint32(o.Index))
	return out
}

// CellDepType distinguishes a plain code cell-dep from a dep-group.
type CellDepType byte

const (
	CellDepTypeCode     CellDepType = 0
	CellDepTypeDepGroup CellDepType = 1
)

// CellDep points at on-chain code the transaction references.
type CellDep struct {
	OutPoint OutPoint
	DepType  CellDepType
}

// Equal reports whether two cell-deps are identical.
func (d CellDep) Equal(other CellDep) bool {
	return d.OutPoint == other.OutPoint && d.DepType == other.DepType
}

// Serialize renders the CellDep as a molecule struct: {out_point: OutPoint,
// dep_type: byte} — a fixed 37 bytes.
func (d CellDep) Serialize() []byte {
	out := make([]byte, 37)
	copy(out[0:36], d.OutPoint.Serialize())
	out[36] = byte(d.DepType)
	return out
}

// CellInput is a transaction input: the cell it spends, and its since
// time-lock value.
type CellInput struct {
	PreviousOutput OutPoint
	Since          uint64
}

// Serialize renders the CellInput as a molecule struct: {since: Uint64,
// previous_output: OutPoint} — a fixed 44 bytes.
func (i CellInput) Serialize() []byte {
	out := make([]byte, 44)
	copy(out[0:8], packUint64(i.Since))
	copy(out[8:44], i.PreviousOutput.Serialize())
	return out
}
