package ckbtype

import "fmt"

// WitnessArgs is the conventional structure placed in a transaction's
// witness slot for lock/type-script-governed inputs: up to three optional
// byte blobs (lock signature, and input/output side-channel data for type
// scripts).
type WitnessArgs struct {
	Lock       []byte // nil means absent, matching molecule's BytesOpt None
	InputType  []byte
	OutputType []byte
}

func serializeBytesOpt(b []byte) []byte {
	if b == nil {
		return nil
	}
	return packBytes(b)
}

// Serialize renders WitnessArgs as a molecule table: {lock: BytesOpt,
// input_type: BytesOpt, output_type: BytesOpt}.
func (w *WitnessArgs) Serialize() []byte {
	return packDynamic([][]byte{
		serializeBytesOpt(w.Lock),
		serializeBytesOpt(w.InputType),
		serializeBytesOpt(w.OutputType),
	})
}

// ParseWitnessArgs decodes a witness slot previously produced by
// WitnessArgs.Serialize. An empty or nil blob decodes to a zero-value
// WitnessArgs, matching a transaction input whose witness has not been
// touched yet.
func ParseWitnessArgs(b []byte) (*WitnessArgs, error) {
	if len(b) == 0 {
		return &WitnessArgs{}, nil
	}
	fields, err := unpackDynamic(b)
	if err != nil {
		return nil, err
	}
	if len(fields) != 3 {
		return nil, fmt.Errorf("ckbtype: witness args must have 3 fields, got %d", len(fields))
	}
	lock, err := unpackBytesOpt(fields[0])
	if err != nil {
		return nil, err
	}
	inputType, err := unpackBytesOpt(fields[1])
	if err != nil {
		return nil, err
	}
	outputType, err := unpackBytesOpt(fields[2])
	if err != nil {
		return nil, err
	}
	return &WitnessArgs{Lock: lock, InputType: inputType, OutputType: outputType}, nil
}

// Transaction is the mutable, in-progress transaction the balancer and
// unlock driver build up: a plain struct mutated directly as inputs,
// outputs and witnesses are appended, the way btcd's wire.MsgTx is built
// with AddTxIn/AddTxOut.
type Transaction struct {
	Version     uint32
	CellDeps    []CellDep
	HeaderDeps  [][32]byte
	Inputs      []CellInput
	Outputs     []*CellOutput
	OutputsData [][]byte
	Witnesses   [][]byte
}

// Clone returns a deep-enough copy for speculative candidate construction
// in the balancer loop: slices are copied, CellOutput/Script pointers are
// shared (they are treated as frozen once built).
func (tx *Transaction) Clone() *Transaction {
	out := &Transaction{
		Version:     tx.Version,
		CellDeps:    append([]CellDep(nil), tx.CellDeps...),
		HeaderDeps:  append([][32]byte(nil), tx.HeaderDeps...),
		Inputs:      append([]CellInput(nil), tx.Inputs...),
		Outputs:     append([]*CellOutput(nil), tx.Outputs...),
		OutputsData: append([][]byte(nil), tx.OutputsData...),
		Witnesses:   append([][]byte(nil), tx.Witnesses...),
	}
	return out
}

func serializeRaw(tx *Transaction) []byte {
	cellDeps := make([][]byte, len(tx.CellDeps))
	for i, d := range tx.CellDeps {
		cellDeps[i] = d.Serialize()
	}
	headerDeps := make([][]byte, len(tx.HeaderDeps))
	for i, h := range tx.HeaderDeps {
		cp := h
		headerDeps[i] = cp[:]
	}
	inputs := make([][]byte, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputs[i] = in.Serialize()
	}
	outputs := make([][]byte, len(tx.Outputs))
	for i, o := range tx.Outputs {
		outputs[i] = o.Serialize()
	}
	outputsData := make([][]byte, len(tx.OutputsData))
	for i, d := range tx.OutputsData {
		outputsData[i] = packBytes(d)
	}
	return packDynamic([][]byte{
		packUint32(tx.Version),
		packFixVec(cellDeps),
		packFixVec(headerDeps),
		packFixVec(inputs),
		packDynamic(outputs),
		packDynamic(outputsData),
	})
}

// Serialize renders the full Transaction as a molecule table: {raw:
// RawTransaction, witnesses: Vec<Bytes>}.
func (tx *Transaction) Serialize() []byte {
	witnesses := make([][]byte, len(tx.Witnesses))
	for i, w := range tx.Witnesses {
		witnesses[i] = packBytes(w)
	}
	return packDynamic([][]byte{
		serializeRaw(tx),
		packDynamic(witnesses),
	})
}

// SerializedSizeInBlock is the byte length the fee rate is computed
// against.
func (tx *Transaction) SerializedSizeInBlock() int {
	return len(tx.Serialize())
}

// Hash returns the transaction hash: the hash of the raw transaction
// (cell deps/header deps/inputs/outputs/outputs-data), excluding
// witnesses — matching CKB's convention that witnesses do not affect the
// hash signed over by those same witnesses.
func (tx *Transaction) Hash() [32]byte {
	return Blake2bHash256(serializeRaw(tx))
}

// OutputsCapacity sums output capacities, failing on overflow (spec.md
// §4.1).
func (tx *Transaction) OutputsCapacity() (uint64, error) {
	var total uint64
	for _, o := range tx.Outputs {
		next := total + o.Capacity
		if next < total {
			return 0, fmt.Errorf("ckbtype: output capacity overflow")
		}
		total = next
	}
	return total, nil
}
