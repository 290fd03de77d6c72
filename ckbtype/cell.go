package ckbtype

// CellOutput is a cell's spendable shape: capacity, the lock script that
// authorizes spending it, and an optional type script governing state
// transitions.
type CellOutput struct {
	Capacity uint64
	Lock     *Script
	Type     *Script
}

// Serialize renders the CellOutput as a molecule table: {capacity: Uint64,
// lock: Script, type: ScriptOpt}.
func (c *CellOutput) Serialize() []byte {
	return packDynamic([][]byte{
		packUint64(c.Capacity),
		c.Lock.Serialize(),
		serializeScriptOpt(c.Type),
	})
}

// LockHash returns the hash of the cell's lock script, the script-group
// key used by scriptgroup.BuildGroups.
func (c *CellOutput) LockHash() [32]byte {
	return c.Lock.Hash()
}

// TypeHash returns the hash of the cell's type script and whether one is
// present.
func (c *CellOutput) TypeHash() ([32]byte, bool) {
	if c.Type == nil {
		return [32]byte{}, false
	}
	return c.Type.Hash(), true
}

// OccupiedCapacity returns the minimum capacity (in shannons) a cell of
// this shape, holding dataLen bytes of data, must carry to be valid
// on-chain: one CKByte of capacity per byte of (capacity field + lock +
// type + data).
func (c *CellOutput) OccupiedCapacity(dataLen int) uint64 {
	size := 8 + len(c.Lock.Serialize()) + dataLen
	if c.Type != nil {
		size += len(c.Type.Serialize())
	}
	return uint64(size) * ShannonsPerCKByte
}
