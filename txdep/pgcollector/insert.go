package pgcollector

import (
	"context"

	"github.com/ckbhub/txbuilder/ckbtype"
)

// buildInsertQuery renders an upsert for one newly-indexed live cell. ON
// CONFLICT DO UPDATE lets the same indexing pass re-observe a cell
// (e.g. after a reorg re-delivers a block) without erroring.
func buildInsertQuery(op ckbtype.OutPoint, out *ckbtype.CellOutput, dataLen int, mature bool) (string, []interface{}) {
	var (
		typeCodeHash interface{}
		typeHashType interface{}
		typeArgs     interface{}
	)
	if out.Type != nil {
		typeCodeHash = out.Type.CodeHash[:]
		typeHashType = byte(out.Type.HashType)
		typeArgs = []byte(out.Type.Args)
	}

	const stmt = `INSERT INTO live_cells
		(tx_hash, output_index, capacity, lock_code_hash, lock_hash_type, lock_args,
		 type_code_hash, type_hash_type, type_args, data_len, mature, reserved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE)
		ON CONFLICT (tx_hash, output_index) DO UPDATE SET
			capacity = EXCLUDED.capacity,
			lock_code_hash = EXCLUDED.lock_code_hash,
			lock_hash_type = EXCLUDED.lock_hash_type,
			lock_args = EXCLUDED.lock_args,
			type_code_hash = EXCLUDED.type_code_hash,
			type_hash_type = EXCLUDED.type_hash_type,
			type_args = EXCLUDED.type_args,
			data_len = EXCLUDED.data_len,
			mature = EXCLUDED.mature`

	args := []interface{}{
		op.TxHash[:], op.Index, out.Capacity,
		out.Lock.CodeHash[:], byte(out.Lock.HashType), []byte(out.Lock.Args),
		typeCodeHash, typeHashType, typeArgs,
		dataLen, mature,
	}
	return stmt, args
}

// PutCell indexes a live cell, inserting it or refreshing it if already
// present. Collectors don't watch the chain themselves; this is the
// write side a caller's own indexer drives.
func (c *Collector) PutCell(op ckbtype.OutPoint, out *ckbtype.CellOutput, dataLen int, mature bool) error {
	stmt, args := buildInsertQuery(op, out, dataLen, mature)
	_, err := c.pool.Exec(context.Background(), stmt, args...)
	return classifyError(err)
}

// MarkSpent removes a cell from the live set once its spending
// transaction confirms.
func (c *Collector) MarkSpent(op ckbtype.OutPoint) error {
	_, err := c.pool.Exec(context.Background(),
		"DELETE FROM live_cells WHERE tx_hash = $1 AND output_index = $2",
		op.TxHash[:], op.Index)
	return classifyError(err)
}
