// Package pgcollector is a Postgres-backed txdep.CellCollector built on
// jackc/pgx and golang-migrate. Reservation is a single atomic UPDATE ...
// RETURNING rather than a separate read-then-mark step, so two concurrent
// builders never observe and claim the same cell.
package pgcollector

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/txdep"
)

// Collector implements txdep.CellCollector against a live_cells table.
type Collector struct {
	pool *pgxpool.Pool
}

// New wraps an already-connected pool. Callers are expected to have run
// Migrate (or applied the migrations/ directory some other way) first.
func New(pool *pgxpool.Pool) *Collector {
	return &Collector{pool: pool}
}

// CollectLiveCells implements txdep.CellCollector. When reserve is true
// the matching rows are atomically marked reserved in the same
// statement that reads them. The txdep.CellCollector contract carries no
// context, so queries run against context.Background(); callers needing
// cancellation or deadlines should wrap Collector rather than change its
// signature away from the shared interface.
func (c *Collector) CollectLiveCells(query txdep.CellQueryOptions, reserve bool) ([]txdep.LiveCell, uint64, error) {
	selectStmt, args := buildSelectQuery(query)
	stmt, stmtArgs := selectStmt, args
	if reserve {
		stmt, stmtArgs = reservationQuery(selectStmt, args)
	}

	rows, err := c.pool.Query(context.Background(), stmt, stmtArgs...)
	if err != nil {
		return nil, 0, classifyError(err)
	}
	defer rows.Close()

	var (
		out   []txdep.LiveCell
		total uint64
	)
	for rows.Next() {
		cell, err := scanLiveCell(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, cell)
		total += cell.Output.Capacity
		if query.MinTotalCapacity != 0 && total >= query.MinTotalCapacity {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classifyError(err)
	}
	return out, total, nil
}

func scanLiveCell(rows pgx.Rows) (txdep.LiveCell, error) {
	var (
		txHash   []byte
		index    uint32
		capacity uint64
		codeHash []byte
		hashType byte
		lockArgs []byte
	)
	if err := rows.Scan(&txHash, &index, &capacity, &codeHash, &hashType, &lockArgs); err != nil {
		return txdep.LiveCell{}, err
	}

	var op ckbtype.OutPoint
	copy(op.TxHash[:], txHash)
	op.Index = index

	var code [32]byte
	copy(code[:], codeHash)
	lock := ckbtype.NewScript(code, ckbtype.HashType(hashType), lockArgs)

	return txdep.LiveCell{
		OutPoint: op,
		Output:   &ckbtype.CellOutput{Capacity: capacity, Lock: lock},
	}, nil
}
