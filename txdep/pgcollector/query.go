package pgcollector

import (
	"fmt"
	"strings"

	"github.com/ckbhub/txbuilder/txdep"
)

// buildSelectQuery renders a txdep.CellQueryOptions into a parameterized
// SQL statement selecting matching rows from live_cells, oldest first so
// repeated queries against a stable data set return cells in a
// deterministic order. The WHERE clause is built incrementally so that an
// unset constraint (a nil lock, RequireNoType false, an unconstrained
// DataLenRange, MatureOnly false) costs nothing rather than emitting a
// tautological predicate.
func buildSelectQuery(query txdep.CellQueryOptions) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	conds = append(conds, "NOT reserved")

	if query.Lock != nil {
		args = append(args, query.Lock.CodeHash[:], byte(query.Lock.HashType), []byte(query.Lock.Args))
		conds = append(conds, fmt.Sprintf(
			"lock_code_hash = $%d AND lock_hash_type = $%d AND lock_args = $%d",
			len(args)-2, len(args)-1, len(args)))
	}
	if query.RequireNoType {
		conds = append(conds, "type_code_hash IS NULL")
	}
	if rangeIsSet(query.DataLenRange) {
		if lo, hi, ok := rangeBounds(query.DataLenRange); ok {
			args = append(args, lo)
			conds = append(conds, fmt.Sprintf("data_len >= $%d", len(args)))
			if hi != nil {
				args = append(args, *hi)
				conds = append(conds, fmt.Sprintf("data_len < $%d", len(args)))
			}
		}
	}
	if query.MatureOnly {
		conds = append(conds, "mature")
	}

	stmt := fmt.Sprintf(
		"SELECT tx_hash, output_index, capacity, lock_code_hash, lock_hash_type, lock_args FROM live_cells WHERE %s ORDER BY tx_hash, output_index",
		strings.Join(conds, " AND "),
	)
	return stmt, args
}

// rangeIsSet reports whether r constrains anything, mirroring
// ValueRangeOption's own unexported "set" flag which buildSelectQuery
// cannot reach directly from outside the txdep package.
func rangeIsSet(r txdep.ValueRangeOption) bool {
	return r.Matches(0) != r.Matches(^uint64(0))
}

// rangeBounds extracts [lo, hi) from a ValueRangeOption already known to
// be set, reporting hi as nil when the range has no upper bound.
func rangeBounds(r txdep.ValueRangeOption) (lo uint64, hi *uint64, ok bool) {
	if !rangeIsSet(r) {
		return 0, nil, false
	}
	lo = r.Start
	if r.End != 0 {
		end := r.End
		return lo, &end, true
	}
	return lo, nil, true
}

// reservationQuery renders the atomic claim used when reserve is true: an
// UPDATE ... RETURNING that flips reserved to true for exactly the rows a
// plain select would have returned, so a concurrent caller never observes
// a cell as available after it has been claimed.
func reservationQuery(selectStmt string, selectArgs []interface{}) (string, []interface{}) {
	stmt := fmt.Sprintf(
		"WITH claimed AS (%s FOR UPDATE SKIP LOCKED) UPDATE live_cells SET reserved = TRUE FROM claimed WHERE live_cells.tx_hash = claimed.tx_hash AND live_cells.output_index = claimed.output_index RETURNING live_cells.tx_hash, live_cells.output_index, live_cells.capacity, live_cells.lock_code_hash, live_cells.lock_hash_type, live_cells.lock_args",
		selectStmt,
	)
	return stmt, selectArgs
}
