package txdep

import "github.com/ckbhub/txbuilder/ckbtype"

// ValueRangeOption constrains a numeric query field to [start, end)
// (start inclusive, end exclusive). A zero-value ValueRangeOption means
// "no constraint".
type ValueRangeOption struct {
	Start uint64
	End   uint64
	set   bool
}

// NewExactValueRange constrains a field to exactly v.
func NewExactValueRange(v uint64) ValueRangeOption {
	return ValueRangeOption{Start: v, End: v + 1, set: true}
}

// NewMinValueRange constrains a field to >= v with no upper bound.
func NewMinValueRange(v uint64) ValueRangeOption {
	return ValueRangeOption{Start: v, End: 0, set: true}
}

// Matches reports whether v satisfies the range, treating a zero value as
// "unconstrained".
func (r ValueRangeOption) Matches(v uint64) bool {
	if !r.set {
		return true
	}
	if v < r.Start {
		return false
	}
	if r.End != 0 && v >= r.End {
		return false
	}
	return true
}

// CellQueryOptions describes a live-cell query: a lock script, whether a
// type script must be absent or present, an exact data length constraint,
// a minimum aggregate capacity, and a maturity filter.
type CellQueryOptions struct {
	Lock *ckbtype.Script

	// RequireNoType, when true, excludes cells that carry a type script.
	// The balancer's base query always sets this.
	RequireNoType bool

	// DataLenRange constrains the cell's data length; the balancer always
	// requires exactly 0.
	DataLenRange ValueRangeOption

	// MinTotalCapacity stops collection as soon as the returned cells'
	// aggregate capacity reaches it. When the matching cells sum to less,
	// all of them are returned. Zero disables the constraint.
	MinTotalCapacity uint64

	// MatureOnly, when true, excludes cells that are not yet spendable
	// under the chain's cellbase/DAO maturity rules.
	MatureOnly bool
}

// NewLockQuery builds the base query the balancer issues for a capacity
// provider: exact lock script match, no type script, zero data length,
// mature only.
func NewLockQuery(lock *ckbtype.Script) CellQueryOptions {
	return CellQueryOptions{
		Lock:          lock,
		RequireNoType: true,
		DataLenRange:  NewExactValueRange(0),
		MatureOnly:    true,
	}
}

// WithMinTotalCapacity returns a copy of q with MinTotalCapacity set,
// leaving q itself untouched (the balancer reuses base_query across
// "need more capacity" passes with differing minimums).
func (q CellQueryOptions) WithMinTotalCapacity(min uint64) CellQueryOptions {
	q.MinTotalCapacity = min
	return q
}

// LiveCell is a cell returned by a CellCollector query, paired with the
// OutPoint it must be spent through.
type LiveCell struct {
	OutPoint ckbtype.OutPoint
	Output   *ckbtype.CellOutput
}

// CellCollector returns live cells matching a query, optionally marking
// them reserved so a later call within the same build does not return
// them again.
type CellCollector interface {
	// CollectLiveCells returns cells matching query and their total
	// capacity. When reserve is true, every returned cell must not be
	// returned again by a later call on this same collector instance.
	CollectLiveCells(query CellQueryOptions, reserve bool) ([]LiveCell, uint64, error)
}
