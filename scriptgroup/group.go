// Package scriptgroup partitions a transaction's input and output
// positions by the lock or type script that governs them, since signature
// verification on this ledger is batched per such group.
package scriptgroup

import (
	"sort"

	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/txdep"
)

// Kind distinguishes a lock-script group from a type-script group.
type Kind int

const (
	KindLock Kind = iota
	KindType
)

// Group is one script-group: the script itself, its kind, and the
// ascending-by-position input/output indices it covers. For a lock
// group, OutputIndices is always empty.
type Group struct {
	Script        *ckbtype.Script
	Kind          Kind
	InputIndices  []int
	OutputIndices []int
}

// Groups holds the lock-keyed and type-keyed partitions produced by one
// pass over a transaction.
type Groups struct {
	LockGroups map[[32]byte]*Group
	TypeGroups map[[32]byte]*Group
}

// BuildGroups partitions tx's inputs and outputs into lock and type
// script groups. Iteration order over the resulting maps is undefined by
// design; within each group, indices are appended in ascending position
// order, matching insertion order since inputs/outputs are walked in
// position order below.
func BuildGroups(tx *ckbtype.Transaction, depProvider txdep.TransactionDependencyProvider) (*Groups, error) {
	groups := &Groups{
		LockGroups: make(map[[32]byte]*Group),
		TypeGroups: make(map[[32]byte]*Group),
	}

	for i, input := range tx.Inputs {
		cell, err := depProvider.GetCell(input.PreviousOutput)
		if err != nil {
			return nil, err
		}

		lockHash := cell.LockHash()
		lockGroup, ok := groups.LockGroups[lockHash]
		if !ok {
			lockGroup = &Group{Script: cell.Lock, Kind: KindLock}
			groups.LockGroups[lockHash] = lockGroup
		}
		lockGroup.InputIndices = append(lockGroup.InputIndices, i)

		if typeHash, has := cell.TypeHash(); has {
			typeGroup, ok := groups.TypeGroups[typeHash]
			if !ok {
				typeGroup = &Group{Script: cell.Type, Kind: KindType}
				groups.TypeGroups[typeHash] = typeGroup
			}
			typeGroup.InputIndices = append(typeGroup.InputIndices, i)
		}
	}

	for j, output := range tx.Outputs {
		if typeHash, has := output.TypeHash(); has {
			typeGroup, ok := groups.TypeGroups[typeHash]
			if !ok {
				typeGroup = &Group{Script: output.Type, Kind: KindType}
				groups.TypeGroups[typeHash] = typeGroup
			}
			typeGroup.OutputIndices = append(typeGroup.OutputIndices, j)
		}
	}

	return groups, nil
}

// SortedLockGroups returns the lock groups ordered by script hash, purely
// for deterministic test output — callers must not rely on this order for
// correctness; script-group iteration order is undefined and must not be
// observed externally.
func (g *Groups) SortedLockGroups() []*Group {
	return sortedGroups(g.LockGroups)
}

// SortedTypeGroups is the type-group analogue of SortedLockGroups.
func (g *Groups) SortedTypeGroups() []*Group {
	return sortedGroups(g.TypeGroups)
}

func sortedGroups(m map[[32]byte]*Group) []*Group {
	keys := make([][32]byte, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		for b := 0; b < 32; b++ {
			if keys[i][b] != keys[j][b] {
				return keys[i][b] < keys[j][b]
			}
		}
		return false
	})
	out := make([]*Group, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
