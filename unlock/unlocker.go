// Package unlock declares the ScriptUnlocker contract a lock script
// implementation must satisfy to take part in placeholder-witness filling
// and final signing, and the two driver functions,
// FillPlaceholderWitnesses and UnlockTx, that walk a transaction's lock
// groups against a registry of unlockers.
//
// The interface is deliberately small: the core dispatches to it by
// ScriptId, with concrete signing left to whatever the caller plugs in.
package unlock

import (
	"fmt"

	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/scriptgroup"
	"github.com/ckbhub/txbuilder/txdep"
)

// ScriptUnlocker knows how to participate in unlocking one lock script
// identity: check whether it recognizes a given args value, report
// whether a script group is already satisfied, install a placeholder
// witness sized like the real one for fee estimation, strip that
// placeholder back out once a group turns out not to need it, and finally
// produce the real unlocking witness.
type ScriptUnlocker interface {
	// MatchArgs reports whether this unlocker can produce a witness for a
	// lock script carrying these args.
	MatchArgs(args []byte) bool

	// IsUnlocked reports whether tx already satisfies group — for
	// instance because a witness was filled in by an earlier pass.
	// Implementations with nothing to check should unconditionally
	// return false, nil.
	IsUnlocked(tx *ckbtype.Transaction, group *scriptgroup.Group, depProvider txdep.TransactionDependencyProvider) (bool, error)

	// FillPlaceholderWitness returns a copy of tx with group's witness
	// slot populated by a correctly-sized placeholder, so the balancer's
	// fee estimate accounts for the eventual real signature.
	FillPlaceholderWitness(tx *ckbtype.Transaction, group *scriptgroup.Group, depProvider txdep.TransactionDependencyProvider) (*ckbtype.Transaction, error)

	// ClearPlaceholderWitness returns a copy of tx with group's
	// placeholder witness removed, for a group IsUnlocked already
	// reports satisfied by the time UnlockTx runs.
	ClearPlaceholderWitness(tx *ckbtype.Transaction, group *scriptgroup.Group) (*ckbtype.Transaction, error)

	// Unlock returns a copy of tx with group's real unlocking witness
	// computed and installed.
	Unlock(tx *ckbtype.Transaction, group *scriptgroup.Group, depProvider txdep.TransactionDependencyProvider) (*ckbtype.Transaction, error)
}

// Registry maps a lock script's identity to the unlocker that knows how
// to satisfy it: unlockers are looked up by ScriptId, then filtered
// further by MatchArgs.
type Registry map[ckbtype.ScriptId]ScriptUnlocker

// UnlockError reports that FillPlaceholderWitnesses or UnlockTx failed,
// either because a dependency lookup failed or because an unlocker itself
// returned an error.
type UnlockError struct {
	ScriptId ckbtype.ScriptId
	Err      error
}

func (e *UnlockError) Error() string {
	return fmt.Sprintf("unlock: script id %x: %v", e.ScriptId.CodeHash, e.Err)
}

func (e *UnlockError) Unwrap() error {
	return e.Err
}
