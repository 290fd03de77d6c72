package unlock

import (
	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/scriptgroup"
	"github.com/ckbhub/txbuilder/txdep"
)

// FillPlaceholderWitnesses walks every lock group of tx and, for each
// one whose ScriptId has a registered unlocker, installs a
// correctly-sized placeholder witness unless the group is already
// unlocked. Lock groups with no registered unlocker, or whose script
// args the registered unlocker does not recognize, are returned as
// notMatched so the caller can decide whether to proceed anyway (spec.md
// §4.2, ported from fill_placeholder_witnesses).
func FillPlaceholderWitnesses(tx *ckbtype.Transaction, depProvider txdep.TransactionDependencyProvider, unlockers Registry) (filled *ckbtype.Transaction, notMatched []*scriptgroup.Group, err error) {
	groups, err := scriptgroup.BuildGroups(tx, depProvider)
	if err != nil {
		return nil, nil, err
	}

	cur := tx
	for _, group := range groups.SortedLockGroups() {
		scriptId := ckbtype.ScriptIdFromScript(group.Script)
		unlocker, ok := unlockers[scriptId]
		if !ok {
			notMatched = append(notMatched, group)
			continue
		}

		unlocked, err := unlocker.IsUnlocked(cur, group, depProvider)
		if err != nil {
			return nil, nil, &UnlockError{ScriptId: scriptId, Err: err}
		}
		if unlocked {
			continue
		}

		if !unlocker.MatchArgs(group.Script.Args) {
			notMatched = append(notMatched, group)
			continue
		}

		cur, err = unlocker.FillPlaceholderWitness(cur, group, depProvider)
		if err != nil {
			return nil, nil, &UnlockError{ScriptId: scriptId, Err: err}
		}
	}
	return cur, notMatched, nil
}
