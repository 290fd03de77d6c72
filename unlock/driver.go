package unlock

import (
	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/scriptgroup"
	"github.com/ckbhub/txbuilder/txdep"
)

// UnlockTx walks every lock group of tx and, for each one whose ScriptId
// has a registered unlocker: strips a stale placeholder if the group
// already reports unlocked, otherwise computes and installs the real
// unlocking witness when the unlocker recognizes the script's args. Lock
// groups with no registered unlocker, or with args the registered
// unlocker does not recognize, are returned as notUnlocked.
func UnlockTx(tx *ckbtype.Transaction, depProvider txdep.TransactionDependencyProvider, unlockers Registry) (unlocked *ckbtype.Transaction, notUnlocked []*scriptgroup.Group, err error) {
	groups, err := scriptgroup.BuildGroups(tx, depProvider)
	if err != nil {
		return nil, nil, err
	}

	cur := tx
	for _, group := range groups.SortedLockGroups() {
		scriptId := ckbtype.ScriptIdFromScript(group.Script)
		unlocker, ok := unlockers[scriptId]
		if !ok {
			notUnlocked = append(notUnlocked, group)
			continue
		}

		isUnlocked, err := unlocker.IsUnlocked(cur, group, depProvider)
		if err != nil {
			return nil, nil, &UnlockError{ScriptId: scriptId, Err: err}
		}

		switch {
		case isUnlocked:
			cur, err = unlocker.ClearPlaceholderWitness(cur, group)
			if err != nil {
				return nil, nil, &UnlockError{ScriptId: scriptId, Err: err}
			}
		case unlocker.MatchArgs(group.Script.Args):
			cur, err = unlocker.Unlock(cur, group, depProvider)
			if err != nil {
				return nil, nil, &UnlockError{ScriptId: scriptId, Err: err}
			}
		default:
			notUnlocked = append(notUnlocked, group)
		}
	}
	return cur, notUnlocked, nil
}
