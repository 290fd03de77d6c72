package txbuilder

import (
	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/scriptgroup"
	"github.com/ckbhub/txbuilder/txdep"
	"github.com/ckbhub/txbuilder/unlock"
)

// Builder produces the unbalanced, unsigned shell of one kind of
// transaction (a transfer, a DAO deposit, whatever the caller is
// assembling) by querying the dependency resolvers and cell collector
// directly. BuildBalanced and BuildUnlocked are then generic over any
// Builder.
type Builder interface {
	BuildBase(collector txdep.CellCollector, cellDepResolver txdep.CellDepResolver, headerResolver txdep.HeaderDepResolver, depProvider txdep.TransactionDependencyProvider) (*ckbtype.Transaction, error)
}

// BuildBalanced runs b.BuildBase, fills placeholder witnesses for every
// lock group an entry in unlockers recognizes, and balances the result
// against balancer.
func BuildBalanced(b Builder, collector txdep.CellCollector, cellDepResolver txdep.CellDepResolver, headerResolver txdep.HeaderDepResolver, depProvider txdep.TransactionDependencyProvider, balancer *CapacityBalancer, unlockers unlock.Registry) (*ckbtype.Transaction, error) {
	base, err := b.BuildBase(collector, cellDepResolver, headerResolver, depProvider)
	if err != nil {
		return nil, err
	}
	filled, _, err := unlock.FillPlaceholderWitnesses(base, depProvider, unlockers)
	if err != nil {
		return nil, err
	}
	return Balance(filled, balancer, collector, depProvider, cellDepResolver, headerResolver)
}

// BuildUnlocked runs BuildBalanced and then unlocks every lock group an
// entry in unlockers recognizes, returning the script groups that were
// left unmatched so the caller can decide whether to sign them by some
// other means or reject the transaction.
func BuildUnlocked(b Builder, collector txdep.CellCollector, cellDepResolver txdep.CellDepResolver, headerResolver txdep.HeaderDepResolver, depProvider txdep.TransactionDependencyProvider, balancer *CapacityBalancer, unlockers unlock.Registry) (*ckbtype.Transaction, []*scriptgroup.Group, error) {
	balanced, err := BuildBalanced(b, collector, cellDepResolver, headerResolver, depProvider, balancer, unlockers)
	if err != nil {
		return nil, nil, err
	}
	return unlock.UnlockTx(balanced, depProvider, unlockers)
}
