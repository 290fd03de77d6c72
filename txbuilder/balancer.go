package txbuilder

import (
	"errors"
	"fmt"

	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/metrics"
	"github.com/ckbhub/txbuilder/txdep"
)

// changeCellHeaderExtra is the fixed cost, in bytes, of a change cell's
// molecule framing beyond its own serialized CellOutput: a 4-byte offset
// entry in the outputs dynvec, a 4-byte offset entry in the outputs-data
// dynvec, and the 4-byte length header of the (empty) output data Bytes
// element itself.
const changeCellHeaderExtra = 4 + 4 + 4

// maxBalanceIterations bounds the balancer's fixed-point loop. The loop
// is expected to converge in a handful of passes; exceeding this is
// promoted to an internal error rather than looping forever, since it
// indicates a bug in the convergence logic rather than a caller-facing
// condition.
const maxBalanceIterations = 256

// LockCandidate is one lock script a CapacityProvider may draw cells
// from, paired with the placeholder witness a spent cell under that lock
// requires for fee estimation before it is actually signed.
type LockCandidate struct {
	Lock               *ckbtype.Script
	PlaceholderWitness []byte
}

// CapacityProvider is the ordered list of lock scripts the balancer may
// draw additional input capacity from. Earlier candidates are tried
// first; the balancer advances to the next only once a candidate's cells
// are exhausted.
type CapacityProvider struct {
	LockScripts []LockCandidate
}

// CapacityBalancer configures one Balance call: the fee rate to target,
// the capacity provider to draw from, an optional override for the
// change cell's lock script (defaulting to the provider's first
// candidate), an optional cap on donating a stubborn trailing surplus to
// miners as fee instead of growing a change cell for it, and an optional
// metrics sink.
type CapacityBalancer struct {
	FeeRate               ckbtype.FeeRate
	CapacityProvider      CapacityProvider
	ChangeLockScript      *ckbtype.Script
	ForceSmallChangeAsFee *uint64
	Metrics               *metrics.Balancer
}

// Balance fills tx with additional inputs and a change output until its
// actual fee equals the fee rate's minimum for its final serialized
// size, a fixed point reached by construction since adding a change
// output or growing one changes the transaction's own size.
func Balance(tx *ckbtype.Transaction, balancer *CapacityBalancer, collector txdep.CellCollector, depProvider txdep.TransactionDependencyProvider, cellDepResolver txdep.CellDepResolver, headerResolver txdep.HeaderDepResolver) (result *ckbtype.Transaction, err error) {
	defer func() {
		if r := recover(); r != nil {
			if internal, ok := r.(*ErrInternal); ok {
				err = internal
				return
			}
			panic(r)
		}
	}()

	if len(balancer.CapacityProvider.LockScripts) == 0 {
		return nil, errEmptyCapacityProvider
	}

	changeLock := balancer.ChangeLockScript
	if changeLock == nil {
		changeLock = balancer.CapacityProvider.LockScripts[0].Lock
	}
	baseChangeOutput := &ckbtype.CellOutput{Lock: changeLock}
	baseChangeOccupied := baseChangeOutput.OccupiedCapacity(0)

	candidates := dedupCandidates(balancer.CapacityProvider.LockScripts)

	lockIdx := 0
	var cellDeps []ckbtype.CellDep
	var addedInputs []ckbtype.CellInput
	var addedWitnesses [][]byte
	var changeOutput *ckbtype.CellOutput
	resolvedProvider := make(map[int]bool)

	for iteration := 0; ; iteration++ {
		if iteration >= maxBalanceIterations {
			panic(newErrInternal("capacity balancer exceeded %d iterations without converging", maxBalanceIterations))
		}
		balancer.Metrics.IncIteration()

		candidate := candidates[lockIdx]
		baseQuery := txdep.NewLockQuery(candidate.Lock)

		hasProvider, err := lockAlreadyProvidesInput(candidate.Lock, tx.Inputs, addedInputs, depProvider)
		if err != nil {
			return nil, err
		}

		for len(tx.Witnesses)+len(addedWitnesses) < len(tx.Inputs)+len(addedInputs) {
			addedWitnesses = append(addedWitnesses, nil)
		}

		newTx := assembleCandidateTx(tx, cellDeps, addedInputs, addedWitnesses, changeOutput)

		txSize := newTx.SerializedSizeInBlock()
		minFee := balancer.FeeRate.Fee(txSize)

		needMoreCapacity := uint64(1)
		fee, feeErr := Fee(newTx, depProvider, headerResolver)

		switch {
		case feeErr == nil && fee == minFee:
			balancer.Metrics.ObserveFinalFee(fee)
			return newTx, nil

		case feeErr == nil && fee > minFee:
			delta := fee - minFee
			if changeOutput != nil {
				newCapacity := changeOutput.Capacity + delta
				if newCapacity < changeOutput.Capacity {
					panic(newErrInternal("change cell capacity overflow growing by %d", delta))
				}
				log.Debugf("balancer: growing change cell from %d to %d shannons", changeOutput.Capacity, newCapacity)
				changeOutput = cloneChangeOutput(changeOutput, newCapacity)
				needMoreCapacity = 0
			} else {
				extraMinFee := balancer.FeeRate.Fee(len(baseChangeOutput.Serialize()) + changeCellHeaderExtra)
				if delta >= baseChangeOccupied+extraMinFee {
					log.Debugf("balancer: creating change cell with %d shannons", delta-extraMinFee)
					changeOutput = &ckbtype.CellOutput{Capacity: delta - extraMinFee, Lock: changeLock}
					needMoreCapacity = 0
				} else {
					moreCells, _, err := collector.CollectLiveCells(baseQuery, false)
					if err != nil {
						return nil, err
					}
					if len(moreCells) == 0 {
						log.Debugf("balancer: collector exhausted for provider %d while sizing change cell", lockIdx)
						switch {
						case balancer.ForceSmallChangeAsFee != nil:
							if fee > *balancer.ForceSmallChangeAsFee {
								return nil, &ErrForceSmallChangeAsFeeFailed{Fee: fee}
							}
							balancer.Metrics.ObserveFinalFee(fee)
							return newTx, nil
						case lockIdx+1 == len(candidates):
							return nil, &ErrCapacityNotEnough{Msg: fmt.Sprintf("can not create change cell, left capacity=%s", ckbtype.HumanCapacity(delta))}
						default:
							log.Infof("balancer: advancing from provider %d to %d", lockIdx, lockIdx+1)
							lockIdx++
							balancer.Metrics.IncProviderAdvance()
							continue
						}
					}
					changeOutput = &ckbtype.CellOutput{Capacity: baseChangeOccupied, Lock: changeLock}
				}
			}

		case feeErr == nil:
			// 0 <= fee < minFee: neither enough fee headroom to stop nor a
			// concrete overflow demanding more input. needMoreCapacity stays
			// at its default of 1 so the loop pulls in at least one more
			// cell and re-measures.

		default:
			var overflow *ErrCapacityOverflow
			if errors.As(feeErr, &overflow) {
				needMoreCapacity = overflow.Delta + minFee
			} else {
				return nil, feeErr
			}
		}

		if needMoreCapacity > 0 {
			query := baseQuery.WithMinTotalCapacity(needMoreCapacity)
			moreCells, _, err := collector.CollectLiveCells(query, true)
			if err != nil {
				return nil, err
			}
			if len(moreCells) == 0 {
				log.Debugf("balancer: collector exhausted for provider %d, needed %s", lockIdx, ckbtype.HumanCapacity(needMoreCapacity))
				if lockIdx+1 == len(candidates) {
					return nil, &ErrCapacityNotEnough{Msg: fmt.Sprintf("need more capacity, value=%s", ckbtype.HumanCapacity(needMoreCapacity))}
				}
				log.Infof("balancer: advancing from provider %d to %d", lockIdx, lockIdx+1)
				lockIdx++
				balancer.Metrics.IncProviderAdvance()
				continue
			}

			if !resolvedProvider[lockIdx] {
				scriptId := ckbtype.ScriptIdFromScript(candidate.Lock)
				dep, ok := cellDepResolver.Resolve(scriptId)
				if !ok {
					return nil, &ErrResolveCellDepFailed{ScriptId: scriptId}
				}
				if !cellDepPresent(tx.CellDeps, dep) && !cellDepPresent(cellDeps, dep) {
					cellDeps = append(cellDeps, *dep)
				}
				resolvedProvider[lockIdx] = true
			}
			if !hasProvider {
				addedWitnesses = append(addedWitnesses, candidate.PlaceholderWitness)
			}
			since := multisigSince(candidate.Lock)
			for _, c := range moreCells {
				addedInputs = append(addedInputs, ckbtype.CellInput{PreviousOutput: c.OutPoint, Since: since})
			}
		}
	}
}

func dedupCandidates(in []LockCandidate) []LockCandidate {
	var out []LockCandidate
	for _, c := range in {
		dup := false
		for _, existing := range out {
			if existing.Lock.Equal(c.Lock) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

func lockAlreadyProvidesInput(lock *ckbtype.Script, txInputs, addedInputs []ckbtype.CellInput, depProvider txdep.TransactionDependencyProvider) (bool, error) {
	for _, in := range txInputs {
		cell, err := depProvider.GetCell(in.PreviousOutput)
		if err != nil {
			return false, err
		}
		if cell.Lock.Equal(lock) {
			return true, nil
		}
	}
	for _, in := range addedInputs {
		cell, err := depProvider.GetCell(in.PreviousOutput)
		if err != nil {
			return false, err
		}
		if cell.Lock.Equal(lock) {
			return true, nil
		}
	}
	return false, nil
}

func assembleCandidateTx(tx *ckbtype.Transaction, cellDeps []ckbtype.CellDep, addedInputs []ckbtype.CellInput, addedWitnesses [][]byte, changeOutput *ckbtype.CellOutput) *ckbtype.Transaction {
	newTx := tx.Clone()
	newTx.CellDeps = append(newTx.CellDeps, cellDeps...)
	newTx.Inputs = append(newTx.Inputs, addedInputs...)
	newTx.Witnesses = append(newTx.Witnesses, addedWitnesses...)
	if changeOutput != nil {
		newTx.Outputs = append(newTx.Outputs, changeOutput)
		newTx.OutputsData = append(newTx.OutputsData, nil)
	}
	return newTx
}

func cloneChangeOutput(old *ckbtype.CellOutput, capacity uint64) *ckbtype.CellOutput {
	return &ckbtype.CellOutput{Capacity: capacity, Lock: old.Lock, Type: old.Type}
}

func cellDepPresent(deps []ckbtype.CellDep, dep *ckbtype.CellDep) bool {
	for _, existing := range deps {
		if existing.Equal(*dep) {
			return true
		}
	}
	return false
}

// multisigSince decodes the since value embedded in a multisig lock
// script's args, a CKB convention for "this multisig cell cannot be
// spent before an absolute or relative time": a 28-byte args value packs
// a trailing 8-byte little-endian since field after the 20-byte
// multisig hash. Any other lock script (or a multisig args value without
// this suffix) needs no since.
func multisigSince(lock *ckbtype.Script) uint64 {
	if lock.CodeHash != ckbtype.MultisigTypeHash || len(lock.Args) != 28 {
		return 0
	}
	var since uint64
	for i := 7; i >= 0; i-- {
		since = since<<8 | uint64(lock.Args[20+i])
	}
	return since
}
