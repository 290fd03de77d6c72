package txbuilder

import (
	"strconv"

	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/daoutil"
	"github.com/ckbhub/txbuilder/txdep"
)

// Fee computes tx's actual transaction fee: the sum of input values minus
// the sum of output capacities, where a DAO withdrawal input's value is
// its maximum-withdraw amount rather than its face capacity.
//
// An input is treated as a DAO withdrawal when its since field is
// nonzero and its previous cell carries the DAO type script; this
// mirrors the chain's own discriminator, since a deposit cell (since ==
// 0) and a withdrawal cell are otherwise indistinguishable by type
// script alone.
func Fee(tx *ckbtype.Transaction, depProvider txdep.TransactionDependencyProvider, headerResolver txdep.HeaderDepResolver) (uint64, error) {
	var inputTotal uint64
	for _, input := range tx.Inputs {
		cell, err := depProvider.GetCell(input.PreviousOutput)
		if err != nil {
			return 0, err
		}

		isWithdraw := false
		if input.Since != 0 {
			if typeHash, has := cell.TypeHash(); has && typeHash == ckbtype.DAOTypeHash {
				isWithdraw = true
			}
		}

		var capacity uint64
		if isWithdraw {
			log.Debugf("fee: input %x treated as DAO withdrawal, since=%d", input.PreviousOutput.TxHash, input.Since)
			capacity, err = daoWithdrawValue(input, cell, depProvider, headerResolver)
			if err != nil {
				return 0, err
			}
		} else {
			capacity = cell.Capacity
		}
		inputTotal += capacity
	}

	outputTotal, err := tx.OutputsCapacity()
	if err != nil {
		return 0, err
	}

	if inputTotal < outputTotal {
		return 0, &ErrCapacityOverflow{Delta: outputTotal - inputTotal}
	}
	return inputTotal - outputTotal, nil
}

func daoWithdrawValue(input ckbtype.CellInput, cell *ckbtype.CellOutput, depProvider txdep.TransactionDependencyProvider, headerResolver txdep.HeaderDepResolver) (uint64, error) {
	txHash := input.PreviousOutput.TxHash
	prepareHeader, ok := headerResolver.ResolveByTxHash(txHash)
	if !ok {
		return 0, &ErrHeaderDependency{Lookup: "prepare header by transaction hash", Key: ckbtype.HashString(txHash)}
	}

	data, err := depProvider.GetCellData(input.PreviousOutput)
	if err != nil {
		return 0, err
	}
	depositNumber, err := daoutil.DepositBlockNumber(data)
	if err != nil {
		return 0, err
	}
	depositHeader, ok := headerResolver.ResolveByNumber(depositNumber)
	if !ok {
		return 0, &ErrHeaderDependency{Lookup: "deposit header by block number", Key: strconv.FormatUint(depositNumber, 10)}
	}

	occupiedCapacity := cell.OccupiedCapacity(len(data))
	return daoutil.CalculateMaximumWithdraw(*depositHeader, *prepareHeader, cell.Capacity, occupiedCapacity), nil
}
