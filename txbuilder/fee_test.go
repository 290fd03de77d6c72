package txbuilder

import (
	"encoding/binary"
	"testing"

	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/daoutil"
	"github.com/ckbhub/txbuilder/txdep/memcollector"
)

func TestFeeConservationForPlainInputs(t *testing.T) {
	lock := ckbtype.NewScript([32]byte{1}, ckbtype.HashTypeType, []byte{1, 2, 3})
	provider := memcollector.NewProvider()
	op := ckbtype.OutPoint{Index: 0}
	provider.PutCell(op, &ckbtype.CellOutput{Capacity: 10_000, Lock: lock}, nil)

	tx := &ckbtype.Transaction{
		Inputs:      []ckbtype.CellInput{{PreviousOutput: op}},
		Outputs:     []*ckbtype.CellOutput{{Capacity: 9_000, Lock: lock}},
		OutputsData: [][]byte{nil},
		Witnesses:   [][]byte{nil},
	}

	fee, err := Fee(tx, provider, provider)
	if err != nil {
		t.Fatal(err)
	}
	if fee != 1_000 {
		t.Fatalf("expected fee 1000, got %d", fee)
	}
}

func TestFeeReportsOverflowWhenOutputsExceedInputs(t *testing.T) {
	lock := ckbtype.NewScript([32]byte{1}, ckbtype.HashTypeType, nil)
	provider := memcollector.NewProvider()
	op := ckbtype.OutPoint{Index: 0}
	provider.PutCell(op, &ckbtype.CellOutput{Capacity: 100, Lock: lock}, nil)

	tx := &ckbtype.Transaction{
		Inputs:      []ckbtype.CellInput{{PreviousOutput: op}},
		Outputs:     []*ckbtype.CellOutput{{Capacity: 500, Lock: lock}},
		OutputsData: [][]byte{nil},
		Witnesses:   [][]byte{nil},
	}

	_, err := Fee(tx, provider, provider)
	overflow, ok := err.(*ErrCapacityOverflow)
	if !ok {
		t.Fatalf("expected *ErrCapacityOverflow, got %T (%v)", err, err)
	}
	if overflow.Delta != 400 {
		t.Fatalf("expected delta 400, got %d", overflow.Delta)
	}
}

func TestFeeUsesMaximumWithdrawForDaoInput(t *testing.T) {
	daoLock := ckbtype.NewScript([32]byte{1}, ckbtype.HashTypeType, nil)
	daoType := ckbtype.NewScript(ckbtype.DAOTypeHash, ckbtype.HashTypeType, nil)

	provider := memcollector.NewProvider()
	withdrawOp := ckbtype.OutPoint{TxHash: [32]byte{0xAA}, Index: 0}
	depositData := make([]byte, 8)
	binary.LittleEndian.PutUint64(depositData, 100)
	withdrawCell := &ckbtype.CellOutput{Capacity: 20_000_000_000, Lock: daoLock, Type: daoType}
	provider.PutCell(withdrawOp, withdrawCell, depositData)

	prepareHeader := &ckbtype.Header{Number: 200}
	copy(prepareHeader.Dao[8:16], leUint64(12_000_000_000_000_000))
	depositHeader := &ckbtype.Header{Number: 100}
	copy(depositHeader.Dao[8:16], leUint64(10_000_000_000_000_000))

	provider.HeadersByTxHash[withdrawOp.TxHash] = prepareHeader
	provider.HeadersByNumber[100] = depositHeader

	tx := &ckbtype.Transaction{
		Inputs:      []ckbtype.CellInput{{PreviousOutput: withdrawOp, Since: 1}},
		Outputs:     []*ckbtype.CellOutput{{Capacity: 1_000, Lock: daoLock}},
		OutputsData: [][]byte{nil},
		Witnesses:   [][]byte{nil},
	}

	fee, err := Fee(tx, provider, provider)
	if err != nil {
		t.Fatal(err)
	}

	occupied := withdrawCell.OccupiedCapacity(len(depositData))
	expectedWithdraw := daoutil.CalculateMaximumWithdraw(*depositHeader, *prepareHeader, withdrawCell.Capacity, occupied)
	expectedFee := expectedWithdraw - 1_000
	if fee != expectedFee {
		t.Fatalf("expected fee %d (withdraw %d), got %d", expectedFee, expectedWithdraw, fee)
	}
}

func leUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}
