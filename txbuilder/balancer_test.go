package txbuilder

import (
	"testing"

	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/txdep/memcollector"
)

type balanceEnv struct {
	provider  *memcollector.Provider
	collector *memcollector.Collector
}

func newBalanceEnv() *balanceEnv {
	return &balanceEnv{provider: memcollector.NewProvider(), collector: memcollector.New()}
}

func (e *balanceEnv) addCell(op ckbtype.OutPoint, out *ckbtype.CellOutput, data []byte, mature bool) {
	e.provider.PutCell(op, out, data)
	e.collector.Add(memcollector.Cell{OutPoint: op, Output: out, DataLen: len(data), Mature: mature})
}

func (e *balanceEnv) addDep(lock *ckbtype.Script, dep ckbtype.CellDep) {
	e.provider.CellDeps[ckbtype.ScriptIdFromScript(lock)] = &dep
}

// assertInvariants checks the spec's fixed-point, conservation, witness
// alignment, no-double-spend and cell-dep uniqueness properties against a
// successfully balanced transaction.
func assertInvariants(t *testing.T, env *balanceEnv, balancer *CapacityBalancer, tx *ckbtype.Transaction) {
	t.Helper()

	fee, err := Fee(tx, env.provider, env.provider)
	if err != nil {
		t.Fatalf("fee computation on result failed: %v", err)
	}
	minFee := balancer.FeeRate.Fee(tx.SerializedSizeInBlock())
	if fee != minFee {
		t.Fatalf("fixed-point violated: fee=%d minFee=%d", fee, minFee)
	}

	var inputTotal uint64
	seen := make(map[ckbtype.OutPoint]bool)
	for _, in := range tx.Inputs {
		if seen[in.PreviousOutput] {
			t.Fatalf("double-spent out point %+v", in.PreviousOutput)
		}
		seen[in.PreviousOutput] = true
		cell, err := env.provider.GetCell(in.PreviousOutput)
		if err != nil {
			t.Fatal(err)
		}
		inputTotal += cell.Capacity
	}
	outputTotal, err := tx.OutputsCapacity()
	if err != nil {
		t.Fatal(err)
	}
	if inputTotal != outputTotal+fee {
		t.Fatalf("conservation violated: inputs=%d outputs=%d fee=%d", inputTotal, outputTotal, fee)
	}

	if len(tx.Witnesses) < len(tx.Inputs) {
		t.Fatalf("witness alignment violated: %d witnesses for %d inputs", len(tx.Witnesses), len(tx.Inputs))
	}

	depSeen := make(map[ckbtype.OutPoint]bool)
	for _, d := range tx.CellDeps {
		if depSeen[d.OutPoint] {
			t.Fatalf("duplicate cell dep %+v", d)
		}
		depSeen[d.OutPoint] = true
	}
}

func TestBalancePlainTransferConvergesWithChange(t *testing.T) {
	provLock := ckbtype.NewScript([32]byte{1}, ckbtype.HashTypeType, make([]byte, 20))
	recipientLock := ckbtype.NewScript([32]byte{2}, ckbtype.HashTypeType, make([]byte, 20))

	env := newBalanceEnv()
	cellOp := ckbtype.OutPoint{TxHash: [32]byte{0x01}, Index: 0}
	env.addCell(cellOp, &ckbtype.CellOutput{Capacity: 10_000_000_000_000, Lock: provLock}, nil, true)
	env.addDep(provLock, ckbtype.CellDep{OutPoint: ckbtype.OutPoint{TxHash: [32]byte{0xEE}, Index: 0}})

	tx := &ckbtype.Transaction{
		Outputs:     []*ckbtype.CellOutput{{Capacity: 5_000_000_000_000, Lock: recipientLock}},
		OutputsData: [][]byte{nil},
	}

	balancer := &CapacityBalancer{
		FeeRate: 1000,
		CapacityProvider: CapacityProvider{
			LockScripts: []LockCandidate{{Lock: provLock, PlaceholderWitness: make([]byte, 1)}},
		},
	}

	result, err := Balance(tx, balancer, env.collector, env.provider, env.provider, env.provider)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Inputs) != 1 {
		t.Fatalf("expected exactly one input, got %d", len(result.Inputs))
	}
	if len(result.Outputs) != 2 {
		t.Fatalf("expected recipient + change outputs, got %d", len(result.Outputs))
	}
	change := result.Outputs[len(result.Outputs)-1]
	if change.Capacity < change.OccupiedCapacity(0) {
		t.Fatalf("change cell capacity %d below its own occupied capacity %d", change.Capacity, change.OccupiedCapacity(0))
	}
	assertInvariants(t, env, balancer, result)
}

func TestBalanceAdvancesToSecondProviderWhenFirstExhausted(t *testing.T) {
	lockA := ckbtype.NewScript([32]byte{1}, ckbtype.HashTypeType, make([]byte, 20))
	lockB := ckbtype.NewScript([32]byte{2}, ckbtype.HashTypeType, make([]byte, 20))
	recipientLock := ckbtype.NewScript([32]byte{3}, ckbtype.HashTypeType, make([]byte, 20))

	env := newBalanceEnv()
	opA := ckbtype.OutPoint{TxHash: [32]byte{0x01}, Index: 0}
	env.addCell(opA, &ckbtype.CellOutput{Capacity: 1_000_000_000, Lock: lockA}, nil, true)
	opB := ckbtype.OutPoint{TxHash: [32]byte{0x02}, Index: 0}
	env.addCell(opB, &ckbtype.CellOutput{Capacity: 20_000_000_000_000, Lock: lockB}, nil, true)
	env.addDep(lockA, ckbtype.CellDep{OutPoint: ckbtype.OutPoint{TxHash: [32]byte{0xEE}, Index: 0}})
	env.addDep(lockB, ckbtype.CellDep{OutPoint: ckbtype.OutPoint{TxHash: [32]byte{0xEF}, Index: 0}})

	tx := &ckbtype.Transaction{
		Outputs:     []*ckbtype.CellOutput{{Capacity: 5_000_000_000_000, Lock: recipientLock}},
		OutputsData: [][]byte{nil},
	}

	balancer := &CapacityBalancer{
		FeeRate: 1000,
		CapacityProvider: CapacityProvider{
			LockScripts: []LockCandidate{
				{Lock: lockA, PlaceholderWitness: make([]byte, 1)},
				{Lock: lockB, PlaceholderWitness: make([]byte, 1)},
			},
		},
	}

	result, err := Balance(tx, balancer, env.collector, env.provider, env.provider, env.provider)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Inputs) != 2 {
		t.Fatalf("expected inputs from both providers, got %d", len(result.Inputs))
	}
	if result.Inputs[0].PreviousOutput != opA || result.Inputs[1].PreviousOutput != opB {
		t.Fatalf("expected append order A then B, got %+v", result.Inputs)
	}
	if len(result.CellDeps) != 2 {
		t.Fatalf("expected both providers' cell deps present, got %d", len(result.CellDeps))
	}
	assertInvariants(t, env, balancer, result)
}

func TestBalanceForceSmallChangeAsFeeAcceptsSurplusUnderCap(t *testing.T) {
	provLock := ckbtype.NewScript([32]byte{1}, ckbtype.HashTypeType, make([]byte, 20))
	recipientLock := ckbtype.NewScript([32]byte{2}, ckbtype.HashTypeType, make([]byte, 20))

	env := newBalanceEnv()
	cellOp := ckbtype.OutPoint{TxHash: [32]byte{0x01}, Index: 0}
	// Deliberately small surplus: just over the output, far under any
	// change cell's occupied capacity floor.
	env.addCell(cellOp, &ckbtype.CellOutput{Capacity: 5_000_100_000, Lock: provLock}, nil, true)
	env.addDep(provLock, ckbtype.CellDep{OutPoint: ckbtype.OutPoint{TxHash: [32]byte{0xEE}, Index: 0}})

	tx := &ckbtype.Transaction{
		Outputs:     []*ckbtype.CellOutput{{Capacity: 5_000_000_000, Lock: recipientLock}},
		OutputsData: [][]byte{nil},
	}

	cap := uint64(1_000_000)
	balancer := &CapacityBalancer{
		FeeRate: 1000,
		CapacityProvider: CapacityProvider{
			LockScripts: []LockCandidate{{Lock: provLock, PlaceholderWitness: make([]byte, 1)}},
		},
		ForceSmallChangeAsFee: &cap,
	}

	result, err := Balance(tx, balancer, env.collector, env.provider, env.provider, env.provider)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Outputs) != 1 {
		t.Fatalf("expected no change output, got %d outputs", len(result.Outputs))
	}
	fee, err := Fee(result, env.provider, env.provider)
	if err != nil {
		t.Fatal(err)
	}
	if fee > cap {
		t.Fatalf("fee %d exceeds cap %d", fee, cap)
	}
}

func TestBalanceForceSmallChangeAsFeeFailsWhenOverCap(t *testing.T) {
	provLock := ckbtype.NewScript([32]byte{1}, ckbtype.HashTypeType, make([]byte, 20))
	recipientLock := ckbtype.NewScript([32]byte{2}, ckbtype.HashTypeType, make([]byte, 20))

	env := newBalanceEnv()
	cellOp := ckbtype.OutPoint{TxHash: [32]byte{0x01}, Index: 0}
	env.addCell(cellOp, &ckbtype.CellOutput{Capacity: 5_000_100_000, Lock: provLock}, nil, true)
	env.addDep(provLock, ckbtype.CellDep{OutPoint: ckbtype.OutPoint{TxHash: [32]byte{0xEE}, Index: 0}})

	tx := &ckbtype.Transaction{
		Outputs:     []*ckbtype.CellOutput{{Capacity: 5_000_000_000, Lock: recipientLock}},
		OutputsData: [][]byte{nil},
	}

	cap := uint64(1)
	balancer := &CapacityBalancer{
		FeeRate: 1000,
		CapacityProvider: CapacityProvider{
			LockScripts: []LockCandidate{{Lock: provLock, PlaceholderWitness: make([]byte, 1)}},
		},
		ForceSmallChangeAsFee: &cap,
	}

	_, err := Balance(tx, balancer, env.collector, env.provider, env.provider, env.provider)
	if _, ok := err.(*ErrForceSmallChangeAsFeeFailed); !ok {
		t.Fatalf("expected *ErrForceSmallChangeAsFeeFailed, got %T (%v)", err, err)
	}
}

func TestBalanceEmptyCapacityProviderIsRejected(t *testing.T) {
	env := newBalanceEnv()
	tx := &ckbtype.Transaction{}
	balancer := &CapacityBalancer{FeeRate: 1000}
	_, err := Balance(tx, balancer, env.collector, env.provider, env.provider, env.provider)
	if err != errEmptyCapacityProvider {
		t.Fatalf("expected errEmptyCapacityProvider, got %v", err)
	}
}

func TestBalanceSincePropagatesForMultisigProvider(t *testing.T) {
	args := make([]byte, 28)
	for i := range args[:20] {
		args[i] = 0x11
	}
	const wantSince = uint64(0x0102030405060708)
	for i := 0; i < 8; i++ {
		args[20+i] = byte(wantSince >> (8 * uint(i)))
	}
	multisigLock := ckbtype.NewScript(ckbtype.MultisigTypeHash, ckbtype.HashTypeType, args)
	recipientLock := ckbtype.NewScript([32]byte{9}, ckbtype.HashTypeType, make([]byte, 20))

	env := newBalanceEnv()
	cellOp := ckbtype.OutPoint{TxHash: [32]byte{0x01}, Index: 0}
	env.addCell(cellOp, &ckbtype.CellOutput{Capacity: 10_000_000_000_000, Lock: multisigLock}, nil, true)
	env.addDep(multisigLock, ckbtype.CellDep{OutPoint: ckbtype.OutPoint{TxHash: [32]byte{0xEE}, Index: 0}})

	tx := &ckbtype.Transaction{
		Outputs:     []*ckbtype.CellOutput{{Capacity: 5_000_000_000_000, Lock: recipientLock}},
		OutputsData: [][]byte{nil},
	}
	balancer := &CapacityBalancer{
		FeeRate: 1000,
		CapacityProvider: CapacityProvider{
			LockScripts: []LockCandidate{{Lock: multisigLock, PlaceholderWitness: make([]byte, 1)}},
		},
	}

	result, err := Balance(tx, balancer, env.collector, env.provider, env.provider, env.provider)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Inputs) != 1 || result.Inputs[0].Since != wantSince {
		t.Fatalf("expected since %d propagated to the added input, got %+v", wantSince, result.Inputs)
	}
}
