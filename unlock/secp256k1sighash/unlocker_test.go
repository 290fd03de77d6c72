package secp256k1sighash

import (
	"bytes"
	"testing"

	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/scriptgroup"
	"github.com/ckbhub/txbuilder/txdep/memcollector"
)

func testSigner(t *testing.T) *PrivateKeySigner {
	t.Helper()
	raw := make([]byte, 32)
	raw[31] = 1
	return NewPrivateKeySigner(raw)
}

func TestMatchArgsRequiresTwentyBytes(t *testing.T) {
	u := NewUnlocker(testSigner(t))
	if !u.MatchArgs(make([]byte, 20)) {
		t.Fatal("expected 20-byte args to match")
	}
	if u.MatchArgs(make([]byte, 19)) {
		t.Fatal("expected 19-byte args not to match")
	}
}

func TestFillThenUnlockProducesSixtyFiveByteSignature(t *testing.T) {
	signer := testSigner(t)
	hash160 := signer.PubKeyHash160()
	lock := ckbtype.NewScript([32]byte{9}, ckbtype.HashTypeType, hash160[:])

	provider := memcollector.NewProvider()
	op := ckbtype.OutPoint{Index: 0}
	provider.PutCell(op, &ckbtype.CellOutput{Capacity: 1000, Lock: lock}, nil)

	tx := &ckbtype.Transaction{
		Inputs:      []ckbtype.CellInput{{PreviousOutput: op}},
		Outputs:     []*ckbtype.CellOutput{{Capacity: 900, Lock: lock}},
		OutputsData: [][]byte{nil},
		Witnesses:   [][]byte{nil},
	}

	group := &scriptgroup.Group{Script: lock, Kind: scriptgroup.KindLock, InputIndices: []int{0}}

	u := NewUnlocker(signer)
	filled, err := u.FillPlaceholderWitness(tx, group, provider)
	if err != nil {
		t.Fatal(err)
	}
	waFilled, err := ckbtype.ParseWitnessArgs(filled.Witnesses[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(waFilled.Lock) != placeholderSignatureSize {
		t.Fatalf("expected %d-byte placeholder, got %d", placeholderSignatureSize, len(waFilled.Lock))
	}
	for _, b := range waFilled.Lock {
		if b != 0 {
			t.Fatal("expected placeholder to be all zero before signing")
		}
	}

	signed, err := u.Unlock(filled, group, provider)
	if err != nil {
		t.Fatal(err)
	}
	waSigned, err := ckbtype.ParseWitnessArgs(signed.Witnesses[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(waSigned.Lock) != placeholderSignatureSize {
		t.Fatalf("expected %d-byte signature, got %d", placeholderSignatureSize, len(waSigned.Lock))
	}
	if bytes.Equal(waSigned.Lock, waFilled.Lock) {
		t.Fatal("expected signing to change the lock field")
	}
	if waSigned.Lock[64] > 3 {
		t.Fatalf("expected recovery id in [0,3], got %d", waSigned.Lock[64])
	}
}

func TestClearPlaceholderWitnessRemovesLockField(t *testing.T) {
	signer := testSigner(t)
	hash160 := signer.PubKeyHash160()
	lock := ckbtype.NewScript([32]byte{9}, ckbtype.HashTypeType, hash160[:])
	group := &scriptgroup.Group{Script: lock, Kind: scriptgroup.KindLock, InputIndices: []int{0}}

	u := NewUnlocker(signer)
	tx := &ckbtype.Transaction{
		Witnesses: [][]byte{(&ckbtype.WitnessArgs{Lock: make([]byte, placeholderSignatureSize)}).Serialize()},
	}
	cleared, err := u.ClearPlaceholderWitness(tx, group)
	if err != nil {
		t.Fatal(err)
	}
	wa, err := ckbtype.ParseWitnessArgs(cleared.Witnesses[0])
	if err != nil {
		t.Fatal(err)
	}
	if wa.Lock != nil {
		t.Fatalf("expected lock field cleared, got %v", wa.Lock)
	}
}
