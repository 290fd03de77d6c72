package ckbtype

import "testing"

func TestPackBytesEmpty(t *testing.T) {
	out := packBytes(nil)
	if len(out) != 4 {
		t.Fatalf("expected 4-byte header for empty Bytes, got %d", len(out))
	}
}

func TestPackDynamicGrowthCost(t *testing.T) {
	// Appending one more empty-Bytes element to a dynvec costs exactly
	// 4 (new offset entry) + 4 (the element's own empty length header).
	zero := packDynamic([][]byte{})
	one := packDynamic([][]byte{packBytes(nil)})
	if len(one)-len(zero) != 8 {
		t.Fatalf("expected 8 byte growth, got %d", len(one)-len(zero))
	}
}

func TestScriptRoundTripHashStable(t *testing.T) {
	s := NewScript([32]byte{1, 2, 3}, HashTypeType, []byte{0xAA, 0xBB})
	h1 := s.Hash()
	h2 := s.Hash()
	if h1 != h2 {
		t.Fatal("hash must be deterministic")
	}
	other := NewScript([32]byte{1, 2, 3}, HashTypeType, []byte{0xAA, 0xBC})
	if other.Hash() == h1 {
		t.Fatal("different args must hash differently")
	}
}

func TestCellOutputOccupiedCapacityGrowsWithData(t *testing.T) {
	lock := NewScript([32]byte{9}, HashTypeType, make([]byte, 20))
	out := &CellOutput{Capacity: 0, Lock: lock}
	base := out.OccupiedCapacity(0)
	withData := out.OccupiedCapacity(8)
	if withData <= base {
		t.Fatalf("occupied capacity must grow with data length")
	}
	if (withData-base)%ShannonsPerCKByte != 0 {
		t.Fatalf("growth must be a whole number of CKBytes, got delta %d", withData-base)
	}
}

func TestFeeRateTruncates(t *testing.T) {
	r := FeeRate(1000)
	// size 1001 bytes at 1000 shannons/KB: fee = 1001*1000/1000 = 1001
	if got := r.Fee(1001); got != 1001 {
		t.Fatalf("expected 1001, got %d", got)
	}
	r = FeeRate(1)
	// 999*1/1000 = 0 (truncated)
	if got := r.Fee(999); got != 0 {
		t.Fatalf("expected truncation to 0, got %d", got)
	}
}
