package daoutil

import (
	"encoding/binary"
	"testing"

	"github.com/ckbhub/txbuilder/ckbtype"
)

func makeDao(c, ar, s, u uint64) [32]byte {
	var out [32]byte
	binary.LittleEndian.PutUint64(out[0:8], c)
	binary.LittleEndian.PutUint64(out[8:16], ar)
	binary.LittleEndian.PutUint64(out[16:24], s)
	binary.LittleEndian.PutUint64(out[24:32], u)
	return out
}

func TestCalculateMaximumWithdrawNoInterestWhenARUnchanged(t *testing.T) {
	const baseAR = 10_000_000_000_000_000 // 1e16 fixed point base
	deposit := ckbtype.Header{Number: 100, Dao: makeDao(0, baseAR, 0, 0)}
	prepare := ckbtype.Header{Number: 200, Dao: makeDao(0, baseAR, 0, 0)}

	capacity := uint64(200_00000000)
	occupied := uint64(61_00000000)

	got := CalculateMaximumWithdraw(deposit, prepare, capacity, occupied)
	if got != capacity {
		t.Fatalf("AR unchanged: expected withdraw == capacity (%d), got %d", capacity, got)
	}
}

func TestCalculateMaximumWithdrawAccruesInterest(t *testing.T) {
	const baseAR = 10_000_000_000_000_000
	deposit := ckbtype.Header{Number: 100, Dao: makeDao(0, baseAR, 0, 0)}
	// 10% accumulated rate growth between deposit and prepare.
	prepare := ckbtype.Header{Number: 200, Dao: makeDao(0, baseAR+baseAR/10, 0, 0)}

	capacity := uint64(200_00000000)
	occupied := uint64(61_00000000)

	got := CalculateMaximumWithdraw(deposit, prepare, capacity, occupied)
	if got <= capacity {
		t.Fatalf("expected interest to push withdraw above capacity, got %d vs %d", got, capacity)
	}

	counted := capacity - occupied
	wantCounted := counted + counted/10
	want := occupied + wantCounted
	if got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestDepositBlockNumberRejectsWrongLength(t *testing.T) {
	if _, err := DepositBlockNumber([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for non-8-byte data")
	}
}
