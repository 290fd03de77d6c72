// Package daoutil implements the Nervos DAO's deterministic
// maximum-withdraw formula, the oracle the fee computation calls to
// value a DAO withdrawal input, matching the chain's own truncating
// integer division bit-for-bit.
package daoutil

import (
	"encoding/binary"
	"fmt"

	"github.com/ckbhub/txbuilder/ckbtype"
	"lukechampine.com/uint128"
)

// daoField decodes the 32-byte `dao` header field into its four
// accumulated components. Only AR (accumulated rate) is needed by the
// withdraw formula; C/S/U are decoded for documentation/debuggability.
type daoField struct {
	C  uint64 // accumulated issuance
	AR uint64 // accumulated rate, fixed point, base 1e16
	S  uint64 // accumulated tx count
	U  uint64 // accumulated occupied capacities
}

func parseDaoField(dao [32]byte) daoField {
	return daoField{
		C:  binary.LittleEndian.Uint64(dao[0:8]),
		AR: binary.LittleEndian.Uint64(dao[8:16]),
		S:  binary.LittleEndian.Uint64(dao[16:24]),
		U:  binary.LittleEndian.Uint64(dao[24:32]),
	}
}

// DepositBlockNumber decodes a DAO withdrawal cell's 8-byte data field:
// the little-endian block number of the matching deposit cell.
func DepositBlockNumber(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("daoutil: withdrawal cell data must be 8 bytes, got %d", len(data))
	}
	return binary.LittleEndian.Uint64(data), nil
}

// CalculateMaximumWithdraw computes the maximum shannons a DAO withdrawal
// input may contribute, given the header of the block the deposit was
// made in, the header of the block preparing the withdrawal, the cell's
// raw capacity and its occupied capacity.
//
// Formula: occupied + (capacity - occupied) * prepareAR / depositAR, with
// the multiply carried out in 128 bits (capacity * AR routinely exceeds
// 2^64) and the division truncating, matching the chain's own rule.
func CalculateMaximumWithdraw(depositHeader, prepareHeader ckbtype.Header, capacity, occupiedCapacity uint64) uint64 {
	deposit := parseDaoField(depositHeader.Dao)
	prepare := parseDaoField(prepareHeader.Dao)

	if capacity <= occupiedCapacity || deposit.AR == 0 {
		return occupiedCapacity
	}

	countedCapacity := capacity - occupiedCapacity
	numerator := uint128.From64(countedCapacity).Mul64(prepare.AR)
	quotient := numerator.Div64(deposit.AR)

	// AR only grows over time, so prepareAR/depositAR >= 1 and quotient
	// stays within uint64 range; Hi != 0 would mean corrupt header data.
	if quotient.Hi != 0 {
		return occupiedCapacity
	}
	return occupiedCapacity + quotient.Lo
}
