package ckbtype

import "fmt"

// FeeRate is expressed in shannons per kilobyte of serialized transaction.
type FeeRate uint64

// Fee computes the minimum fee for a transaction of the given serialized
// size, truncating like the chain's own integer division:
// fee(size) = size * rate / 1000.
func (r FeeRate) Fee(size int) uint64 {
	return uint64(size) * uint64(r) / 1000
}

// HumanCapacity formats a shannon amount as whole-and-fractional CKBytes,
// for readable capacity-shortfall error messages.
type HumanCapacity uint64

func (c HumanCapacity) String() string {
	whole := uint64(c) / ShannonsPerCKByte
	frac := uint64(c) % ShannonsPerCKByte
	return fmt.Sprintf("%d.%08d", whole, frac)
}
