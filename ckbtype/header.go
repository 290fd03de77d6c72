package ckbtype

// Header is the minimal subset of a block header the DAO withdrawal
// formula needs: its block number and its 32-byte `dao` field (accumulated
// issuance, accumulated rate, accumulated tx count, accumulated occupied
// capacities — see daoutil.CalculateMaximumWithdraw).
type Header struct {
	Number uint64
	Dao    [32]byte
}
