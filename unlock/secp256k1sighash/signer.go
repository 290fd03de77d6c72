// Package secp256k1sighash is a worked ScriptUnlocker for CKB's default
// lock, secp256k1_blake160_sighash_all: a 20-byte blake160 of a compressed
// secp256k1 public key gates spending, and the witness carries a single
// 65-byte recoverable ECDSA signature over the transaction's sighash.
//
// Key management is deliberately out of scope here: Signer is the one
// seam this package needs, and NewPrivateKeySigner is only a reference
// implementation over github.com/decred/dcrd/dcrec/secp256k1/v4, the
// curve library the rest of the CKB Go ecosystem already depends on.
package secp256k1sighash

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Signer produces a 65-byte recoverable ECDSA signature (R || S ||
// recovery id) over a 32-byte message digest.
type Signer interface {
	Sign(message [32]byte) ([65]byte, error)
}

// PrivateKeySigner signs directly with an in-memory private key. It
// exists to exercise the ScriptUnlocker contract end to end in tests; a
// production caller should instead implement Signer against whatever key
// store or hardware wallet they already trust.
type PrivateKeySigner struct {
	key *secp256k1.PrivateKey
}

// NewPrivateKeySigner wraps a raw 32-byte secp256k1 private key.
func NewPrivateKeySigner(raw []byte) *PrivateKeySigner {
	return &PrivateKeySigner{key: secp256k1.PrivKeyFromBytes(raw)}
}

// PubKeyHash160 returns the blake160 (first 20 bytes of CKB's default
// blake2b-256) of the signer's compressed public key, the value a
// secp256k1_blake160_sighash_all lock script's args must equal.
func (s *PrivateKeySigner) PubKeyHash160() [20]byte {
	return pubKeyHash160(s.key.PubKey().SerializeCompressed())
}

// Sign implements Signer using ecdsa.SignCompact, then reorders decred's
// [recovery-header | R | S] layout into CKB's [R | S | recovery-id].
func (s *PrivateKeySigner) Sign(message [32]byte) ([65]byte, error) {
	compact := ecdsa.SignCompact(s.key, message[:], true)
	var out [65]byte
	copy(out[:64], compact[1:])
	recID := compact[0] - 27
	if recID >= 4 {
		recID -= 4
	}
	out[64] = recID
	return out, nil
}
