package secp256k1sighash

import (
	"encoding/binary"
	"fmt"

	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/scriptgroup"
	"github.com/ckbhub/txbuilder/txdep"
)

// placeholderSignatureSize is the length of a CKB recoverable ECDSA
// signature: 32-byte R, 32-byte S, 1-byte recovery id.
const placeholderSignatureSize = 65

func pubKeyHash160(compressedPubKey []byte) [20]byte {
	full := ckbtype.Blake2bHash256(compressedPubKey)
	var out [20]byte
	copy(out[:], full[:20])
	return out
}

// Unlocker implements unlock.ScriptUnlocker for
// secp256k1_blake160_sighash_all.
type Unlocker struct {
	Signer Signer
}

// NewUnlocker builds an Unlocker that signs with signer.
func NewUnlocker(signer Signer) *Unlocker {
	return &Unlocker{Signer: signer}
}

// MatchArgs reports whether args is a 20-byte blake160 hash, the only
// shape this lock script's args ever take.
func (u *Unlocker) MatchArgs(args []byte) bool {
	return len(args) == 20
}

// IsUnlocked always reports false: this unlocker keeps no record of
// having signed a group already, matching the upstream default trait
// behavior it is ported from.
func (u *Unlocker) IsUnlocked(tx *ckbtype.Transaction, group *scriptgroup.Group, depProvider txdep.TransactionDependencyProvider) (bool, error) {
	return false, nil
}

// FillPlaceholderWitness installs a zero-filled 65-byte lock field sized
// exactly like the real signature, so fee estimation over the
// placeholder-filled transaction already accounts for it.
func (u *Unlocker) FillPlaceholderWitness(tx *ckbtype.Transaction, group *scriptgroup.Group, depProvider txdep.TransactionDependencyProvider) (*ckbtype.Transaction, error) {
	idx := group.InputIndices[0]
	wa, err := ckbtype.ParseWitnessArgs(tx.Witnesses[idx])
	if err != nil {
		return nil, err
	}
	wa.Lock = make([]byte, placeholderSignatureSize)
	out := tx.Clone()
	out.Witnesses[idx] = wa.Serialize()
	return out, nil
}

// ClearPlaceholderWitness removes a previously installed placeholder lock
// field, leaving the other WitnessArgs fields untouched.
func (u *Unlocker) ClearPlaceholderWitness(tx *ckbtype.Transaction, group *scriptgroup.Group) (*ckbtype.Transaction, error) {
	idx := group.InputIndices[0]
	wa, err := ckbtype.ParseWitnessArgs(tx.Witnesses[idx])
	if err != nil {
		return nil, err
	}
	wa.Lock = nil
	out := tx.Clone()
	out.Witnesses[idx] = wa.Serialize()
	return out, nil
}

// Unlock computes the group's sighash and installs the signer's
// signature in place of the placeholder lock field.
func (u *Unlocker) Unlock(tx *ckbtype.Transaction, group *scriptgroup.Group, depProvider txdep.TransactionDependencyProvider) (*ckbtype.Transaction, error) {
	if len(group.InputIndices) == 0 {
		return nil, fmt.Errorf("secp256k1sighash: lock group has no inputs")
	}
	idx := group.InputIndices[0]
	wa, err := ckbtype.ParseWitnessArgs(tx.Witnesses[idx])
	if err != nil {
		return nil, err
	}
	wa.Lock = make([]byte, placeholderSignatureSize)
	out := tx.Clone()
	out.Witnesses[idx] = wa.Serialize()

	message, err := sighashAll(out, group)
	if err != nil {
		return nil, err
	}
	sig, err := u.Signer.Sign(message)
	if err != nil {
		return nil, fmt.Errorf("secp256k1sighash: sign: %w", err)
	}

	wa.Lock = sig[:]
	out.Witnesses[idx] = wa.Serialize()
	return out, nil
}

// sighashAll computes CKB's conventional signing message for a lock
// group: the transaction hash, the group's first witness length-prefixed
// (the slot carrying the signature itself, zeroed out by the caller
// before this runs), every other witness belonging to an input in the
// group, and — when the group covers the transaction's last input — any
// trailing witnesses that have no corresponding input at all.
func sighashAll(tx *ckbtype.Transaction, group *scriptgroup.Group) ([32]byte, error) {
	if len(group.InputIndices) == 0 {
		return [32]byte{}, fmt.Errorf("secp256k1sighash: lock group has no inputs")
	}

	h := ckbtype.NewBlake2b()
	txHash := tx.Hash()
	h.Write(txHash[:])

	writeLenPrefixed := func(b []byte) {
		var lenBuf [8]byte
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(b)))
		h.Write(lenBuf[:])
		h.Write(b)
	}

	first := group.InputIndices[0]
	writeLenPrefixed(tx.Witnesses[first])
	for _, idx := range group.InputIndices[1:] {
		writeLenPrefixed(tx.Witnesses[idx])
	}

	lastGroupInput := group.InputIndices[len(group.InputIndices)-1]
	if lastGroupInput == len(tx.Inputs)-1 {
		for i := len(tx.Inputs); i < len(tx.Witnesses); i++ {
			writeLenPrefixed(tx.Witnesses[i])
		}
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}
