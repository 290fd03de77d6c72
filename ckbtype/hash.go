package ckbtype

import (
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/minio/blake2b-simd"
)

// ckbHashPersonalization is the personalization string CKB mixes into
// blake2b for every on-chain hash (cell hashes, script hashes, tx hashes).
// Using this personalization is what makes "ckb-default-hash" distinct
// from a plain blake2b-256 digest of the same bytes.
var ckbHashPersonalization = []byte("ckb-default-hash")

// Blake2bHash256 computes CKB's default 32-byte hash over data.
func Blake2bHash256(data []byte) [32]byte {
	cfg := &blake2b.Config{
		Size:   32,
		Person: ckbHashPersonalization,
	}
	h, err := blake2b.New(cfg)
	if err != nil {
		// blake2b.New only fails on invalid Config sizes; Size: 32 with a
		// 16-byte Person is always valid, so this is a build-time
		// invariant, not a runtime condition callers can hit.
		panic(err)
	}
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// NewBlake2b returns a fresh streaming hasher configured with CKB's
// default personalization, for callers (such as a ScriptUnlocker
// computing a sighash) that must mix in more than one byte slice before
// taking the digest.
func NewBlake2b() hash.Hash {
	h, err := blake2b.New(&blake2b.Config{Size: 32, Person: ckbHashPersonalization})
	if err != nil {
		panic(err)
	}
	return h
}

func hashFromHex(s string) ([32]byte, error) {
	var out [32]byte
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, fmt.Errorf("ckbtype: expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

// HashString renders a 32-byte hash with the conventional "0x" prefix.
func HashString(h [32]byte) string {
	return "0x" + hex.EncodeToString(h[:])
}
