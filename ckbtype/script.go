package ckbtype

import "bytes"

// Script is an on-chain predicate: (code_hash, hash_type, args). Identity
// for lookup purposes is (code_hash, hash_type) — see ScriptId; args
// participate in equality but not in the ScriptId key.
type Script struct {
	CodeHash [32]byte
	HashType HashType
	Args     []byte
}

// NewScript builds a Script, copying args so the returned value is safe to
// treat as a frozen map key even if the caller later mutates the slice it
// passed in.
func NewScript(codeHash [32]byte, hashType HashType, args []byte) *Script {
	argsCopy := make([]byte, len(args))
	copy(argsCopy, args)
	return &Script{CodeHash: codeHash, HashType: hashType, Args: argsCopy}
}

// Equal reports whether two scripts are identical, including args.
func (s *Script) Equal(other *Script) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.CodeHash == other.CodeHash &&
		s.HashType == other.HashType &&
		bytes.Equal(s.Args, other.Args)
}

// Id returns the lookup key for cell-dep and unlocker registries: the
// script's identity without its args.
func (s *Script) Id() ScriptId {
	return ScriptId{CodeHash: s.CodeHash, HashType: s.HashType}
}

// Serialize renders the script as a molecule table: {code_hash: Byte32,
// hash_type: byte, args: Bytes}.
func (s *Script) Serialize() []byte {
	return packDynamic([][]byte{
		s.CodeHash[:],
		{byte(s.HashType)},
		packBytes(s.Args),
	})
}

// Hash returns the script hash used as a script-group key and as the
// lock/type hash of a cell.
func (s *Script) Hash() [32]byte {
	return Blake2bHash256(s.Serialize())
}

// serializeScriptOpt renders an optional script as a molecule "option": the
// script's own serialization if present, or zero bytes if absent. This is
// the ScriptOpt used by CellOutput.type.
func serializeScriptOpt(s *Script) []byte {
	if s == nil {
		return nil
	}
	return s.Serialize()
}

// ScriptId is the (code_hash, hash_type) identity used to key cell-dep
// and unlocker lookups.
type ScriptId struct {
	CodeHash [32]byte
	HashType HashType
}

// ScriptIdFromScript extracts a ScriptId from a Script.
func ScriptIdFromScript(s *Script) ScriptId {
	return s.Id()
}
