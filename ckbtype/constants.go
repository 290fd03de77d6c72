package ckbtype

// HashType distinguishes how a script's code_hash is resolved at run time.
type HashType byte

const (
	// HashTypeData resolves code_hash against the data hash of a cell.
	HashTypeData HashType = iota
	// HashTypeType resolves code_hash against the type hash of a cell.
	HashTypeType
	// HashTypeData1 is HashTypeData under the vm-version-1 rules.
	HashTypeData1
)

func (t HashType) String() string {
	switch t {
	case HashTypeData:
		return "data"
	case HashTypeType:
		return "type"
	case HashTypeData1:
		return "data1"
	default:
		return "unknown"
	}
}

// ShannonsPerCKByte is the number of shannons in one CKByte, the unit
// occupied-capacity is priced in: one byte of on-chain storage costs
// exactly one CKByte.
const ShannonsPerCKByte = 100_000_000

// DAOTypeHash identifies the Nervos DAO type script. A cell's type script
// matches the DAO iff its code_hash equals this constant; hash_type and
// args are not consulted.
var DAOTypeHash = mustHash32("0x82d76d1b75fe2fd9a27dfbaa65a039221a380d76c926f378d3f81cf3e7e13f2e")

// MultisigTypeHash identifies the secp256k1 multisig lock script. Used to
// decide whether a lock script's args encode a `since` tail.
var MultisigTypeHash = mustHash32("0x5c5069eb0857efc65e1bca0c07df34c31663b3622fd3876c876320fc9634e2a8")

// Secp256k1Blake160SighashAllTypeHash identifies the default CKB lock
// script used by unlock/secp256k1sighash.
var Secp256k1Blake160SighashAllTypeHash = mustHash32("0x9bd7e06f3ecf4be0f2fcd2188b23f1b9fcc88e5d4b65a8637b17723bbda3cce8")

func mustHash32(hex string) [32]byte {
	b, err := hashFromHex(hex)
	if err != nil {
		panic(err)
	}
	return b
}
