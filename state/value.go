package state

import (
	"github.com/holiman/uint256"
	"github.com/parallel-evm/pevm/rlp"
	"github.com/parallel-evm/pevm/types"
)

// Payload is the canonical, Location-kind-agnostic encoding of a value
// stored at a Location: an Account for Basic, a 32-byte slot for
// Storage, bytecode for Code. Using one wire-shaped representation
// throughout (rather than a typed union) lets SpeculativeLayer,
// CommittedState, and the external StateDelta all share the same
// payload without re-deriving it at commit time.
type Payload []byte

type encodedAccount struct {
	Nonce    uint64
	Balance  [32]byte
	CodeHash [32]byte
}

// EncodeAccount serializes an Account via RLP.
func EncodeAccount(acc types.Account) Payload {
	bal := acc.Balance
	if bal == nil {
		bal = new(uint256.Int)
	}
	b, err := rlp.EncodeToBytes(encodedAccount{Nonce: acc.Nonce, Balance: bal.Bytes32(), CodeHash: acc.CodeHash})
	if err != nil {
		panic(err) // encodedAccount's shape is always RLP-encodable
	}
	return b
}

// DecodeAccount deserializes a Payload produced by EncodeAccount.
func DecodeAccount(p Payload) types.Account {
	var enc encodedAccount
	if err := rlp.DecodeBytes(p, &enc); err != nil {
		return types.NewAccount()
	}
	return types.Account{
		Nonce:    enc.Nonce,
		Balance:  new(uint256.Int).SetBytes(enc.Balance[:]),
		CodeHash: enc.CodeHash,
	}
}

// EncodeStorage serializes a storage slot value.
func EncodeStorage(h types.Hash) Payload { return append(Payload(nil), h[:]...) }

// DecodeStorage deserializes a Payload produced by EncodeStorage.
func DecodeStorage(p Payload) types.Hash { return types.BytesToHash(p) }

// EncodeCode wraps raw bytecode as a Payload (identity encoding).
func EncodeCode(code []byte) Payload { return append(Payload(nil), code...) }

// DecodeCode unwraps a Payload produced by EncodeCode.
func DecodeCode(p Payload) []byte { return append([]byte(nil), p...) }

// Encode dispatches on loc.Kind to produce the Payload a DatabaseRef
// read of that Location should be compared against / overridden with.
func Encode(loc types.Location, acc types.Account, slot types.Hash, code []byte) Payload {
	switch loc.Kind {
	case types.LocationBasic:
		return EncodeAccount(acc)
	case types.LocationStorage:
		return EncodeStorage(slot)
	default:
		return EncodeCode(code)
	}
}
