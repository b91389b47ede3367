package types

import "github.com/holiman/uint256"

// Word is a 256-bit EVM word, used for account balances and storage
// slot values. uint256.Int avoids the heap allocation *big.Int incurs
// on every read/write in the speculative execution hot path.
type Word = uint256.Int

// NewWord returns a Word initialized to v.
func NewWord(v uint64) *Word {
	return uint256.NewInt(v)
}

// Account is the Basic-location record for one address: balance,
// nonce, and its code hash.
type Account struct {
	Nonce    uint64
	Balance  *Word
	CodeHash Hash
}

// NewAccount returns a zero-balance account with no code.
func NewAccount() Account {
	return Account{Balance: new(Word)}
}

// Clone returns a deep copy, so callers holding a *Word never alias
// another layer's mutable balance.
func (a Account) Clone() Account {
	bal := new(Word)
	if a.Balance != nil {
		bal.Set(a.Balance)
	}
	return Account{Nonce: a.Nonce, Balance: bal, CodeHash: a.CodeHash}
}
