package types

import "testing"

func TestAccountCloneDeepCopiesBalance(t *testing.T) {
	acc := Account{Nonce: 1, Balance: NewWord(100)}
	clone := acc.Clone()

	clone.Balance.AddUint64(clone.Balance, 1)

	if acc.Balance.Uint64() != 100 {
		t.Fatalf("mutating clone's balance affected original: got %d", acc.Balance.Uint64())
	}
	if clone.Balance.Uint64() != 101 {
		t.Fatalf("expected clone balance 101, got %d", clone.Balance.Uint64())
	}
}

func TestNewAccountZeroBalance(t *testing.T) {
	acc := NewAccount()
	if acc.Balance == nil || acc.Balance.Uint64() != 0 {
		t.Fatalf("expected zero balance, got %v", acc.Balance)
	}
}
