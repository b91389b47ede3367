package state

import (
	"bytes"
	"testing"

	"github.com/parallel-evm/pevm/types"
)

func TestEncodeDecodeAccountRoundTrip(t *testing.T) {
	acc := types.Account{Nonce: 7, Balance: types.NewWord(12345), CodeHash: types.BytesToHash([]byte{1, 2, 3})}
	p := EncodeAccount(acc)
	got := DecodeAccount(p)

	if got.Nonce != acc.Nonce {
		t.Fatalf("nonce mismatch: got %d want %d", got.Nonce, acc.Nonce)
	}
	if got.Balance.Cmp(acc.Balance) != 0 {
		t.Fatalf("balance mismatch: got %v want %v", got.Balance, acc.Balance)
	}
	if got.CodeHash != acc.CodeHash {
		t.Fatalf("code hash mismatch: got %v want %v", got.CodeHash, acc.CodeHash)
	}
}

func TestEncodeDecodeStorageRoundTrip(t *testing.T) {
	h := types.BytesToHash([]byte{0xaa, 0xbb})
	p := EncodeStorage(h)
	if got := DecodeStorage(p); got != h {
		t.Fatalf("storage round trip mismatch: got %v want %v", got, h)
	}
}

func TestEncodeDecodeCodeRoundTrip(t *testing.T) {
	code := []byte{0x60, 0x00, 0x60, 0x00}
	p := EncodeCode(code)
	if got := DecodeCode(p); !bytes.Equal(got, code) {
		t.Fatalf("code round trip mismatch: got %x want %x", got, code)
	}
}
