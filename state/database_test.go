package state

import (
	"context"
	"testing"

	"github.com/parallel-evm/pevm/types"
)

func TestReadPayloadDispatchesByKind(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDatabaseRef()
	addr := types.BytesToAddress([]byte{1})
	slot := types.BytesToHash([]byte{2})
	db.SetAccount(addr, types.Account{Nonce: 3, Balance: types.NewWord(10)})
	db.SetStorage(addr, slot, types.BytesToHash([]byte{9}))
	db.SetCode(addr, []byte{0x01, 0x02})

	accP, err := ReadPayload(ctx, db, types.Basic(addr))
	if err != nil {
		t.Fatalf("ReadPayload(Basic): %v", err)
	}
	if acc := DecodeAccount(accP); acc.Nonce != 3 {
		t.Fatalf("expected nonce 3, got %d", acc.Nonce)
	}

	storP, err := ReadPayload(ctx, db, types.Storage(addr, slot))
	if err != nil {
		t.Fatalf("ReadPayload(Storage): %v", err)
	}
	if got := DecodeStorage(storP); got != types.BytesToHash([]byte{9}) {
		t.Fatalf("unexpected storage payload: %v", got)
	}

	codeP, err := ReadPayload(ctx, db, types.Code(addr))
	if err != nil {
		t.Fatalf("ReadPayload(Code): %v", err)
	}
	if got := DecodeCode(codeP); len(got) != 2 {
		t.Fatalf("expected 2-byte code, got %d bytes", len(got))
	}
}

func TestMemoryDatabaseRefUntouchedReadsZeroValue(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDatabaseRef()
	addr := types.BytesToAddress([]byte{0x42})

	acc, err := db.ReadAccount(ctx, addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.Nonce != 0 || acc.Balance.Uint64() != 0 {
		t.Fatalf("expected zero account, got %+v", acc)
	}
}
