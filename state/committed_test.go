package state

import (
	"context"
	"testing"

	"github.com/parallel-evm/pevm/types"
)

func TestCommittedStateReadsThroughUntilWritten(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDatabaseRef()
	addr := types.BytesToAddress([]byte{7})
	db.SetAccount(addr, types.Account{Nonce: 1, Balance: types.NewWord(50)})

	cs := NewCommittedState(db)

	p, err := cs.Read(ctx, types.Basic(addr))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if acc := DecodeAccount(p); acc.Nonce != 1 {
		t.Fatalf("expected backing store value before any ApplyWrites, got nonce %d", acc.Nonce)
	}

	updated := types.Account{Nonce: 2, Balance: types.NewWord(40)}
	cs.ApplyWrites([]types.StateChange{{Location: types.Basic(addr), Value: EncodeAccount(updated)}})

	p, err = cs.Read(ctx, types.Basic(addr))
	if err != nil {
		t.Fatalf("Read after ApplyWrites: %v", err)
	}
	if acc := DecodeAccount(p); acc.Nonce != 2 {
		t.Fatalf("expected overlay value nonce 2, got %d", acc.Nonce)
	}

	// Backing store itself is untouched: overlay is where promoted
	// writes live, never written back to the DatabaseRef.
	raw, err := db.ReadAccount(ctx, addr)
	if err != nil {
		t.Fatalf("ReadAccount: %v", err)
	}
	if raw.Nonce != 1 {
		t.Fatalf("expected backing store unaffected by ApplyWrites, got nonce %d", raw.Nonce)
	}
}

func TestCommittedStateApplyWritesIsCumulative(t *testing.T) {
	db := NewMemoryDatabaseRef()
	cs := NewCommittedState(db)
	addrA := types.BytesToAddress([]byte{1})
	addrB := types.BytesToAddress([]byte{2})

	cs.ApplyWrites([]types.StateChange{{Location: types.Basic(addrA), Value: EncodeAccount(types.Account{Nonce: 1, Balance: types.NewWord(0)})}})
	cs.ApplyWrites([]types.StateChange{{Location: types.Basic(addrB), Value: EncodeAccount(types.Account{Nonce: 2, Balance: types.NewWord(0)})}})

	snap := cs.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 overlay entries after two rounds of ApplyWrites, got %d", len(snap))
	}
}
