package state

import (
	"context"
	"testing"

	"github.com/parallel-evm/pevm/types"
)

func TestStateViewTracksReadAndWriteSets(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDatabaseRef()
	a := types.BytesToAddress([]byte{1})
	b := types.BytesToAddress([]byte{2})
	db.SetAccount(a, types.Account{Nonce: 0, Balance: types.NewWord(100)})

	cs := NewCommittedState(db)
	layer := NewSpeculativeLayer(cs)
	view := NewStateView(layer)

	from := view.ReadAccount(ctx, a)
	from.Balance.SubUint64(from.Balance, 10)
	view.WriteAccount(a, from)
	view.WriteAccount(b, types.Account{Nonce: 0, Balance: types.NewWord(10)})

	if view.ReadSet().Cardinality() != 1 {
		t.Fatalf("expected 1 read (Basic(a)), got %d", view.ReadSet().Cardinality())
	}
	if view.WriteSet().Cardinality() != 2 {
		t.Fatalf("expected 2 writes, got %d", view.WriteSet().Cardinality())
	}
	if len(view.Changes()) != 2 {
		t.Fatalf("expected 2 recorded changes, got %d", len(view.Changes()))
	}
}

func TestSpeculativeLayerReadsOwnWriteBeforeCommitted(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDatabaseRef()
	a := types.BytesToAddress([]byte{3})
	db.SetAccount(a, types.Account{Nonce: 1, Balance: types.NewWord(1)})

	cs := NewCommittedState(db)
	layer := NewSpeculativeLayer(cs)

	// First transaction in the partition writes a's account.
	view1 := NewStateView(layer)
	view1.WriteAccount(a, types.Account{Nonce: 2, Balance: types.NewWord(2)})

	// A later transaction in the same partition, sharing the layer,
	// must observe the first transaction's write, not CommittedState's.
	view2 := NewStateView(layer)
	got := view2.ReadAccount(ctx, a)
	if got.Nonce != 2 {
		t.Fatalf("expected partition-local write to be visible, got nonce %d", got.Nonce)
	}
}

func TestStateViewErrSurfacesStorageError(t *testing.T) {
	ctx := context.Background()
	db := &erroringDatabaseRef{}
	cs := NewCommittedState(db)
	layer := NewSpeculativeLayer(cs)
	view := NewStateView(layer)

	_ = view.ReadAccount(ctx, types.Address{})
	if view.Err() == nil {
		t.Fatal("expected Err() to surface the backing store's error")
	}
}

type erroringDatabaseRef struct{}

func (erroringDatabaseRef) ReadAccount(context.Context, types.Address) (types.Account, error) {
	return types.Account{}, errBoom
}
func (erroringDatabaseRef) ReadStorage(context.Context, types.Address, types.Hash) (types.Hash, error) {
	return types.Hash{}, errBoom
}
func (erroringDatabaseRef) ReadCode(context.Context, types.Address) ([]byte, error) {
	return nil, errBoom
}

type boomError struct{}

func (boomError) Error() string { return "boom" }

var errBoom = boomError{}
