package executor

import (
	"context"
	"testing"

	"github.com/parallel-evm/pevm/state"
	"github.com/parallel-evm/pevm/txdep"
	"github.com/parallel-evm/pevm/types"
)

func TestPartitionExecutorRunSharesLayerAcrossTxIds(t *testing.T) {
	ctx := context.Background()
	db := state.NewMemoryDatabaseRef()
	a := types.BytesToAddress([]byte{1})
	b := types.BytesToAddress([]byte{2})
	c := types.BytesToAddress([]byte{3})
	db.SetAccount(a, types.Account{Balance: types.NewWord(100)})

	cs := state.NewCommittedState(db)
	pe := New(cs, ValueTransferExecutor{})

	txs := []types.TxEnv{
		{From: a, To: b, Value: types.NewWord(10)},
		{From: b, To: c, Value: types.NewWord(10)},
	}
	part := txdep.Partition{0, 1}

	results := pe.Run(ctx, part, txs)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != types.StatusOk {
		t.Fatalf("tx0 expected StatusOk, got %v", results[0].Status)
	}
	// tx1 spends what tx0 just credited to b within the same partition
	// layer, so it must also succeed.
	if results[1].Status != types.StatusOk {
		t.Fatalf("tx1 expected StatusOk (reads tx0's write through the shared layer), got %v (err=%v)", results[1].Status, results[1].Err)
	}
	if len(results[0].StateChanges) == 0 || len(results[1].StateChanges) == 0 {
		t.Fatal("expected both results to carry their StateChanges")
	}
}
