package executor

import (
	"context"
	"time"

	"github.com/parallel-evm/pevm/log"
	"github.com/parallel-evm/pevm/state"
	"github.com/parallel-evm/pevm/txdep"
	"github.com/parallel-evm/pevm/types"
)

var logger = log.Default().Module("executor")

// PartitionExecutor runs one partition's TxIds sequentially against a
// fresh SpeculativeLayer, recording each transaction's actual read
// set, write set, result, and runtime. It never mutates CommittedState
// directly (see state.CommittedState.ApplyWrites).
type PartitionExecutor struct {
	committed *state.CommittedState
	txExec    TxExecutor
}

// New returns a PartitionExecutor sharing committed across every
// partition in the round.
func New(committed *state.CommittedState, txExec TxExecutor) *PartitionExecutor {
	return &PartitionExecutor{committed: committed, txExec: txExec}
}

// Run executes part's TxIds in ascending order against one fresh
// SpeculativeLayer, and returns one types.TxResult per TxId, keyed by
// TxId. Writes of earlier TxIds in part are visible to later ones'
// reads through the shared layer; this is correct because partitions
// preserve the relative input order of their members (4.4).
//
// Transactions whose black-box execution fails with an infrastructure
// (StorageError) are still emitted with an error result; they
// participate in validation normally. Their write set holds whatever
// the TxExecutor wrote before failing and is not cleared here;
// ValueTransferExecutor writes nothing once a read has failed.
func (pe *PartitionExecutor) Run(ctx context.Context, part txdep.Partition, txs []types.TxEnv) map[types.TxId]types.TxResult {
	layer := state.NewSpeculativeLayer(pe.committed)
	out := make(map[types.TxId]types.TxResult, len(part))

	for _, txID := range part {
		start := time.Now()
		view := state.NewStateView(layer)

		result := pe.txExec.Execute(ctx, txs[txID], view)
		result.TxId = txID
		result.Runtime = time.Since(start)
		result.ReadSet = view.ReadSet()
		result.WriteSet = view.WriteSet()
		result.StateChanges = view.Changes()

		if err := view.Err(); err != nil && result.Status != types.StatusError {
			result.Status = types.StatusError
			result.Err = err
		}

		logger.Debug("executed transaction", "tx", txID, "status", result.Status.String())
		out[txID] = result
	}

	return out
}
