// Package executor runs one partition's transactions sequentially
// against its SpeculativeLayer, treating the actual transaction logic
// as an injected, opaque TxExecutor -- the EVM interpreter itself is
// an external collaborator, out of the scheduler's scope.
package executor

import (
	"context"

	"github.com/parallel-evm/pevm/errs"
	"github.com/parallel-evm/pevm/state"
	"github.com/parallel-evm/pevm/types"
)

// TxExecutor is the black box `execute(tx, view) -> (read_set,
// write_set, result)` from spec 1: it runs one transaction's logic
// against a StateView and returns the outcome. A real EVM interpreter
// implements this interface; ValueTransferExecutor is the default,
// used directly by the literal plain-transfer scenarios.
type TxExecutor interface {
	Execute(ctx context.Context, tx types.TxEnv, view *state.StateView) types.TxResult
}

// ValueTransferExecutor executes plain value transfers: move Value
// from Basic(From) to Basic(To) and bump From's nonce. Its hints are
// correct-by-construction per spec 4.2 (reads/writes Basic(from) and
// Basic(to) only), which is why ExecutionHints derived from a
// pre-scan of plain transfers never cause spurious conflicts.
type ValueTransferExecutor struct{}

// Execute implements TxExecutor.
//
// A transfer still consumes the sender's nonce even when it reverts
// (spec 7), and a self-transfer (From == To) must not lose that nonce
// bump to a stale second write: StateView.ReadAccount hands back a
// fresh, non-aliased Account on every call, so reading From and To
// twice for the same address and writing both copies back would let
// the second WriteAccount silently clobber the first at that Location.
func (ValueTransferExecutor) Execute(ctx context.Context, tx types.TxEnv, view *state.StateView) types.TxResult {
	from := view.ReadAccount(ctx, tx.From)
	if err := view.Err(); err != nil {
		return types.TxResult{Status: types.StatusError, Err: errs.NewExecutionError(err)}
	}

	value := tx.Value
	if value == nil {
		value = new(types.Word)
	}
	if from.Balance.Cmp(value) < 0 {
		from.Nonce++
		view.WriteAccount(tx.From, from)
		return types.TxResult{Status: types.StatusRevert, GasUsed: 21000, Err: &errs.Revert{Reason: "insufficient balance for transfer"}}
	}

	if tx.From == tx.To {
		// Debit and credit land on the same account: balance nets to
		// zero, nonce still bumps exactly once.
		from.Nonce++
		view.WriteAccount(tx.From, from)
		return types.TxResult{Status: types.StatusOk, GasUsed: 21000}
	}

	to := view.ReadAccount(ctx, tx.To)
	if err := view.Err(); err != nil {
		return types.TxResult{Status: types.StatusError, Err: errs.NewExecutionError(err)}
	}

	from.Balance = new(types.Word).Sub(from.Balance, value)
	from.Nonce++
	to.Balance = new(types.Word).Add(to.Balance, value)

	view.WriteAccount(tx.From, from)
	view.WriteAccount(tx.To, to)

	return types.TxResult{Status: types.StatusOk, GasUsed: 21000}
}
