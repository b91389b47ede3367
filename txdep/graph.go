// Package txdep builds the dependency graph from per-transaction
// execution hints and partitions the non-finalized tail of a batch
// into balanced, conflict-minimizing groups for one round. The graph
// construction and partitioning algorithm mirror the reference
// scheduler's TxDependency: generate_tx_dependency (nearest-prior-writer
// edges) and fetch_best_partitions (descending-TxId connected-component
// flood, min-weight-first assignment).
package txdep

import (
	"github.com/parallel-evm/pevm/errs"
	"github.com/parallel-evm/pevm/types"
)

// RawTransferWeight is the default weight assigned to a transaction
// with no measured runtime yet (first round).
const RawTransferWeight = 1

// Graph is the dependency graph over the non-finalized tail
// [numFinalityTxs, numFinalityTxs+len(Deps)). Deps is indexed relative
// to numFinalityTxs: Deps[t-numFinalityTxs] holds the (absolute) TxIds
// that t depends on, all strictly less than t.
type Graph struct {
	NumFinalityTxs int
	Deps           [][]types.TxId
	AllIndependent bool
}

// Len returns the number of non-finalized transactions covered.
func (g *Graph) Len() int { return len(g.Deps) }

// Build constructs the dependency graph for the tail starting at
// numFinalityTxs, from hints covering exactly that tail (hints[i]
// corresponds to TxId numFinalityTxs+i).
//
// For each Location in a read hint, only the greatest prior writer
// matters (spec 4.3.1 step 2): anti-dependencies and write-write races
// are resolved later by validate_and_commit, not by the graph.
func Build(numFinalityTxs int, hints []types.ExecutionHint) *Graph {
	n := len(hints)
	writers := make(map[types.Location][]types.TxId, n)

	for i, h := range hints {
		tx := numFinalityTxs + i
		h.WriteSet.Each(func(l types.Location) bool {
			writers[l] = append(writers[l], tx)
			return false
		})
	}

	deps := make([][]types.TxId, n)
	allIndependent := true
	for i, h := range hints {
		tx := numFinalityTxs + i
		var txDeps []types.TxId
		h.ReadSet.Each(func(l types.Location) bool {
			ws, ok := writers[l]
			if !ok {
				return false
			}
			// ws is built in ascending TxId order (writers appended in
			// the same order we iterated hints), so the last writer
			// strictly before tx is the nearest prior writer.
			prev, found := -1, false
			for _, w := range ws {
				if w < tx && w > prev {
					prev, found = w, true
				}
			}
			if found {
				txDeps = append(txDeps, prev)
				allIndependent = false
			}
			return false
		})
		deps[i] = txDeps
	}

	return &Graph{NumFinalityTxs: numFinalityTxs, Deps: deps, AllIndependent: allIndependent}
}

// Update replaces the graph with freshly observed dependencies for the
// next round. It fails with an InvariantViolation if the total
// transaction count implied by (newDeps, newNumFinalityTxs) differs
// from the current one -- the batch size is immutable within a call
// to Scheduler.ParallelExecute.
func (g *Graph) Update(newDeps [][]types.TxId, newNumFinalityTxs int) error {
	if g.Len()+g.NumFinalityTxs != len(newDeps)+newNumFinalityTxs {
		return errs.NewInvariantViolation(
			"dependency graph update changes batch size: had %d finalized + %d tail, got %d finalized + %d tail",
			g.NumFinalityTxs, g.Len(), newNumFinalityTxs, len(newDeps))
	}
	allIndependent := true
	for _, d := range newDeps {
		if len(d) > 0 {
			allIndependent = false
			break
		}
	}
	g.Deps = newDeps
	g.NumFinalityTxs = newNumFinalityTxs
	g.AllIndependent = allIndependent
	return nil
}
