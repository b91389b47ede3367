// Package scheduler orchestrates the round loop: partition the
// non-finalized tail, execute partitions concurrently, merge their
// write sets, validate against strict sequential order, commit the
// longest conflict-free prefix, and feed residual conflicts back into
// the next round's partitioning -- falling back to single-threaded
// sequential execution once MaxRounds is exhausted.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/parallel-evm/pevm/executor"
	"github.com/parallel-evm/pevm/log"
	"github.com/parallel-evm/pevm/metrics"
	"github.com/parallel-evm/pevm/state"
	"github.com/parallel-evm/pevm/txdep"
	"github.com/parallel-evm/pevm/types"
	"github.com/parallel-evm/pevm/workerpool"
)

var logger = log.Default().Module("scheduler")

// Scheduler drives one batch's execution. It is not reused across
// batches: construct a new one per ParallelExecute call via New.
type Scheduler struct {
	db       state.DatabaseRef
	coinbase types.Address
	txs      []types.TxEnv
	cfg      Config

	committed *state.CommittedState
	pool      *workerpool.Pool
	txExec    executor.TxExecutor
	metrics   *schedMetrics
	collector *metrics.MetricsCollector
}

// New constructs a Scheduler over db for the given batch of
// transactions. coinbase is carried for callers that need it (e.g. an
// injected TxExecutor crediting block rewards); the scheduler itself
// does not special-case it.
func New(db state.DatabaseRef, coinbase types.Address, txs []types.TxEnv, cfg Config) *Scheduler {
	cfg = cfg.withDefaults()
	return &Scheduler{
		db:        db,
		coinbase:  coinbase,
		txs:       txs,
		cfg:       cfg,
		committed: state.NewCommittedState(db),
		pool:      workerpool.New(cfg.Workers),
		txExec:    executor.ValueTransferExecutor{},
		metrics:   newSchedMetrics(metrics.DefaultRegistry),
		collector: metrics.NewMetricsCollector(metrics.CollectorConfig{EnableHistograms: true}),
	}
}

// RoundLatencyPercentile reports the p-th percentile (0-100) of
// recorded round latencies in milliseconds, tagged per batch via the
// MetricsCollector -- useful for spotting a handful of slow rounds
// that a plain Histogram's mean/min/max would hide.
func (s *Scheduler) RoundLatencyPercentile(p float64) float64 {
	return s.collector.HistogramPercentile("round_latency_ms", p)
}

// RoundThroughput reports the 1-minute EWMA rate of completed rounds
// per second, the same load-average style figure an operator watching
// a long-running batch would want alongside the per-round latency
// histogram.
func (s *Scheduler) RoundThroughput() float64 {
	return s.metrics.roundThroughput.Rate1()
}

// WithTxExecutor overrides the default ValueTransferExecutor -- the
// hook a real EVM interpreter plugs into.
func (s *Scheduler) WithTxExecutor(e executor.TxExecutor) *Scheduler {
	s.txExec = e
	return s
}

// ParallelExecute runs the round loop to completion for hints
// (one ExecutionHint per transaction, index-aligned with the batch
// passed to New) and returns the batch result. Scheduler-level errors
// (InvariantViolation) abort the batch; per-transaction failures never
// do -- they are reported on that transaction's TxResult.
func (s *Scheduler) ParallelExecute(ctx context.Context, hints []types.ExecutionHint) (types.BatchResult, error) {
	total := len(s.txs)
	allResults := make(map[types.TxId]types.TxResult, total)
	numFinalityTxs := 0
	rounds := 0

	graph := txdep.Build(0, hints)
	partitioner := txdep.NewPartitioner(graph)

	for round := 0; round < s.cfg.MaxRounds && numFinalityTxs < total; round++ {
		rounds++
		roundStart := time.Now()

		partitionCount := s.cfg.PartitionCount
		partitions := partitioner.FetchBestPartitions(partitionCount)

		results, partitionOf, err := s.roundExecute(ctx, partitions)
		if err != nil {
			return types.BatchResult{}, err
		}
		for t, r := range results {
			allResults[t] = r
		}

		merged := buildMergedWriteSet(results)
		promoted := validateAndCommit(numFinalityTxs, total, results, partitionOf, merged)

		s.commitPrefix(promoted, allResults)
		s.metrics.rounds.Inc()
		s.metrics.roundThroughput.Mark(1)
		s.metrics.finalizedTxs.Add(int64(len(promoted)))
		s.metrics.conflicts.Add(int64(len(results) - len(promoted)))
		roundLatencyMs := float64(time.Since(roundStart).Milliseconds())
		s.metrics.roundLatency.Observe(roundLatencyMs)
		s.collector.RecordHistogram("round_latency_ms", roundLatencyMs)
		s.collector.Record("round_partitions", float64(len(partitions)), map[string]string{"round": fmt.Sprint(round)})

		logger.Info("round complete", "round", round, "finalized", len(promoted), "tail", total-numFinalityTxs-len(promoted))

		numFinalityTxs += len(promoted)
		if numFinalityTxs >= total {
			break
		}
		if len(promoted) == 0 && round < s.cfg.MaxRounds-1 {
			// No forward progress this round: stop speculating and hand
			// the whole tail to the sequential fallback below.
			break
		}

		if err := s.rebuildDependencies(graph, partitioner, allResults, numFinalityTxs, total); err != nil {
			return types.BatchResult{}, err
		}
	}

	if numFinalityTxs < total {
		s.metrics.sequentialFallback.Inc()
		logger.Info("falling back to sequential execution", "remaining", total-numFinalityTxs)
		s.executeRemainingSequential(ctx, numFinalityTxs, allResults)
		numFinalityTxs = total
	}

	return s.buildBatchResult(allResults, rounds), nil
}

// roundExecute spawns one PartitionExecutor per partition on the
// worker pool and waits for all to complete (4.5.2); no inter-partition
// communication occurs.
func (s *Scheduler) roundExecute(ctx context.Context, partitions []txdep.Partition) (map[types.TxId]types.TxResult, map[types.TxId]int, error) {
	results := make(map[types.TxId]types.TxResult)
	partitionOf := make(map[types.TxId]int)
	var mu chan struct{} = make(chan struct{}, 1)
	mu <- struct{}{}

	tasks := make([]func(ctx context.Context) (int, error), len(partitions))
	for i, part := range partitions {
		i, part := i, part
		tasks[i] = func(ctx context.Context) (int, error) {
			pe := executor.New(s.committed, s.txExec)
			partResults := pe.Run(ctx, part, s.txs)

			<-mu
			for t, r := range partResults {
				results[t] = r
				partitionOf[t] = i
			}
			mu <- struct{}{}
			return len(partResults), nil
		}
	}

	if err := s.pool.Run(ctx, tasks); err != nil {
		return nil, nil, err
	}
	return results, partitionOf, nil
}

// commitPrefix applies promoted TxIds' writes to CommittedState, in
// ascending TxId order. Each TxResult's StateChanges were already
// recorded in write order by the StateView that produced it (see
// state.StateView.Changes), so no re-read through a discarded
// partition layer is needed here.
func (s *Scheduler) commitPrefix(promoted []types.TxId, allResults map[types.TxId]types.TxResult) {
	var writes []types.StateChange
	for _, t := range promoted {
		writes = append(writes, allResults[t].StateChanges...)
	}
	s.committed.ApplyWrites(writes)
}

// rebuildDependencies rebuilds the dependency graph for the next round
// from the observed read/write sets of the still-open tail (4.5.5):
// conflicted transactions now have accurate dependency information
// instead of hints, and weights are updated to measured runtimes.
func (s *Scheduler) rebuildDependencies(graph *txdep.Graph, partitioner *txdep.Partitioner, allResults map[types.TxId]types.TxResult, numFinalityTxs, total int) error {
	tailLen := total - numFinalityTxs
	if tailLen <= 0 {
		return nil
	}
	observed := make([]types.ExecutionHint, tailLen)
	weights := make([]int, tailLen)
	for i := 0; i < tailLen; i++ {
		t := numFinalityTxs + i
		r, ok := allResults[t]
		if !ok || r.ReadSet == nil {
			observed[i] = types.NewExecutionHint()
			weights[i] = txdep.RawTransferWeight
			continue
		}
		observed[i] = types.ExecutionHint{ReadSet: r.ReadSet, WriteSet: r.WriteSet}
		if r.Runtime > 0 {
			weights[i] = int(r.Runtime.Nanoseconds())
		} else {
			weights[i] = txdep.RawTransferWeight
		}
	}
	rebuilt := txdep.Build(numFinalityTxs, observed)
	if err := graph.Update(rebuilt.Deps, numFinalityTxs); err != nil {
		return err
	}
	partitioner.SetWeights(weights)
	return nil
}

// executeRemainingSequential is the final fallback (4.5.6): execute
// the residual tail on a single worker directly against
// CommittedState, applying each transaction's writes before the next
// one reads -- true sequential execution, always makes progress.
func (s *Scheduler) executeRemainingSequential(ctx context.Context, from int, allResults map[types.TxId]types.TxResult) {
	for t := from; t < len(s.txs); t++ {
		layer := state.NewSpeculativeLayer(s.committed)
		view := state.NewStateView(layer)

		result := s.txExec.Execute(ctx, s.txs[t], view)
		result.TxId = t
		result.ReadSet = view.ReadSet()
		result.WriteSet = view.WriteSet()
		result.StateChanges = view.Changes()
		if err := view.Err(); err != nil && result.Status != types.StatusError {
			result.Status = types.StatusError
			result.Err = err
		}

		allResults[t] = result
		s.committed.ApplyWrites(result.StateChanges)
	}
}

// buildBatchResult assembles the final BatchResult in TxId order.
func (s *Scheduler) buildBatchResult(allResults map[types.TxId]types.TxResult, rounds int) types.BatchResult {
	perTx := make([]types.TxResult, len(s.txs))
	var delta types.StateDelta
	for t := 0; t < len(s.txs); t++ {
		r := allResults[t]
		perTx[t] = r
		delta = append(delta, r.StateChanges...)
	}
	result := types.BatchResult{PerTx: perTx, FinalState: delta, Rounds: rounds}
	logger.Info("batch complete", "rounds", rounds, "txs", len(perTx), "audit_hash", AuditHash(delta).Hex())
	return result
}
