package scheduler

import "github.com/parallel-evm/pevm/metrics"

// schedMetrics are the round-level counters a Scheduler publishes
// through the registry, exported via metrics.PrometheusExporter the
// same way the teacher's other subsystems do.
type schedMetrics struct {
	rounds             *metrics.Counter
	finalizedTxs       *metrics.Counter
	conflicts          *metrics.Counter
	sequentialFallback *metrics.Counter
	roundLatency       *metrics.Histogram
	roundThroughput    *metrics.Meter
}

func newSchedMetrics(registry *metrics.Registry) *schedMetrics {
	return &schedMetrics{
		rounds:             registry.Counter("pevm_scheduler_rounds_total"),
		finalizedTxs:       registry.Counter("pevm_scheduler_finalized_txs_total"),
		conflicts:          registry.Counter("pevm_scheduler_conflicts_total"),
		sequentialFallback: registry.Counter("pevm_scheduler_sequential_fallback_total"),
		roundLatency:       registry.Histogram("pevm_scheduler_round_latency_ms"),
		roundThroughput:    metrics.NewMeter(),
	}
}
