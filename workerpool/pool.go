// Package workerpool runs a round's partitions concurrently. It is
// adapted from the reference work-stealing pool: the fixed
// goroutine-count shape and metrics counters are kept, but the deque
// steal machinery is dropped -- a round assigns whole partitions up
// front (per spec 5, partitions don't yield mid-execution, so there is
// nothing to steal once a partition's TxIds are fixed).
package workerpool

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Metrics tracks round-level worker pool counters.
type Metrics struct {
	PartitionsExecuted atomic.Uint64
	TransactionsRun    atomic.Uint64
}

// Pool bounds the number of partitions executed concurrently to
// Workers, one goroutine per in-flight partition.
type Pool struct {
	workers int
	metrics Metrics
}

// New returns a Pool with numWorkers concurrency. If numWorkers <= 0,
// defaults to runtime.NumCPU().
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{workers: numWorkers}
}

// Workers returns the pool's concurrency bound.
func (p *Pool) Workers() int { return p.workers }

// Metrics returns the pool's performance counters.
func (p *Pool) Metrics() *Metrics { return &p.metrics }

// Run executes one task per partition, capped at p.workers concurrent
// goroutines. It returns the first error raised by any task (an
// errgroup cancels the shared context so sibling tasks can stop early);
// per spec 5's cancellation rule, partial round state from the
// cancelled tasks is the caller's to discard, not this pool's.
func (p *Pool) Run(ctx context.Context, tasks []func(ctx context.Context) (int, error)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			n, err := task(gctx)
			if err != nil {
				return err
			}
			p.metrics.PartitionsExecuted.Add(1)
			p.metrics.TransactionsRun.Add(uint64(n))
			return nil
		})
	}

	return g.Wait()
}
