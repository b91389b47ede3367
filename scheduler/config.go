package scheduler

import "runtime"

// MaxRoundsDefault bounds worst-case wasted speculative work before
// falling back to sequential execution (4.5.1).
const MaxRoundsDefault = 3

// Config configures a Scheduler. There is no external file format for
// it -- it is out of scope per spec 1's "no CLI, configuration, or
// telemetry plumbing" carve-out; callers construct it directly.
type Config struct {
	// PartitionCount is K, the number of partitions requested per
	// round; typically >= cpu_cores. Zero selects runtime.NumCPU().
	PartitionCount int
	// MaxRounds bounds speculative rounds before sequential fallback.
	// Zero selects MaxRoundsDefault.
	MaxRounds int
	// Workers bounds worker-pool concurrency. Zero selects
	// runtime.NumCPU().
	Workers int
}

func (c Config) withDefaults() Config {
	if c.MaxRounds <= 0 {
		c.MaxRounds = MaxRoundsDefault
	}
	if c.PartitionCount <= 0 {
		c.PartitionCount = runtime.NumCPU()
	}
	return c
}
