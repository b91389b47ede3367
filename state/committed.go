package state

import (
	"context"
	"sync/atomic"

	"github.com/parallel-evm/pevm/types"
)

// CommittedState is the authoritative state after all finalized
// transactions: a DatabaseRef plus the monotonically growing overlay
// of writes promoted by validate_and_commit. Per the design note that
// a read-write lock is usually unnecessary, the overlay is held behind
// an atomic.Pointer and swapped wholesale between rounds: workers
// inside a round only ever Load a snapshot and never see a partial
// update, and the Scheduler's single writer goroutine never blocks on
// reader goroutines.
type CommittedState struct {
	db      DatabaseRef
	overlay atomic.Pointer[map[types.Location]Payload]
}

// NewCommittedState returns a CommittedState reading through db with
// an empty overlay.
func NewCommittedState(db DatabaseRef) *CommittedState {
	cs := &CommittedState{db: db}
	empty := make(map[types.Location]Payload)
	cs.overlay.Store(&empty)
	return cs
}

// Read returns the current Payload at loc: the overlay if some round
// already finalized a write to it, otherwise the backing DatabaseRef.
func (c *CommittedState) Read(ctx context.Context, loc types.Location) (Payload, error) {
	overlay := *c.overlay.Load()
	if v, ok := overlay[loc]; ok {
		return append(Payload(nil), v...), nil
	}
	return ReadPayload(ctx, c.db, loc)
}

// ApplyWrites promotes a finalized prefix's writes into the overlay.
// Called only by the Scheduler's single orchestrator goroutine between
// rounds -- never concurrently with a round's reads -- so the
// copy-then-swap below never races a reader for the same slot.
func (c *CommittedState) ApplyWrites(writes []types.StateChange) {
	if len(writes) == 0 {
		return
	}
	old := *c.overlay.Load()
	next := make(map[types.Location]Payload, len(old)+len(writes))
	for k, v := range old {
		next[k] = v
	}
	for _, w := range writes {
		next[w.Location] = w.Value
	}
	c.overlay.Store(&next)
}

// Snapshot returns the read-only overlay map visible to the round
// about to start. It is never mutated in place.
func (c *CommittedState) Snapshot() map[types.Location]Payload {
	return *c.overlay.Load()
}
