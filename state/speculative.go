package state

import (
	"context"

	"github.com/parallel-evm/pevm/types"
)

// SpeculativeLayer is a per-partition write-through cache. Reads
// consult the partition's own writes (by earlier TxIds in the same
// partition, accumulated as transactions execute in ascending order)
// before falling through to CommittedState; writes only ever land in
// the layer, never in CommittedState directly (see scheduler's
// validate_and_commit for when writes are promoted).
type SpeculativeLayer struct {
	committed *CommittedState
	writes    map[types.Location]Payload
}

// NewSpeculativeLayer returns an empty layer over committed, to be
// shared by all transactions of one partition within one round.
func NewSpeculativeLayer(committed *CommittedState) *SpeculativeLayer {
	return &SpeculativeLayer{committed: committed, writes: make(map[types.Location]Payload)}
}

// Read returns the layer's own write for loc if present, else the
// CommittedState's value.
func (l *SpeculativeLayer) Read(ctx context.Context, loc types.Location) (Payload, error) {
	if v, ok := l.writes[loc]; ok {
		return append(Payload(nil), v...), nil
	}
	return l.committed.Read(ctx, loc)
}

// Write records v at loc in this partition's layer, visible to every
// later transaction in the same partition.
func (l *SpeculativeLayer) Write(loc types.Location, v Payload) {
	l.writes[loc] = v
}

// StateView is a transaction's read/write handle into its partition's
// SpeculativeLayer. It is the object passed to a TxExecutor; it
// records every Location touched into ReadSet/WriteSet as it is
// accessed (distinct from the pre-execution ExecutionHint), and
// accumulates its own StateChanges in write order so the Scheduler
// never needs to re-derive committed values from a discarded layer.
type StateView struct {
	layer    *SpeculativeLayer
	readSet  types.LocationSet
	writeSet types.LocationSet
	changes  []types.StateChange
	err      error
}

// NewStateView returns a StateView for one transaction over layer.
func NewStateView(layer *SpeculativeLayer) *StateView {
	return &StateView{layer: layer, readSet: types.NewLocationSet(), writeSet: types.NewLocationSet()}
}

// ReadAccount returns the Account at addr, recording Basic(addr) into
// the ReadSet on first access.
func (v *StateView) ReadAccount(ctx context.Context, addr types.Address) types.Account {
	p := v.read(ctx, types.Basic(addr))
	if p == nil {
		return types.NewAccount()
	}
	return DecodeAccount(p)
}

// ReadStorage returns the slot value at (addr, slot), recording
// Storage(addr, slot) into the ReadSet on first access.
func (v *StateView) ReadStorage(ctx context.Context, addr types.Address, slot types.Hash) types.Hash {
	p := v.read(ctx, types.Storage(addr, slot))
	if p == nil {
		return types.Hash{}
	}
	return DecodeStorage(p)
}

// ReadCode returns addr's bytecode, recording Code(addr) into the
// ReadSet on first access.
func (v *StateView) ReadCode(ctx context.Context, addr types.Address) []byte {
	p := v.read(ctx, types.Code(addr))
	return DecodeCode(p)
}

func (v *StateView) read(ctx context.Context, loc types.Location) Payload {
	v.readSet.Add(loc)
	p, err := v.layer.Read(ctx, loc)
	if err != nil {
		if v.err == nil {
			v.err = err
		}
		return nil
	}
	return p
}

// WriteAccount records acc at Basic(addr): into the layer, the
// transaction's WriteSet, and its ordered StateChanges.
func (v *StateView) WriteAccount(addr types.Address, acc types.Account) {
	v.write(types.Basic(addr), EncodeAccount(acc))
}

// WriteStorage records value at Storage(addr, slot).
func (v *StateView) WriteStorage(addr types.Address, slot, value types.Hash) {
	v.write(types.Storage(addr, slot), EncodeStorage(value))
}

// WriteCode records code at Code(addr).
func (v *StateView) WriteCode(addr types.Address, code []byte) {
	v.write(types.Code(addr), EncodeCode(code))
}

func (v *StateView) write(loc types.Location, p Payload) {
	v.writeSet.Add(loc)
	v.layer.Write(loc, p)
	v.changes = append(v.changes, types.StateChange{Location: loc, Value: p})
}

// ReadSet returns the Locations this transaction actually read.
func (v *StateView) ReadSet() types.LocationSet { return v.readSet }

// WriteSet returns the Locations this transaction actually wrote.
func (v *StateView) WriteSet() types.LocationSet { return v.writeSet }

// Changes returns this transaction's writes in the order they were
// made; a Location written twice appears twice, last one authoritative.
func (v *StateView) Changes() []types.StateChange { return v.changes }

// Err returns the first StorageError encountered by a read, if any.
func (v *StateView) Err() error { return v.err }
