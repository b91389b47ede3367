package state

import (
	"context"

	"github.com/parallel-evm/pevm/types"
)

// DatabaseRef is the read-only handle to the persistent backing store
// supplying state to a batch. Implementations must be safe for
// concurrent reads from multiple partition workers. A never-touched
// account/slot/code reads as its zero value, not an error -- errors
// are reserved for genuine backing-store faults.
type DatabaseRef interface {
	ReadAccount(ctx context.Context, addr types.Address) (types.Account, error)
	ReadStorage(ctx context.Context, addr types.Address, slot types.Hash) (types.Hash, error)
	ReadCode(ctx context.Context, addr types.Address) ([]byte, error)
}

// ReadPayload dispatches to the DatabaseRef method matching loc's Kind
// and returns the canonical Payload encoding of the result.
func ReadPayload(ctx context.Context, db DatabaseRef, loc types.Location) (Payload, error) {
	switch loc.Kind {
	case types.LocationBasic:
		acc, err := db.ReadAccount(ctx, loc.Account)
		if err != nil {
			return nil, NewStorageError("read_account", err)
		}
		return EncodeAccount(acc), nil
	case types.LocationStorage:
		h, err := db.ReadStorage(ctx, loc.Account, loc.Slot)
		if err != nil {
			return nil, NewStorageError("read_storage", err)
		}
		return EncodeStorage(h), nil
	case types.LocationCode:
		code, err := db.ReadCode(ctx, loc.Account)
		if err != nil {
			return nil, NewStorageError("read_code", err)
		}
		return EncodeCode(code), nil
	default:
		return nil, nil
	}
}
