package state

import (
	"context"
	"errors"

	"github.com/cockroachdb/pebble"
	"github.com/parallel-evm/pevm/types"
)

// PebbleDatabaseRef is a DatabaseRef backed by a pebble LSM-tree, the
// shape a real persistent backing store takes (as opposed to
// MemoryDatabaseRef's plain maps). Keys are the Location's tag byte
// followed by its Account and, for Storage, its Slot; account values
// are RLP encodings (EncodeAccount), storage values are the raw 32-byte
// slot value, and code values are the raw bytecode. Pebble handles are safe for
// concurrent reads, satisfying the DatabaseRef contract directly.
type PebbleDatabaseRef struct {
	db *pebble.DB
}

// OpenPebbleDatabaseRef opens (creating if absent) a pebble store at dir.
func OpenPebbleDatabaseRef(dir string) (*PebbleDatabaseRef, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleDatabaseRef{db: db}, nil
}

// Close releases the underlying pebble handle.
func (p *PebbleDatabaseRef) Close() error { return p.db.Close() }

func accountKey(addr types.Address) []byte {
	return append([]byte{byte(types.LocationBasic)}, addr[:]...)
}

func storageKey(addr types.Address, slot types.Hash) []byte {
	k := append([]byte{byte(types.LocationStorage)}, addr[:]...)
	return append(k, slot[:]...)
}

func codeKey(addr types.Address) []byte {
	return append([]byte{byte(types.LocationCode)}, addr[:]...)
}

// SetAccount writes an account record, for test/fixture setup.
func (p *PebbleDatabaseRef) SetAccount(addr types.Address, acc types.Account) error {
	return p.db.Set(accountKey(addr), EncodeAccount(acc), pebble.Sync)
}

// SetStorage writes a storage slot, for test/fixture setup.
func (p *PebbleDatabaseRef) SetStorage(addr types.Address, slot, value types.Hash) error {
	return p.db.Set(storageKey(addr, slot), value[:], pebble.Sync)
}

// SetCode writes an account's bytecode, for test/fixture setup.
func (p *PebbleDatabaseRef) SetCode(addr types.Address, code []byte) error {
	return p.db.Set(codeKey(addr), code, pebble.Sync)
}

func (p *PebbleDatabaseRef) ReadAccount(_ context.Context, addr types.Address) (types.Account, error) {
	v, closer, err := p.db.Get(accountKey(addr))
	if errors.Is(err, pebble.ErrNotFound) {
		return types.NewAccount(), nil
	}
	if err != nil {
		return types.Account{}, err
	}
	defer closer.Close()
	return DecodeAccount(append(Payload(nil), v...)), nil
}

func (p *PebbleDatabaseRef) ReadStorage(_ context.Context, addr types.Address, slot types.Hash) (types.Hash, error) {
	v, closer, err := p.db.Get(storageKey(addr, slot))
	if errors.Is(err, pebble.ErrNotFound) {
		return types.Hash{}, nil
	}
	if err != nil {
		return types.Hash{}, err
	}
	defer closer.Close()
	return types.BytesToHash(v), nil
}

func (p *PebbleDatabaseRef) ReadCode(_ context.Context, addr types.Address) ([]byte, error) {
	v, closer, err := p.db.Get(codeKey(addr))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	out := append([]byte(nil), v...)
	return out, nil
}
