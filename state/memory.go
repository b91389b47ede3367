package state

import (
	"context"
	"sync"

	"github.com/parallel-evm/pevm/types"
)

// MemoryDatabaseRef is an in-memory DatabaseRef backed by plain maps,
// guarded by an RWMutex so concurrent partition workers can read
// while a test or fixture loader writes between batches. It never
// returns an error itself -- it exists mainly for tests and the demo
// CLI's JSON-fixture mode; PebbleDatabaseRef is the on-disk
// counterpart exercising a real storage engine.
type MemoryDatabaseRef struct {
	mu       sync.RWMutex
	accounts map[types.Address]types.Account
	storage  map[types.Address]map[types.Hash]types.Hash
	code     map[types.Address][]byte
}

// NewMemoryDatabaseRef returns an empty in-memory database.
func NewMemoryDatabaseRef() *MemoryDatabaseRef {
	return &MemoryDatabaseRef{
		accounts: make(map[types.Address]types.Account),
		storage:  make(map[types.Address]map[types.Hash]types.Hash),
		code:     make(map[types.Address][]byte),
	}
}

// SetAccount seeds an account, for test/fixture setup.
func (m *MemoryDatabaseRef) SetAccount(addr types.Address, acc types.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[addr] = acc
}

// SetStorage seeds a storage slot, for test/fixture setup.
func (m *MemoryDatabaseRef) SetStorage(addr types.Address, slot, value types.Hash) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, ok := m.storage[addr]
	if !ok {
		slots = make(map[types.Hash]types.Hash)
		m.storage[addr] = slots
	}
	slots[slot] = value
}

// SetCode seeds an account's bytecode, for test/fixture setup.
func (m *MemoryDatabaseRef) SetCode(addr types.Address, code []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.code[addr] = append([]byte(nil), code...)
}

func (m *MemoryDatabaseRef) ReadAccount(_ context.Context, addr types.Address) (types.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[addr]; ok {
		return acc.Clone(), nil
	}
	return types.NewAccount(), nil
}

func (m *MemoryDatabaseRef) ReadStorage(_ context.Context, addr types.Address, slot types.Hash) (types.Hash, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if slots, ok := m.storage[addr]; ok {
		return slots[slot], nil
	}
	return types.Hash{}, nil
}

func (m *MemoryDatabaseRef) ReadCode(_ context.Context, addr types.Address) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.code[addr]...), nil
}
