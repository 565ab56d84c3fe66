package state

import (
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"dopchain/storage"
)

// Manager provides read/write access to chain state backed by a key-value
// store. Mutations accumulate in a pending overlay until Commit flushes them
// to the backing database; Reset discards the overlay. This mirrors the
// speculative-transition model of a trie: an operation mutates the overlay and
// the caller either commits the whole unit or rolls it back.
//
// Manager is not safe for concurrent use. Operations against the same state
// must be serialized by the caller.
type Manager struct {
	db      storage.Database
	pending map[string]pendingEntry
}

type pendingEntry struct {
	value   []byte
	deleted bool
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{
		db:      db,
		pending: make(map[string]pendingEntry),
	}
}

// hashKey derives the storage key for a logical state key. Logical keys are
// keccak-hashed before hitting the store so key layout never leaks sizing
// information and collisions across prefixes are impossible.
func hashKey(key []byte) []byte {
	return ethcrypto.Keccak256(key)
}

func (m *Manager) get(key []byte) ([]byte, bool, error) {
	if m == nil {
		return nil, false, fmt.Errorf("state manager unavailable")
	}
	hashed := hashKey(key)
	if entry, ok := m.pending[string(hashed)]; ok {
		if entry.deleted {
			return nil, false, nil
		}
		return entry.value, true, nil
	}
	value, err := m.db.Get(hashed)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (m *Manager) put(key, value []byte) error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.pending[string(hashKey(key))] = pendingEntry{value: stored}
	return nil
}

// Commit flushes all pending mutations to the backing database in a single
// batch write. A failed write leaves the overlay intact and the database
// untouched, so the caller can retry or reset.
func (m *Manager) Commit() error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	if len(m.pending) == 0 {
		return nil
	}
	batch := m.db.NewBatch()
	for key, entry := range m.pending {
		if entry.deleted {
			batch.Delete([]byte(key))
			continue
		}
		batch.Put([]byte(key), entry.value)
	}
	if err := batch.Write(); err != nil {
		return err
	}
	m.pending = make(map[string]pendingEntry)
	return nil
}

// Reset discards all pending mutations, rolling the manager back to the last
// committed state.
func (m *Manager) Reset() {
	if m == nil {
		return
	}
	m.pending = make(map[string]pendingEntry)
}

// Dirty reports whether uncommitted mutations are pending.
func (m *Manager) Dirty() bool {
	return m != nil && len(m.pending) > 0
}
