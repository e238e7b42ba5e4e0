// internal/store/memory.go
//
// Key-value capability used by the leaderboard, and its in-memory implementation.
// The memory store backs tests and the STORE_DRIVER=memory mode, where the
// leaderboard only lives as long as the process.
//
// Characteristics:
//   - Values are opaque byte slices keyed by slot name.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Get returns ErrNotFound for missing keys.

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("not found")

// KV defines a durable slot store.
// Implementations may be backed by memory (this file), SQLite or plain files.
type KV interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value at key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// memory is an in-memory map-based KV implementation.
type memory struct {
	mu    sync.RWMutex      // guards slots
	slots map[string][]byte // keyed by slot name
}

// NewMemory constructs a new in-memory KV.
func NewMemory() KV {
	return &memory{slots: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.slots[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, ErrNotFound
}

// Put stores a copy so later mutation by the caller is not observed.
func (m *memory) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = append([]byte(nil), value...)
	return nil
}

func (m *memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}
