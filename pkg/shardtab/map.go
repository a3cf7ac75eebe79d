package shardtab

import "sync"

// Map is the index contract shared by the sharded table and the
// single-lock baseline. The benchmark drives either implementation
// through this interface; the implementation is chosen at
// construction time.
//
// Both implementations follow the same duplicate-key policy: Insert
// of an existing key leaves the stored value unchanged and returns
// false.
type Map[K comparable, V any] interface {
	// Insert adds key with value if absent and reports whether it
	// was newly added.
	Insert(key K, value V) bool

	// Erase removes key and reports whether an entry was removed.
	Erase(key K) bool

	// Lookup returns the value stored for key.
	Lookup(key K) (V, bool)

	// Len returns the number of live entries.
	Len() int
}

var (
	_ Map[uint64, string] = (*Table[uint64, string])(nil)
	_ Map[uint64, string] = (*Locked[uint64, string])(nil)
)

// Locked is the baseline: one RWMutex in front of one built-in map.
// Every mutation serializes against every other operation, which is
// exactly the contention the sharded table exists to avoid. It is
// kept as the benchmark's comparison point and as a reference for the
// contract's semantics.
type Locked[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// NewLocked creates an empty single-lock map.
func NewLocked[K comparable, V any]() *Locked[K, V] {
	return &Locked[K, V]{items: make(map[K]V)}
}

// Insert adds key with value if absent and reports whether it was
// newly added.
func (m *Locked[K, V]) Insert(key K, val V) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[key]; ok {
		return false
	}
	m.items[key] = val
	return true
}

// Erase removes key and reports whether an entry was removed.
func (m *Locked[K, V]) Erase(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[key]; !ok {
		return false
	}
	delete(m.items, key)
	return true
}

// Lookup returns the value stored for key.
func (m *Locked[K, V]) Lookup(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

// Len returns the number of live entries.
func (m *Locked[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
