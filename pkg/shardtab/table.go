package shardtab

import (
	"math/bits"
	"sync"
)

// Table is the sharded hash table. A key's hash selects one shard;
// all operations on that key go through that shard's RWMutex and no
// other, so operations on keys in different shards never contend.
//
// The zero value is not usable; construct with New or NewWithHasher.
type Table[K comparable, V any] struct {
	shards    []*shard[K, V]
	shardMask uint64
	hash      Hasher[K]
	maxLoad   float64
}

// New creates a Table using a maphash-seeded hasher for K.
func New[K comparable, V any](opts ...Option) *Table[K, V] {
	return NewWithHasher[K, V](SeededHasher[K](), opts...)
}

// NewWithHasher creates a Table with an explicit hasher, e.g. one of
// the package hashers when K has a cheaper fixed-width encoding than
// the generic default.
func NewWithHasher[K comparable, V any](hash Hasher[K], opts ...Option) *Table[K, V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.sanitize()

	shift := uint(bits.TrailingZeros(uint(o.shards)))
	t := &Table[K, V]{
		shards:    make([]*shard[K, V], o.shards),
		shardMask: uint64(o.shards - 1),
		hash:      hash,
		maxLoad:   o.maxLoad,
	}
	for i := range t.shards {
		t.shards[i] = newShard[K, V](o.slots, shift)
	}
	return t
}

// shardFor is computed fresh on every call; no shard reference is
// cached across operations.
func (t *Table[K, V]) shardFor(h uint64) *shard[K, V] {
	return t.shards[h&t.shardMask]
}

// Insert adds key with value if absent and reports whether it was
// newly added. An existing key keeps its stored value and Insert
// returns false. A successful insert may grow the shard's slot array
// before the lock is released.
func (t *Table[K, V]) Insert(key K, val V) bool {
	h := t.hash(key)
	s := t.shardFor(h)
	s.mu.Lock()
	ok := s.insert(h, key, val)
	if ok && s.overloaded(t.maxLoad) {
		s.grow()
	}
	s.mu.Unlock()
	return ok
}

// Erase removes key and reports whether an entry was removed. Erasing
// an absent key is a normal false return, not an error.
func (t *Table[K, V]) Erase(key K) bool {
	h := t.hash(key)
	s := t.shardFor(h)
	s.mu.Lock()
	ok := s.erase(h, key)
	s.mu.Unlock()
	return ok
}

// Lookup returns the value stored for key. Lookups take the shard's
// read lock, so any number of them proceed in parallel on one shard
// while mutations are excluded.
func (t *Table[K, V]) Lookup(key K) (V, bool) {
	h := t.hash(key)
	s := t.shardFor(h)
	s.mu.RLock()
	v, ok := s.find(h, key)
	s.mu.RUnlock()
	return v, ok
}

// GetLock returns, without acquiring, the RWMutex guarding the shard
// that holds (or would hold) key. It is the same lock the table uses
// internally, so a caller can compose an index operation with its own
// bookkeeping under one critical section:
//
//	mu := t.GetLock(blockID)
//	mu.Lock()
//	if h, ok := t.LookupLocked(blockID); ok {
//		pin(h)
//	}
//	mu.Unlock()
//
// While holding the returned lock, only the *Locked operations may be
// used for keys mapping to that shard; the self-locking operations
// would deadlock.
func (t *Table[K, V]) GetLock(key K) *sync.RWMutex {
	return &t.shardFor(t.hash(key)).mu
}

// LookupLocked is Lookup for callers already holding the key's shard
// lock (read or write mode) via GetLock.
func (t *Table[K, V]) LookupLocked(key K) (V, bool) {
	h := t.hash(key)
	return t.shardFor(h).find(h, key)
}

// InsertLocked is Insert for callers already holding the key's shard
// lock in write mode via GetLock.
func (t *Table[K, V]) InsertLocked(key K, val V) bool {
	h := t.hash(key)
	s := t.shardFor(h)
	ok := s.insert(h, key, val)
	if ok && s.overloaded(t.maxLoad) {
		s.grow()
	}
	return ok
}

// EraseLocked is Erase for callers already holding the key's shard
// lock in write mode via GetLock.
func (t *Table[K, V]) EraseLocked(key K) bool {
	h := t.hash(key)
	return t.shardFor(h).erase(h, key)
}

// Len returns the total number of live entries. Shard locks are taken
// one at a time, so the result is a consistent sum only on a quiesced
// table.
func (t *Table[K, V]) Len() int {
	n := 0
	for _, s := range t.shards {
		s.mu.RLock()
		n += s.count
		s.mu.RUnlock()
	}
	return n
}

// ShardCount returns the number of shards.
func (t *Table[K, V]) ShardCount() int {
	return len(t.shards)
}

// ShardStats describes one shard's occupancy.
type ShardStats struct {
	Index   int `json:"index"`
	Entries int `json:"entries"`
	Slots   int `json:"slots"`
	Grows   int `json:"grows"`
}

// Stats returns per-shard occupancy, taking each shard's read lock in
// turn.
func (t *Table[K, V]) Stats() []ShardStats {
	stats := make([]ShardStats, len(t.shards))
	for i, s := range t.shards {
		s.mu.RLock()
		stats[i] = ShardStats{
			Index:   i,
			Entries: s.count,
			Slots:   len(s.slots),
			Grows:   s.grows,
		}
		s.mu.RUnlock()
	}
	return stats
}

// Range calls fn for every entry until fn returns false. Locks are
// held shard by shard; the traversal is not a consistent snapshot of
// a table under concurrent mutation.
func (t *Table[K, V]) Range(fn func(key K, value V) bool) {
	for _, s := range t.shards {
		s.mu.RLock()
		for _, chain := range s.slots {
			for _, e := range chain {
				if !fn(e.key, e.val) {
					s.mu.RUnlock()
					return
				}
			}
		}
		s.mu.RUnlock()
	}
}
