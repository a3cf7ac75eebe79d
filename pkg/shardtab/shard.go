package shardtab

import "sync"

// entry is one live key in a bucket chain. The key's hash is cached so
// chain walks can reject mismatches without comparing full keys, and
// so a grow can rehome entries without rehashing.
type entry[K comparable, V any] struct {
	hash uint64
	key  K
	val  V
}

// shard is one independently locked partition of the table. It owns a
// slot array of bucket chains; every entry reachable from those chains
// belongs to this shard and no other. The shard performs no locking of
// its own: callers hold mu in the appropriate mode, which is what lets
// Table.GetLock expose the very same lock to external callers.
type shard[K comparable, V any] struct {
	mu       sync.RWMutex
	slots    [][]entry[K, V]
	slotMask uint64
	shift    uint
	count    int
	grows    int
}

func newShard[K comparable, V any](slots int, shift uint) *shard[K, V] {
	return &shard[K, V]{
		slots:    make([][]entry[K, V], slots),
		slotMask: uint64(slots - 1),
		shift:    shift,
	}
}

// slotFor picks the bucket chain for a hash. The shard-selection bits
// are shifted away first so that keys landing in the same shard still
// spread across its slots.
func (s *shard[K, V]) slotFor(h uint64) uint64 {
	return (h >> s.shift) & s.slotMask
}

// find walks the target chain under a caller-held lock.
func (s *shard[K, V]) find(h uint64, key K) (V, bool) {
	for _, e := range s.slots[s.slotFor(h)] {
		if e.hash == h && e.key == key {
			return e.val, true
		}
	}
	var zero V
	return zero, false
}

// insert appends a new entry under a caller-held write lock. An
// existing key is left untouched and reported as false.
func (s *shard[K, V]) insert(h uint64, key K, val V) bool {
	chain := &s.slots[s.slotFor(h)]
	for _, e := range *chain {
		if e.hash == h && e.key == key {
			return false
		}
	}
	*chain = append(*chain, entry[K, V]{hash: h, key: key, val: val})
	s.count++
	return true
}

// erase unlinks a key under a caller-held write lock. The matching
// entry is swapped with the chain's last entry and popped, keeping
// erase O(1) once found; chain order carries no meaning.
func (s *shard[K, V]) erase(h uint64, key K) bool {
	chain := &s.slots[s.slotFor(h)]
	for i, e := range *chain {
		if e.hash == h && e.key == key {
			last := len(*chain) - 1
			(*chain)[i] = (*chain)[last]
			(*chain)[last] = entry[K, V]{}
			*chain = (*chain)[:last]
			s.count--
			return true
		}
	}
	return false
}

// overloaded reports whether the shard has exceeded the load factor
// threshold and should grow.
func (s *shard[K, V]) overloaded(maxLoad float64) bool {
	return float64(s.count) > maxLoad*float64(len(s.slots))
}

// grow doubles the slot array and rehomes every live entry, under a
// caller-held write lock. The new array is fully built before it is
// installed, so no intermediate state is ever visible and no entry is
// lost or duplicated. Keys never change shard: only their slot within
// this shard moves.
func (s *shard[K, V]) grow() {
	newSlots := make([][]entry[K, V], len(s.slots)*2)
	newMask := uint64(len(newSlots) - 1)
	for _, chain := range s.slots {
		for _, e := range chain {
			idx := (e.hash >> s.shift) & newMask
			newSlots[idx] = append(newSlots[idx], e)
		}
	}
	s.slots = newSlots
	s.slotMask = newMask
	s.grows++
}
