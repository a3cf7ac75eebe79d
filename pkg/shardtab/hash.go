package shardtab

import (
	"encoding/binary"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// Hasher maps a key to a 64-bit hash.
//
// The table uses the low bits of the hash to pick a shard and the
// remaining bits to pick a slot within the shard, so hashers should
// distribute entropy across the full 64 bits. Equal keys must always
// produce equal hashes for the lifetime of a table.
type Hasher[K any] func(K) uint64

// Uint64Hasher hashes a uint64 key with murmur3 over its fixed-width
// little-endian encoding.
func Uint64Hasher(key uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return murmur3.Sum64(buf[:])
}

// IntHasher hashes an int key. See Uint64Hasher.
func IntHasher(key int) uint64 {
	return Uint64Hasher(uint64(key))
}

// StringHasher hashes a string key with xxHash.
func StringHasher(key string) uint64 {
	return xxhash.Sum64String(key)
}

// BytesHasher hashes a byte-slice key with murmur3.
func BytesHasher(key []byte) uint64 {
	return murmur3.Sum64(key)
}

// SeededHasher returns a Hasher for any comparable key type, backed by
// hash/maphash with a freshly drawn seed. Hashers from separate calls
// hash the same key differently, so one hasher must not be shared
// across tables that exchange entries.
func SeededHasher[K comparable]() Hasher[K] {
	seed := maphash.MakeSeed()
	return func(key K) uint64 {
		return maphash.Comparable(seed, key)
	}
}
