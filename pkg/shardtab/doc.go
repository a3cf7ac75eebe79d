// Package shardtab provides a concurrent sharded hash table for BlkIdx.
//
// The table backs the in-memory lookup index of a block-level cache:
// many goroutines insert, look up, and erase entries against a shared
// key space, and a single global lock would serialize them all. The
// key space is therefore partitioned into independently locked shards,
// each holding its own slot array of bucket chains behind one RWMutex.
//
//   - Sharding: key -> shard is a pure function of the key's hash,
//     so unrelated keys never contend.
//   - Fine-grained locking: mutations take one shard's write lock,
//     lookups take its read lock; lookups on one shard run in parallel.
//   - Shard-local growth: a shard doubles its own slot array when its
//     load factor crosses the threshold, under the lock it already
//     holds, so a resize never pauses the rest of the table.
//   - Lock exposure: GetLock hands callers the shard's own RWMutex so
//     an index operation and external bookkeeping (reference counts,
//     cache metadata) can share one critical section.
//
// Usage:
//
//	t := shardtab.New[uint64, string](shardtab.WithShards(32))
//	t.Insert(blockID, handle)
//	h, ok := t.Lookup(blockID)
//
// Thread safety:
//
// All exported operations without the Locked suffix are safe for
// concurrent use. The *Locked variants assume the caller holds the
// lock returned by GetLock for the same key, in the appropriate mode.
// Calling a self-locking operation while holding that lock is a
// programming error and will self-deadlock.
package shardtab
