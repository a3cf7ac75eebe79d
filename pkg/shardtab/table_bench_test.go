package shardtab

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

func benchImpls(shards int) map[string]Map[uint64, string] {
	return map[string]Map[uint64, string]{
		"locked":  NewLocked[uint64, string](),
		"sharded": NewWithHasher[uint64, string](Uint64Hasher, WithShards(shards)),
	}
}

func BenchmarkLookup(b *testing.B) {
	const keys = 1 << 16

	for name, m := range benchImpls(32) {
		for i := uint64(0); i < keys; i++ {
			m.Insert(i, "v")
		}
		b.Run(name, func(b *testing.B) {
			b.RunParallel(func(pb *testing.PB) {
				rng := rand.New(rand.NewPCG(rand.Uint64(), 0))
				for pb.Next() {
					if _, ok := m.Lookup(rng.Uint64N(keys)); !ok {
						b.Error("prepopulated key missing")
						return
					}
				}
			})
		})
	}
}

func BenchmarkInsertErase(b *testing.B) {
	for name, m := range benchImpls(32) {
		b.Run(name, func(b *testing.B) {
			b.RunParallel(func(pb *testing.PB) {
				rng := rand.New(rand.NewPCG(rand.Uint64(), 0))
				for pb.Next() {
					k := rng.Uint64()
					m.Insert(k, "v")
					m.Erase(k)
				}
			})
		})
	}
}

func BenchmarkShardCounts(b *testing.B) {
	for _, shards := range []int{1, 4, 16, 64} {
		m := NewWithHasher[uint64, string](Uint64Hasher, WithShards(shards))
		for i := uint64(0); i < 1<<16; i++ {
			m.Insert(i, "v")
		}
		b.Run(fmt.Sprintf("shards_%d", shards), func(b *testing.B) {
			b.RunParallel(func(pb *testing.PB) {
				rng := rand.New(rand.NewPCG(rand.Uint64(), 0))
				for pb.Next() {
					m.Lookup(rng.Uint64N(1 << 16))
				}
			})
		})
	}
}
