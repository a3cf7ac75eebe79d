// Package config defines the benchmark configuration structure.
package config

import "time"

// Config is the root configuration for blkidx-bench.
type Config struct {
	// Duration is how long the concurrent phase runs.
	Duration time.Duration `koanf:"duration"`

	// Writers, Readers and Erasers are the worker counts per
	// category. Zero disables a category.
	Writers int `koanf:"writers"`
	Readers int `koanf:"readers"`
	Erasers int `koanf:"erasers"`

	// Prepop is the number of keys inserted sequentially before the
	// concurrent phase. Readers only look up keys in this range.
	Prepop int `koanf:"prepop"`

	// ValueSize is the byte length of the value stored per key.
	ValueSize int `koanf:"value_size"`

	// Impl selects the implementation under test: sharded or locked.
	Impl string `koanf:"impl"`

	// Rate caps each worker at this many operations per second.
	// Zero means unlimited.
	Rate int `koanf:"rate"`

	// MetricsAddr enables a /metrics HTTP endpoint while the run is
	// active (e.g. "127.0.0.1:9090"). Empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`

	Table TableSection `koanf:"table"`
	Log   LogSection   `koanf:"log"`
}

// TableSection configures the sharded table under test.
type TableSection struct {
	// Shards is the shard count, rounded up to a power of two.
	Shards int `koanf:"shards"`

	// SlotsPerShard is the initial slot count per shard.
	SlotsPerShard int `koanf:"slots_per_shard"`

	// MaxLoadFactor is the per-shard load factor that triggers slot
	// array growth.
	MaxLoadFactor float64 `koanf:"max_load_factor"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Implementation names accepted by Config.Impl.
const (
	ImplSharded = "sharded"
	ImplLocked  = "locked"
)
