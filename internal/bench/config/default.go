package config

import "time"

// Default configuration values. Worker counts and duration follow the
// original microbenchmark defaults: one writer, ten seconds, a
// million prepopulated keys of one-kilobyte values.
const (
	DefaultDuration  = 10 * time.Second
	DefaultWriters   = 1
	DefaultReaders   = 0
	DefaultErasers   = 0
	DefaultPrepop    = 1 << 20
	DefaultValueSize = 1000
	DefaultImpl      = ImplSharded

	DefaultShards        = 16
	DefaultSlotsPerShard = 1 << 12
	DefaultMaxLoadFactor = 0.75

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default benchmark configuration.
func Default() *Config {
	return &Config{
		Duration:  DefaultDuration,
		Writers:   DefaultWriters,
		Readers:   DefaultReaders,
		Erasers:   DefaultErasers,
		Prepop:    DefaultPrepop,
		ValueSize: DefaultValueSize,
		Impl:      DefaultImpl,
		Table: TableSection{
			Shards:        DefaultShards,
			SlotsPerShard: DefaultSlotsPerShard,
			MaxLoadFactor: DefaultMaxLoadFactor,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
