package shardtab

import "math/bits"

// Default construction parameters.
const (
	// DefaultShardCount is the default number of shards.
	DefaultShardCount = 16

	// DefaultSlotsPerShard is the default initial slot count per shard.
	DefaultSlotsPerShard = 64

	// DefaultMaxLoadFactor is the default live-entries-per-slot ratio
	// above which a shard doubles its slot array.
	DefaultMaxLoadFactor = 0.75
)

type options struct {
	shards  int
	slots   int
	maxLoad float64
}

// Option configures a Table at construction time.
type Option func(*options)

// WithShards sets the shard count. Values that are not powers of two
// are rounded up to the next power of two; values below 1 fall back to
// the default. The shard count is fixed for the table's lifetime.
func WithShards(n int) Option {
	return func(o *options) {
		o.shards = n
	}
}

// WithSlotsPerShard sets the initial slot count of each shard, rounded
// up to a power of two. Shards grow independently beyond this.
func WithSlotsPerShard(n int) Option {
	return func(o *options) {
		o.slots = n
	}
}

// WithMaxLoadFactor sets the per-shard load factor that triggers slot
// array growth. Non-positive values fall back to the default.
func WithMaxLoadFactor(f float64) Option {
	return func(o *options) {
		o.maxLoad = f
	}
}

func defaultOptions() options {
	return options{
		shards:  DefaultShardCount,
		slots:   DefaultSlotsPerShard,
		maxLoad: DefaultMaxLoadFactor,
	}
}

func (o *options) sanitize() {
	if o.shards < 1 {
		o.shards = DefaultShardCount
	}
	if o.slots < 1 {
		o.slots = DefaultSlotsPerShard
	}
	if o.maxLoad <= 0 {
		o.maxLoad = DefaultMaxLoadFactor
	}
	o.shards = nextPow2(o.shards)
	o.slots = nextPow2(o.slots)
}

// nextPow2 rounds n up to the nearest power of two.
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
