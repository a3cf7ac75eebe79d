package bench

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yndnr/blkidx-go/internal/bench/config"
	"github.com/yndnr/blkidx-go/internal/telemetry/logger"
	"github.com/yndnr/blkidx-go/internal/telemetry/metric"
	"github.com/yndnr/blkidx-go/pkg/shardtab"
)

// writerSpan is the key range writers and erasers draw from, offset
// past the prepopulated range so readers always hit. The span is kept
// moderate so erasers find keys that writers inserted.
const writerSpan = 1 << 31

// Runner drives one benchmark run against one implementation.
type Runner struct {
	cfg     *config.Config
	log     logger.Logger
	metrics *metric.Registry

	impl  shardtab.Map[uint64, string]
	table *shardtab.Table[uint64, string] // non-nil only for the sharded impl
	value string

	inserts atomic.Uint64
	reads   atomic.Uint64
	erases  atomic.Uint64
}

// New creates a Runner for the configured implementation. The
// configuration must already be verified.
func New(cfg *config.Config, log logger.Logger, metrics *metric.Registry) (*Runner, error) {
	r := &Runner{
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		value:   strings.Repeat("a", cfg.ValueSize),
	}

	switch cfg.Impl {
	case config.ImplSharded:
		t := shardtab.NewWithHasher[uint64, string](shardtab.Uint64Hasher,
			shardtab.WithShards(cfg.Table.Shards),
			shardtab.WithSlotsPerShard(cfg.Table.SlotsPerShard),
			shardtab.WithMaxLoadFactor(cfg.Table.MaxLoadFactor))
		r.impl = t
		r.table = t
	case config.ImplLocked:
		r.impl = shardtab.NewLocked[uint64, string]()
	default:
		return nil, fmt.Errorf("unknown implementation %q", cfg.Impl)
	}

	return r, nil
}

// Run executes the benchmark: prepopulation, the timed concurrent
// phase, and result collection. Canceling ctx ends the run early.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runID := ulid.Make().String()
	log := r.log.With("run_id", runID, "impl", r.cfg.Impl)

	log.Info("prepopulating", "keys", r.cfg.Prepop)
	if err := r.prepopulate(ctx); err != nil {
		return nil, err
	}

	log.Info("starting workers",
		"writers", r.cfg.Writers,
		"readers", r.cfg.Readers,
		"erasers", r.cfg.Erasers,
		"duration", r.cfg.Duration)

	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Duration)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	for i := 0; i < r.cfg.Writers; i++ {
		rng := workerRNG(i)
		g.Go(func() error { return r.writeLoop(gctx, rng) })
	}
	for i := 0; i < r.cfg.Readers; i++ {
		rng := workerRNG(1000 + i)
		g.Go(func() error { return r.readLoop(gctx, rng) })
	}
	for i := 0; i < r.cfg.Erasers; i++ {
		rng := workerRNG(2000 + i)
		g.Go(func() error { return r.eraseLoop(gctx, rng) })
	}
	g.Go(func() error { return r.sampleLoop(gctx) })

	// Workers return nil when the deadline (or a SIGINT cancel)
	// stops them; any error is a real invariant violation.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	r.sample()
	r.metrics.RunsTotal.Inc()

	res := r.result(runID, elapsed)
	log.Info("run complete",
		"elapsed", elapsed.Round(time.Millisecond),
		"inserts_per_sec", uint64(res.InsertsPerSec),
		"reads_per_sec", uint64(res.ReadsPerSec),
		"erases_per_sec", uint64(res.ErasesPerSec),
		"entries", res.Entries)
	return res, nil
}

// prepopulate inserts keys 0..Prepop-1 single-threaded. Every insert
// must report true; a duplicate here means the table is broken.
func (r *Runner) prepopulate(ctx context.Context) error {
	for i := 0; i < r.cfg.Prepop; i++ {
		if i%65536 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		if !r.impl.Insert(uint64(i), r.value) {
			return fmt.Errorf("prepopulate: Insert(%d) reported an existing key", i)
		}
	}
	return nil
}

func workerRNG(id int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(id), rand.Uint64()))
}

func (r *Runner) limiter() *rate.Limiter {
	if r.cfg.Rate <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(r.cfg.Rate), 1)
}

func (r *Runner) writeLoop(ctx context.Context, rng *rand.Rand) error {
	var (
		lim  = r.limiter()
		hit  = r.counter(metric.OpInsert, metric.ResultHit)
		miss = r.counter(metric.OpInsert, metric.ResultMiss)
		base = uint64(r.cfg.Prepop)
	)
	for ctx.Err() == nil {
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return nil
			}
		}
		if r.impl.Insert(base+rng.Uint64N(writerSpan), r.value) {
			hit.Inc()
		} else {
			miss.Inc()
		}
		r.inserts.Add(1)
	}
	return nil
}

func (r *Runner) readLoop(ctx context.Context, rng *rand.Rand) error {
	var (
		lim    = r.limiter()
		hit    = r.counter(metric.OpLookup, metric.ResultHit)
		prepop = uint64(r.cfg.Prepop)
	)
	for ctx.Err() == nil {
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return nil
			}
		}
		key := rng.Uint64N(prepop)
		if _, ok := r.impl.Lookup(key); !ok {
			// Nothing erases the prepopulated range, so a miss is a
			// lost entry.
			return fmt.Errorf("prepopulated key %d missing", key)
		}
		hit.Inc()
		r.reads.Add(1)
	}
	return nil
}

func (r *Runner) eraseLoop(ctx context.Context, rng *rand.Rand) error {
	var (
		lim  = r.limiter()
		hit  = r.counter(metric.OpErase, metric.ResultHit)
		miss = r.counter(metric.OpErase, metric.ResultMiss)
		base = uint64(r.cfg.Prepop)
	)
	for ctx.Err() == nil {
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return nil
			}
		}
		if r.impl.Erase(base + rng.Uint64N(writerSpan)) {
			hit.Inc()
		} else {
			miss.Inc()
		}
		r.erases.Add(1)
	}
	return nil
}

// sampleLoop refreshes the table gauges once a second while the run
// is active, so a scraped /metrics endpoint shows live occupancy.
func (r *Runner) sampleLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.sample()
		}
	}
}

func (r *Runner) sample() {
	r.metrics.Entries.Set(float64(r.impl.Len()))
	if r.table != nil {
		grows := 0
		for _, s := range r.table.Stats() {
			grows += s.Grows
		}
		r.metrics.ShardGrows.Set(float64(grows))
	}
}

func (r *Runner) counter(op, result string) prometheus.Counter {
	return r.metrics.OpsTotal.WithLabelValues(op, result)
}

func (r *Runner) result(runID string, elapsed time.Duration) *Result {
	res := &Result{
		RunID:    runID,
		Impl:     r.cfg.Impl,
		Duration: r.cfg.Duration,
		Elapsed:  elapsed,
		Inserts:  r.inserts.Load(),
		Reads:    r.reads.Load(),
		Erases:   r.erases.Load(),
		Entries:  r.impl.Len(),
	}
	if secs := elapsed.Seconds(); secs > 0 {
		res.InsertsPerSec = float64(res.Inserts) / secs
		res.ReadsPerSec = float64(res.Reads) / secs
		res.ErasesPerSec = float64(res.Erases) / secs
	}
	if r.table != nil {
		res.Shards = r.table.Stats()
	}
	return res
}
