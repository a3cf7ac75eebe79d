// Package metric provides Prometheus metrics for BlkIdx.
//
// The benchmark workers count their operations here, and the optional
// /metrics endpoint exposes them while a run is in flight so external
// tooling can watch throughput evolve.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation label values.
const (
	OpInsert = "insert"
	OpLookup = "lookup"
	OpErase  = "erase"
)

// Result label values. A hit is an insert that added an entry, a
// lookup that found one, or an erase that removed one.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Registry holds all benchmark metrics behind its own Prometheus
// registry, so tests and repeated runs never collide on the global
// default registry.
type Registry struct {
	reg *prometheus.Registry

	// OpsTotal counts index operations by operation and result.
	OpsTotal *prometheus.CounterVec

	// Entries is the live entry count of the table under test,
	// sampled by the runner.
	Entries prometheus.Gauge

	// ShardGrows is the cumulative number of shard slot-array
	// growths, sampled by the runner.
	ShardGrows prometheus.Gauge

	// RunsTotal counts completed benchmark runs.
	RunsTotal prometheus.Counter
}

// NewRegistry creates and registers all benchmark metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blkidx",
			Subsystem: "bench",
			Name:      "ops_total",
			Help:      "Index operations issued by benchmark workers.",
		}, []string{"op", "result"}),
		Entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blkidx",
			Subsystem: "bench",
			Name:      "entries",
			Help:      "Live entries in the table under test.",
		}),
		ShardGrows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blkidx",
			Subsystem: "bench",
			Name:      "shard_grows",
			Help:      "Cumulative shard slot-array growths.",
		}),
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blkidx",
			Subsystem: "bench",
			Name:      "runs_total",
			Help:      "Completed benchmark runs.",
		}),
	}

	reg.MustRegister(r.OpsTotal, r.Entries, r.ShardGrows, r.RunsTotal)
	return r
}

// Handler returns an HTTP handler serving this registry in Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
