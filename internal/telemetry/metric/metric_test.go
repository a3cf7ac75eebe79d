package metric

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Repeated benchmark runs in one process each build their own
	// registry, so two registries must not collide.
	r2 := NewRegistry()
	r2.RunsTotal.Inc()
}

func TestCounters(t *testing.T) {
	r := NewRegistry()

	r.OpsTotal.WithLabelValues(OpInsert, ResultHit).Add(10)
	r.OpsTotal.WithLabelValues(OpLookup, ResultMiss).Inc()
	r.Entries.Set(42)
	r.RunsTotal.Inc()

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{
		"blkidx_bench_ops_total",
		"blkidx_bench_entries",
		"blkidx_bench_runs_total",
	} {
		if !found[name] {
			t.Errorf("metric %s not gathered", name)
		}
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.OpsTotal.WithLabelValues(OpErase, ResultHit).Inc()

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "blkidx_bench_ops_total") {
		t.Errorf("exposition output missing ops counter:\n%s", body)
	}
}
