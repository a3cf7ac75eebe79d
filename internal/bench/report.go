package bench

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yndnr/blkidx-go/pkg/shardtab"
)

// Result holds the outcome of one benchmark run.
type Result struct {
	RunID    string        `json:"run_id"`
	Impl     string        `json:"impl"`
	Duration time.Duration `json:"duration"`
	Elapsed  time.Duration `json:"elapsed"`

	Inserts uint64 `json:"inserts"`
	Reads   uint64 `json:"reads"`
	Erases  uint64 `json:"erases"`

	InsertsPerSec float64 `json:"inserts_per_sec"`
	ReadsPerSec   float64 `json:"reads_per_sec"`
	ErasesPerSec  float64 `json:"erases_per_sec"`

	// Entries is the live entry count after the run.
	Entries int `json:"entries"`

	// Shards is per-shard occupancy, present for the sharded
	// implementation only.
	Shards []shardtab.ShardStats `json:"shards,omitempty"`
}

// Text renders the result in the classic one-line-per-category form.
func (r *Result) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run=%s impl=%s elapsed=%s\n", r.RunID, r.Impl, r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "insert/sec=%.0f\n", r.InsertsPerSec)
	fmt.Fprintf(&b, "read/sec=%.0f\n", r.ReadsPerSec)
	fmt.Fprintf(&b, "erase/sec=%.0f\n", r.ErasesPerSec)
	fmt.Fprintf(&b, "entries=%d\n", r.Entries)
	if len(r.Shards) > 0 {
		grows, minE, maxE := 0, r.Shards[0].Entries, r.Shards[0].Entries
		for _, s := range r.Shards {
			grows += s.Grows
			if s.Entries < minE {
				minE = s.Entries
			}
			if s.Entries > maxE {
				maxE = s.Entries
			}
		}
		fmt.Fprintf(&b, "shards=%d grows=%d entries_min=%d entries_max=%d\n",
			len(r.Shards), grows, minE, maxE)
	}
	return b.String()
}

// JSON renders the result as indented JSON.
func (r *Result) JSON() (string, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
