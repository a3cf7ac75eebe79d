// Package buildinfo reports what was stamped into the blkidx-bench
// binary when it was linked.
//
// Release builds of the benchmark stamp the variables through the
// linker:
//
//	go build -ldflags "\
//	    -X github.com/yndnr/blkidx-go/internal/infra/buildinfo.Version=$(git describe --tags) \
//	    -X github.com/yndnr/blkidx-go/internal/infra/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/yndnr/blkidx-go/internal/infra/buildinfo.BuildTime=$(date -u +%FT%TZ)" \
//	    ./cmd/blkidx-bench
//
// A plain `go build` leaves the defaults in place, so a development
// binary identifies itself as "dev (unknown)". The stamp is logged at
// startup and shown by --version, so recorded throughput numbers can
// be traced back to the exact build that produced them.
package buildinfo

import (
	"fmt"
	"runtime"
)

// Stamped through -ldflags; see the package comment.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the stamp plus the Go toolchain that compiled the binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String renders the stamp for --version output.
func String() string {
	return fmt.Sprintf("%s (%s) built at %s", Version, Commit, BuildTime)
}
