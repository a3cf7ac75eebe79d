package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/blkidx-go/internal/telemetry/logger"
)

func TestAppSmokeRun(t *testing.T) {
	if testing.Short() {
		t.Skip("runs a real (tiny) benchmark")
	}

	var out bytes.Buffer
	a := app()
	a.Writer = &out

	err := a.Run([]string{"blkidx-bench",
		"--duration", "50ms",
		"--writers", "1",
		"--readers", "0",
		"--erasers", "0",
		"--prepop", "10",
		"--value-size", "8",
		"--log-level", "error",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "insert/sec=") {
		t.Errorf("missing throughput report:\n%s", out.String())
	}
}

func TestAppRejectsUnknownImpl(t *testing.T) {
	var out bytes.Buffer
	a := app()
	a.Writer = &out

	err := a.Run([]string{"blkidx-bench", "--impl", "lockfree", "--log-level", "error"})
	if err == nil {
		t.Fatal("unknown implementation accepted")
	}
	if !strings.Contains(err.Error(), "impl") {
		t.Errorf("error does not mention impl: %v", err)
	}
}

func TestApplyLogLevel(t *testing.T) {
	quiet := logger.New(logger.Config{Level: "error", Output: io.Discard})

	write := func(content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "bench.yaml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	logger.SetLevel("info")
	t.Cleanup(func() { logger.SetLevel("info") })

	applyLogLevel(write("log:\n  level: verbose\n"), quiet)
	if got := logger.GetLevel(); got != "info" {
		t.Errorf("level after reload with bad value = %q, want %q", got, "info")
	}

	applyLogLevel(write("log:\n  level: debug\n"), quiet)
	if got := logger.GetLevel(); got != "debug" {
		t.Errorf("level after reload = %q, want %q", got, "debug")
	}
}

func TestAppJSONOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("runs a real (tiny) benchmark")
	}

	var out bytes.Buffer
	a := app()
	a.Writer = &out

	err := a.Run([]string{"blkidx-bench",
		"--duration", "50ms",
		"--writers", "1",
		"--prepop", "10",
		"--value-size", "8",
		"--impl", "locked",
		"--output", "json",
		"--log-level", "error",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), `"impl": "locked"`) {
		t.Errorf("missing JSON result:\n%s", out.String())
	}
}
