package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/blkidx-go/internal/bench"
	"github.com/yndnr/blkidx-go/internal/bench/config"
	"github.com/yndnr/blkidx-go/internal/infra/buildinfo"
	"github.com/yndnr/blkidx-go/internal/infra/confloader"
	"github.com/yndnr/blkidx-go/internal/infra/shutdown"
	"github.com/yndnr/blkidx-go/internal/telemetry/logger"
	"github.com/yndnr/blkidx-go/internal/telemetry/metric"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func app() *cli.App {
	return &cli.App{
		Name:    "blkidx-bench",
		Usage:   "microbenchmark driver for the BlkIdx concurrent index",
		Version: buildinfo.String(),
		Flags:   flags(),
		Action:  run,
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to YAML configuration file",
		},
		&cli.DurationFlag{
			Name:    "duration",
			Aliases: []string{"d"},
			Usage:   "Length of the concurrent phase",
		},
		&cli.IntFlag{Name: "writers", Aliases: []string{"w"}, Usage: "Writer worker count"},
		&cli.IntFlag{Name: "readers", Aliases: []string{"r"}, Usage: "Reader worker count"},
		&cli.IntFlag{Name: "erasers", Aliases: []string{"e"}, Usage: "Eraser worker count"},
		&cli.IntFlag{Name: "prepop", Usage: "Keys inserted before the concurrent phase"},
		&cli.IntFlag{Name: "value-size", Usage: "Value size in bytes"},
		&cli.StringFlag{Name: "impl", Usage: "Implementation under test: sharded or locked"},
		&cli.IntFlag{Name: "rate", Usage: "Per-worker operations/sec cap (0 = unlimited)"},
		&cli.IntFlag{Name: "shards", Usage: "Shard count (rounded up to a power of two)"},
		&cli.IntFlag{Name: "slots-per-shard", Usage: "Initial slot count per shard"},
		&cli.Float64Flag{Name: "load-factor", Usage: "Per-shard load factor triggering growth"},
		&cli.StringFlag{Name: "metrics-addr", Usage: "Serve Prometheus /metrics on this address during the run"},
		&cli.BoolFlag{
			Name:  "compare",
			Usage: "Run the locked baseline and the sharded table back to back",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Result format: text, json",
			Value:   "text",
		},
		&cli.StringFlag{Name: "log-level", Usage: "Log level: debug, info, warn, error"},
		&cli.StringFlag{Name: "log-format", Usage: "Log format: text, json"},
	}
}

// flagKeys maps CLI flags onto configuration keys.
var flagKeys = map[string]string{
	"duration":        "duration",
	"writers":         "writers",
	"readers":         "readers",
	"erasers":         "erasers",
	"prepop":          "prepop",
	"value-size":      "value_size",
	"impl":            "impl",
	"rate":            "rate",
	"metrics-addr":    "metrics_addr",
	"shards":          "table.shards",
	"slots-per-shard": "table.slots_per_shard",
	"load-factor":     "table.max_load_factor",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	logger.SetDefault(log)
	log.Info("starting blkidx-bench", "version", buildinfo.Get().Version)

	ctx, stop := shutdown.Context(c.Context)
	defer stop()

	var hooks shutdown.Hooks
	defer func() {
		if err := hooks.Run(5 * time.Second); err != nil {
			log.Error("cleanup error", "error", err)
		}
	}()

	if path := c.String("config"); path != "" {
		w, err := watchLogLevel(path, log)
		if err != nil {
			log.Warn("config watcher unavailable", "error", err)
		} else {
			hooks.Add(func(context.Context) error { return w.Stop() })
		}
	}

	metrics := metric.NewRegistry()
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, metrics, log)
		hooks.Add(srv.Shutdown)
	}

	impls := []string{cfg.Impl}
	if c.Bool("compare") {
		impls = []string{config.ImplLocked, config.ImplSharded}
	}

	for _, impl := range impls {
		if ctx.Err() != nil {
			break
		}
		runCfg := *cfg
		runCfg.Impl = impl

		runner, err := bench.New(&runCfg, log, metrics)
		if err != nil {
			return err
		}
		res, err := runner.Run(ctx)
		if err != nil {
			return fmt.Errorf("run %s: %w", impl, err)
		}
		if err := printResult(c, res); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig merges defaults, the optional YAML file, BLKIDX_*
// environment variables, and explicitly set flags, in that order.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	overrides := map[string]any{}
	for flag, key := range flagKeys {
		if c.IsSet(flag) {
			overrides[key] = c.Value(flag)
		}
	}
	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// watchLogLevel re-reads the configuration file on change and applies
// the log level, so a long run's verbosity can be adjusted live.
func watchLogLevel(path string, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(path)
	if err != nil {
		return nil, err
	}
	w.OnChange(func(string) { applyLogLevel(path, log) })
	w.StartAsync()
	return w, nil
}

func applyLogLevel(path string, log logger.Logger) {
	fresh := config.Default()
	if err := confloader.NewLoader(confloader.WithConfigFile(path)).Load(fresh); err != nil {
		log.Warn("config reload failed", "error", err)
		return
	}
	if fresh.Log.Level == logger.GetLevel() {
		return
	}
	if !logger.ValidLevel(fresh.Log.Level) {
		log.Warn("ignoring unrecognized log level", "level", fresh.Log.Level)
		return
	}
	logger.SetLevel(fresh.Log.Level)
	log.Info("log level changed", "level", fresh.Log.Level)
}

func serveMetrics(addr string, metrics *metric.Registry, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info("metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	return srv
}

func printResult(c *cli.Context, res *bench.Result) error {
	switch c.String("output") {
	case "json":
		out, err := res.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, out)
	default:
		fmt.Fprint(c.App.Writer, res.Text())
	}
	return nil
}
