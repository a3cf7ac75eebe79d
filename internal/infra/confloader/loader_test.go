package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Impl  string `koanf:"impl"`
	Table struct {
		Shards int `koanf:"shards"`
	} `koanf:"table"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "bench.yaml", "impl: locked\ntable:\n  shards: 64\n")

	var cfg testConfig
	l := NewLoader(WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Impl != "locked" {
		t.Errorf("impl = %q, want %q", cfg.Impl, "locked")
	}
	if cfg.Table.Shards != 64 {
		t.Errorf("table.shards = %d, want 64", cfg.Table.Shards)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg testConfig
	l := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")))
	if err := l.Load(&cfg); err == nil {
		t.Fatal("Load with missing file succeeded, want error")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "bench.yaml", "impl: locked\n")
	t.Setenv("BLKIDX_IMPL", "sharded")

	var cfg testConfig
	l := NewLoader(WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Impl != "sharded" {
		t.Errorf("impl = %q, want env override %q", cfg.Impl, "sharded")
	}
}

func TestEnvPrefix(t *testing.T) {
	t.Setenv("CUSTOM_IMPL", "locked")
	t.Setenv("BLKIDX_IMPL", "sharded")

	var cfg testConfig
	l := NewLoader(WithEnvPrefix("CUSTOM_"))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Impl != "locked" {
		t.Errorf("impl = %q, want %q from CUSTOM_ prefix", cfg.Impl, "locked")
	}
}

func TestLoadMapOutranksAll(t *testing.T) {
	path := writeFile(t, "bench.yaml", "table:\n  shards: 8\n")
	t.Setenv("BLKIDX_TABLE_SHARDS", "16")

	var cfg testConfig
	l := NewLoader(WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := l.LoadMap(map[string]any{"table.shards": 32}); err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.Table.Shards != 32 {
		t.Errorf("table.shards = %d, want flag override 32", cfg.Table.Shards)
	}
}

func TestMapProviderNestedKeys(t *testing.T) {
	out, err := mapProvider{"table.shards": 32, "impl": "locked"}.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	table, ok := out["table"].(map[string]any)
	if !ok {
		t.Fatalf("table = %#v, want nested map", out["table"])
	}
	if table["shards"] != 32 {
		t.Errorf("table.shards = %v, want 32", table["shards"])
	}
	if out["impl"] != "locked" {
		t.Errorf("impl = %v, want %q", out["impl"], "locked")
	}
}

func TestWatcher(t *testing.T) {
	path := writeFile(t, "bench.yaml", "impl: sharded\n")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	changed := make(chan string, 1)
	w.OnChange(func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	w.StartAsync()

	// fsnotify needs a moment to arm on some platforms.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("impl: locked\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification within 5s")
	}
}
