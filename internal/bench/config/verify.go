package config

import (
	"errors"
	"fmt"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if cfg.Duration <= 0 {
		return errors.New("duration must be positive")
	}
	if cfg.Writers < 0 || cfg.Readers < 0 || cfg.Erasers < 0 {
		return errors.New("worker counts must not be negative")
	}
	if cfg.Writers+cfg.Readers+cfg.Erasers == 0 {
		return errors.New("at least one worker is required")
	}
	if cfg.Prepop < 0 {
		return errors.New("prepop must not be negative")
	}
	if cfg.Readers > 0 && cfg.Prepop == 0 {
		return errors.New("readers require a prepopulated key range")
	}
	if cfg.ValueSize < 1 {
		return errors.New("value_size must be at least 1")
	}
	if cfg.Rate < 0 {
		return errors.New("rate must not be negative")
	}
	switch cfg.Impl {
	case ImplSharded, ImplLocked:
	default:
		return fmt.Errorf("impl must be %q or %q, got %q", ImplSharded, ImplLocked, cfg.Impl)
	}
	if err := verifyTable(&cfg.Table); err != nil {
		return err
	}
	return nil
}

func verifyTable(cfg *TableSection) error {
	if cfg.Shards < 1 {
		return errors.New("table.shards must be at least 1")
	}
	if cfg.SlotsPerShard < 1 {
		return errors.New("table.slots_per_shard must be at least 1")
	}
	if cfg.MaxLoadFactor <= 0 {
		return errors.New("table.max_load_factor must be positive")
	}
	return nil
}
