// Package shutdown provides signal handling and cleanup hooks.
//
// A benchmark run normally ends when its deadline elapses, but an
// interrupted run should still stop cleanly: the run context is
// canceled on SIGINT/SIGTERM and registered hooks (metrics server,
// watchers) execute on the way out either way.
package shutdown

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Context returns a copy of parent that is canceled on SIGINT or
// SIGTERM. The returned stop function releases the signal handler.
func Context(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Hooks is an ordered set of cleanup functions.
type Hooks struct {
	mu    sync.Mutex
	hooks []func(context.Context) error
}

// Add registers a cleanup hook. Hooks run in reverse order of
// registration, mirroring startup order.
func (h *Hooks) Add(hook func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Run executes all hooks in reverse order under one timeout and
// returns the last error encountered. Every hook runs even when an
// earlier one fails.
func (h *Hooks) Run(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]func(context.Context) error, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var lastErr error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
