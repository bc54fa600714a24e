// Package timeouts provides centralized timeout values for handler and
// backend operations.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
)

// Config holds timeout values. Zero fields leave the current value alone.
type Config struct {
	// Ping bounds health checks.
	Ping time.Duration
	// Short bounds single-document reads and writes.
	Short time.Duration
	// Medium bounds slug allocation, which may probe the store many times.
	Medium time.Duration
}

var (
	mu      sync.RWMutex
	current = Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium}
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Ping
}

// Short returns the timeout for single-document operations.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Short
}

// Medium returns the timeout for multi-probe operations.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Medium
}

// Configure overrides the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		current.Ping = cfg.Ping
	}
	if cfg.Short > 0 {
		current.Short = cfg.Short
	}
	if cfg.Medium > 0 {
		current.Medium = cfg.Medium
	}
}

// Reset restores all timeouts to defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium}
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// WithTimeout derives a context with timeout whose cancel func logs when
// the deadline was hit.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout))
		}
		cancel()
	}
}
