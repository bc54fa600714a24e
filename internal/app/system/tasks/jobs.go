// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Sweeper evicts expired entries and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

// Pinger checks a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PageCacheSweepJob evicts expired page snapshots.
func PageCacheSweepJob(cache Sweeper, interval time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "pagecache-sweep",
		Interval: interval,
		Run: func(ctx context.Context) error {
			if n := cache.Sweep(); n > 0 {
				logger.Debug("evicted expired page snapshots", zap.Int("evicted", n))
			}
			return nil
		},
	}
}

// StoreWatchJob pings the document backend and logs when it goes down or
// comes back, so an outage shows up in the logs before the first failed save.
func StoreWatchJob(store Pinger, interval, timeout time.Duration, logger *zap.Logger) Job {
	var down atomic.Bool
	return Job{
		Name:     "store-watch",
		Interval: interval,
		Run: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			err := store.Ping(pingCtx)
			switch {
			case err != nil && !down.Swap(true):
				logger.Warn("document backend unreachable", zap.Error(err))
			case err == nil && down.Swap(false):
				logger.Info("document backend reachable again")
			}
			return err
		},
	}
}
