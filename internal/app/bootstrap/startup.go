// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"sync"

	"github.com/AashishRichhariya/openleaf/internal/app/system/pagecache"
	"github.com/AashishRichhariya/openleaf/internal/app/system/revalidate"
	"github.com/AashishRichhariya/openleaf/internal/app/system/tasks"
	"github.com/AashishRichhariya/openleaf/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

var (
	// taskRunner is the global task runner instance, used for graceful shutdown.
	taskRunner *tasks.Runner

	// subscriber applies revalidations published by other instances.
	subscriber *revalidate.Subscriber

	pageCache     *pagecache.Cache
	pageCacheOnce sync.Once
)

// sharedPageCache returns the process-wide page snapshot cache.
func sharedPageCache(appCfg AppConfig) *pagecache.Cache {
	pageCacheOnce.Do(func() {
		pageCache = pagecache.New(appCfg.PageCacheTTL)
	})
	return pageCache
}

// Startup runs once after DB connections and schema setup are complete,
// but before the HTTP handler is built and requests are served.
//
// It subscribes to cross-instance revalidation when Redis is configured and
// starts the background jobs. Returning a non-nil error aborts startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	cache := sharedPageCache(appCfg)

	if deps.Redis != nil {
		subscriber = revalidate.NewSubscriber(deps.Redis, appCfg.RevalidateChannel, cache, logger)
		if err := subscriber.Start(ctx); err != nil {
			logger.Error("failed to subscribe to revalidation channel",
				zap.String("channel", appCfg.RevalidateChannel),
				zap.Error(err))
			subscriber = nil
			return err
		}
	}

	startTaskRunner(appCfg, deps, cache, logger)

	return nil
}

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(appCfg AppConfig, deps DBDeps, cache *pagecache.Cache, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	if appCfg.PageCacheTTL > 0 {
		taskRunner.Register(tasks.PageCacheSweepJob(cache, appCfg.PageCacheSweep, logger))
	}
	if appCfg.StoreWatchInterval > 0 {
		taskRunner.Register(tasks.StoreWatchJob(deps.Documents, appCfg.StoreWatchInterval, timeouts.Ping(), logger))
	}

	taskRunner.Start()
	logger.Info("background tasks started", zap.Strings("jobs", taskRunner.Names()))
}
