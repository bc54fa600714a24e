// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/AashishRichhariya/openleaf/internal/app/features/documentapi"
	healthfeature "github.com/AashishRichhariya/openleaf/internal/app/features/health"
	pagesfeature "github.com/AashishRichhariya/openleaf/internal/app/features/pages"
	"github.com/AashishRichhariya/openleaf/internal/app/system/apicors"
	"github.com/AashishRichhariya/openleaf/internal/app/system/ledger"
	"github.com/AashishRichhariya/openleaf/internal/app/system/lifecycle"
	"github.com/AashishRichhariya/openleaf/internal/app/system/pagecache"
	"github.com/AashishRichhariya/openleaf/internal/app/system/revalidate"
	"github.com/AashishRichhariya/openleaf/internal/app/system/slug"
	"github.com/AashishRichhariya/openleaf/internal/app/system/slugalloc"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. Routes:
//   - /api/*      document JSON API (permissive or configured CORS)
//   - /health/*   health checks, plus /ready, /readyz, /livez
//   - /           redirect to a new document
//   - /{slug}     document page snapshot
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	cache := sharedPageCache(appCfg)
	svc := newLifecycle(appCfg, deps, cache, logger)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Access log with request IDs; health probes are skipped.
	r.Use(ledger.Middleware(ledger.DefaultConfig(logger)))

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// ─────────────────────────────────────────────────────────────────────────────
	// Document API
	// ─────────────────────────────────────────────────────────────────────────────

	// The API sets its own CORS headers, so the core CORS middleware only
	// covers the page routes.
	apiHandler := documentapi.NewHandler(svc, logger)
	r.Mount("/api", documentapi.Routes(apiHandler, apicors.FromList(appCfg.CORSOrigins)))

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(map[string]healthfeature.Pinger{
		appCfg.StoreBackend: deps.Documents,
	}, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// ─────────────────────────────────────────────────────────────────────────────
	// Pages
	// ─────────────────────────────────────────────────────────────────────────────

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.CORSFromConfig(coreCfg))
		pr.Mount("/", pagesfeature.Routes(pagesfeature.NewHandler(svc, cache, logger)))
	})

	return r, nil
}

// newLifecycle assembles the document service: slug allocation over the
// store, and revalidation of the local page cache plus, with Redis, every
// other instance's.
func newLifecycle(appCfg AppConfig, deps DBDeps, cache *pagecache.Cache, logger *zap.Logger) *lifecycle.Service {
	alloc := slugalloc.New(slug.Default(), deps.Documents, logger)

	reval := revalidate.Fanout{cache}
	if deps.Redis != nil {
		reval = append(reval, revalidate.NewRedisPublisher(deps.Redis, appCfg.RevalidateChannel, logger))
	}

	return lifecycle.New(deps.Documents, alloc, logger,
		lifecycle.WithRevalidator(reval),
		lifecycle.WithMaxAttempts(appCfg.SlugMaxAttempts),
	)
}
