// internal/app/features/health/health.go
package health

import (
	"context"
	"net/http"
	"sort"

	"github.com/AashishRichhariya/openleaf/internal/app/system/jsonutil"
	"github.com/AashishRichhariya/openleaf/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Pinger is a dependency the service needs to serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping implements Pinger.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Handler provides health check endpoints.
type Handler struct {
	checks map[string]Pinger
	logger *zap.Logger
}

// NewHandler creates a health Handler over named dependency checks,
// e.g. {"documents:mongo": store}.
func NewHandler(checks map[string]Pinger, logger *zap.Logger) *Handler {
	return &Handler{checks: checks, logger: logger}
}

// Response represents the health check response.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes returns a chi.Router with health check routes mounted.
// Provides /health (full check), /health/ready, and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds the Kubernetes-style probes to the root router:
// /ready and /readyz for readiness, /livez for liveness.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// run pings every dependency and returns per-service status.
func (h *Handler) run(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	services := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			healthy = false
			services[name] = "unavailable"
			h.logger.Warn("health check failed", zap.String("service", name), zap.Error(err))
			continue
		}
		services[name] = "ok"
	}
	return services, healthy
}

// Check reports the status of every dependency.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	services, healthy := h.run(r.Context())
	resp := Response{Status: "ok", Services: services}
	status := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	jsonutil.JSON(w, status, resp)
}

// Ready reports whether the service can accept requests.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, healthy := h.run(r.Context()); !healthy {
		jsonutil.JSON(w, http.StatusServiceUnavailable, Response{Status: "not ready"})
		return
	}
	jsonutil.OK(w, Response{Status: "ready"})
}

// Live reports that the process is up. It checks no dependencies.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, Response{Status: "alive"})
}
