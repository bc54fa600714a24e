package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	documentstore "github.com/AashishRichhariya/openleaf/internal/app/store/documents"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func healthyChecks() map[string]Pinger {
	return map[string]Pinger{
		"documents:memory": documentstore.New(documentstore.NewMemory(), zap.NewNop()),
	}
}

func failingChecks() map[string]Pinger {
	checks := healthyChecks()
	checks["revalidate:redis"] = PingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })
	return checks
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestHandler_Check(t *testing.T) {
	h := NewHandler(healthyChecks(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Check() status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decode(t, rec)
	if resp.Status != "ok" {
		t.Errorf("response status = %q, want %q", resp.Status, "ok")
	}
	if resp.Services["documents:memory"] != "ok" {
		t.Errorf("documents status = %q, want ok", resp.Services["documents:memory"])
	}
}

func TestHandler_Check_Degraded(t *testing.T) {
	h := NewHandler(failingChecks(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Check() status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	resp := decode(t, rec)
	if resp.Status != "degraded" {
		t.Errorf("response status = %q, want degraded", resp.Status)
	}
	if resp.Services["revalidate:redis"] != "unavailable" || resp.Services["documents:memory"] != "ok" {
		t.Errorf("services = %v", resp.Services)
	}
}

func TestHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantBody   string
	}{
		{"ready", healthyChecks(), http.StatusOK, "ready"},
		{"not ready", failingChecks(), http.StatusServiceUnavailable, "not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.checks, zap.NewNop())
			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("Ready() status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if resp := decode(t, rec); resp.Status != tt.wantBody {
				t.Errorf("Ready() status field = %q, want %q", resp.Status, tt.wantBody)
			}
		})
	}
}

func TestHandler_Live(t *testing.T) {
	// Live checks nothing, so a failing dependency does not matter.
	h := NewHandler(failingChecks(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Live() status = %d, want %d", rec.Code, http.StatusOK)
	}
	if resp := decode(t, rec); resp.Status != "alive" {
		t.Errorf("Live() status field = %q, want alive", resp.Status)
	}
}

func TestMountRootEndpoints(t *testing.T) {
	h := NewHandler(healthyChecks(), zap.NewNop())
	r := chi.NewRouter()
	MountRootEndpoints(r, h)
	r.Mount("/health", Routes(h))

	for _, path := range []string{"/ready", "/readyz", "/livez", "/health", "/health/ready", "/health/live"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
	}
}
