package ledger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestMiddleware_LogsRequest(t *testing.T) {
	logger, logs := newObserved()
	var seenID string
	h := Middleware(DefaultConfig(logger))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestID(r.Context())
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/documents/x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seenID == "" {
		t.Fatal("RequestID() empty inside handler")
	}
	if got := rec.Header().Get(HeaderRequestID); got != seenID {
		t.Errorf("response %s = %q, want %q", HeaderRequestID, got, seenID)
	}
	if logs.Len() != 1 {
		t.Fatalf("log entries = %d, want 1", logs.Len())
	}
	entry := logs.All()[0]
	fields := entry.ContextMap()
	if entry.Level != zapcore.InfoLevel {
		t.Errorf("level = %v, want info", entry.Level)
	}
	if fields["status"] != int64(404) || fields["bytes"] != int64(7) {
		t.Errorf("status/bytes = %v/%v, want 404/7", fields["status"], fields["bytes"])
	}
	if fields["error_class"] != "not_found" {
		t.Errorf("error_class = %v, want not_found", fields["error_class"])
	}
}

func TestMiddleware_ServerErrorWarns(t *testing.T) {
	logger, logs := newObserved()
	h := Middleware(DefaultConfig(logger))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/api/documents/x", nil))

	if logs.Len() != 1 || logs.All()[0].Level != zapcore.WarnLevel {
		t.Fatalf("entries = %v, want one warning", logs.All())
	}
}

func TestMiddleware_KeepsClientRequestID(t *testing.T) {
	logger, _ := newObserved()
	h := Middleware(DefaultConfig(logger))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/doc", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("%s = %q, want abc-123", HeaderRequestID, got)
	}
}

func TestMiddleware_PathFilters(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*zap.Logger) Config
		path string
		want int
	}{
		{"health excluded", DefaultConfig, "/health/ready", 0},
		{"page logged", DefaultConfig, "/hello-world", 1},
		{"only api skips pages", func(l *zap.Logger) Config {
			return Config{Logger: l, OnlyPaths: []string{"/api"}}
		}, "/hello-world", 0},
		{"only api logs api", func(l *zap.Logger) Config {
			return Config{Logger: l, OnlyPaths: []string{"/api"}}
		}, "/api/slugs", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := newObserved()
			h := Middleware(tt.cfg(logger))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))
			if logs.Len() != tt.want {
				t.Errorf("entries = %d, want %d", logs.Len(), tt.want)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name          string
		xForwardedFor string
		xRealIP       string
		remoteAddr    string
		want          string
	}{
		{name: "X-Forwarded-For single IP", xForwardedFor: "192.168.1.1", remoteAddr: "10.0.0.1:12345", want: "192.168.1.1"},
		{name: "X-Forwarded-For chain", xForwardedFor: "192.168.1.1, 10.0.0.2", remoteAddr: "10.0.0.1:12345", want: "192.168.1.1"},
		{name: "X-Real-IP", xRealIP: "192.168.1.1", remoteAddr: "10.0.0.1:12345", want: "192.168.1.1"},
		{name: "X-Forwarded-For wins", xForwardedFor: "192.168.1.1", xRealIP: "10.0.0.2", remoteAddr: "10.0.0.1:1", want: "192.168.1.1"},
		{name: "RemoteAddr with port", remoteAddr: "192.168.1.1:12345", want: "192.168.1.1"},
		{name: "IPv6 RemoteAddr", remoteAddr: "[::1]:8080", want: "::1"},
		{name: "RemoteAddr without port", remoteAddr: "192.168.1.1", want: "192.168.1.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xForwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwardedFor)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
