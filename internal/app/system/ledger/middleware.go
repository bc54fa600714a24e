// internal/app/system/ledger/middleware.go
//
// Package ledger records one structured log line per HTTP request: method,
// path, status, size, duration, client IP and a request ID that is echoed
// back in the X-Request-ID response header.
package ledger

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

// maxClientRequestID bounds a client-supplied request ID.
const maxClientRequestID = 128

type ctxKey int

const ctxKeyRequestID ctxKey = iota

// Config holds configuration for the ledger middleware.
type Config struct {
	Logger *zap.Logger

	// ExcludePaths is a list of path prefixes that are not logged.
	ExcludePaths []string

	// OnlyPaths restricts logging to these prefixes. Empty logs everything
	// not excluded.
	OnlyPaths []string
}

// DefaultConfig skips health probes and the favicon.
func DefaultConfig(logger *zap.Logger) Config {
	return Config{
		Logger: logger,
		ExcludePaths: []string{
			"/health",
			"/ready",
			"/readyz",
			"/livez",
			"/favicon.ico",
		},
	}
}

// RequestID returns the ID the middleware assigned to the request, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// Middleware returns HTTP middleware that logs each request once it completes.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.logs(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			requestID := r.Header.Get(HeaderRequestID)
			if requestID == "" || len(requestID) > maxClientRequestID {
				requestID = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, requestID)
			r = r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, requestID))

			start := time.Now()
			wrapped := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", wrapped.statusCode),
				zap.Int64("bytes", wrapped.bytesWritten),
				zap.Duration("duration", time.Since(start)),
				zap.String("ip", clientIP(r)),
			}
			if class := errorClass(wrapped.statusCode); class != "" {
				fields = append(fields, zap.String("error_class", class))
			}

			if wrapped.statusCode >= http.StatusInternalServerError {
				cfg.Logger.Warn("request", fields...)
				return
			}
			cfg.Logger.Info("request", fields...)
		})
	}
}

func (cfg Config) logs(path string) bool {
	for _, prefix := range cfg.ExcludePaths {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	if len(cfg.OnlyPaths) == 0 {
		return true
	}
	for _, prefix := range cfg.OnlyPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// errorClass buckets error statuses for log filtering.
func errorClass(status int) string {
	switch {
	case status < 400:
		return ""
	case status == http.StatusBadRequest:
		return "validation"
	case status == http.StatusNotFound:
		return "not_found"
	case status >= 500:
		return "internal"
	default:
		return "client_error"
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code and bytes written.
type responseWrapper struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func (rw *responseWrapper) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWrapper) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Flush implements http.Flusher.
func (rw *responseWrapper) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection address without its port.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
