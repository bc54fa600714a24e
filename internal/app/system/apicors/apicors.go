// Package apicors provides CORS middleware for the document API.
//
// The API carries no cookies or credentials, so it can be opened to any
// origin; deployments that embed the editor on known hosts can restrict it.
package apicors

import (
	"net/http"
	"strings"
)

const (
	allowMethods = "GET, POST, PUT, OPTIONS"
	allowHeaders = "Content-Type, Accept"
	maxAge       = "86400" // 24 hours
)

// Middleware allows any origin, without credentials, and answers preflight
// OPTIONS requests itself.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			writeCommon(w)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MiddlewareWithOrigins echoes the Origin header only for allowed origins.
// Other origins get no Allow-Origin header and the browser blocks them.
func MiddlewareWithOrigins(allowedOrigins ...string) func(http.Handler) http.Handler {
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := originSet[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
				}
			}
			writeCommon(w)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FromList picks Middleware for an empty list (or "*") and
// MiddlewareWithOrigins otherwise. list is comma-separated.
func FromList(list string) func(http.Handler) http.Handler {
	var origins []string
	for _, o := range strings.Split(list, ",") {
		o = strings.TrimSpace(o)
		if o == "*" {
			return Middleware()
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return Middleware()
	}
	return MiddlewareWithOrigins(origins...)
}

func writeCommon(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Methods", allowMethods)
	w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
	w.Header().Set("Access-Control-Max-Age", maxAge)
}
