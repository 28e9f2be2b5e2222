package middleware

import (
	"net/http"
	"time"

	"github.com/globalsolution/ecoprev/internal/metrics"
)

// Metrics records request count and latency per matched route pattern.
func Metrics(m *metrics.Metrics) Middleware {
	if m == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := wrap(w)
			next.ServeHTTP(rw, r)

			// The mux fills in Pattern on this same request.
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(route, r.Method, rw.status, time.Since(start))
		})
	}
}
