package middleware

import (
	"net/http"
	"strings"
)

// apiCSP forbids every resource load; API responses are JSON only.
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// SecurityHeaders sets response headers for the JSON API. Profiling pages
// under /debug/ are HTML and only get the headers that do not break them.
func SecurityHeaders() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "no-referrer")

			if !strings.HasPrefix(r.URL.Path, "/debug/") {
				h.Set("Content-Security-Policy", apiCSP)
				h.Set("X-Frame-Options", "DENY")
				// Predictions are computed per request
				h.Set("Cache-Control", "no-store")
			}

			next.ServeHTTP(w, r)
		})
	}
}
