package middleware

import (
	"net/http"

	"github.com/globalsolution/ecoprev/internal/prediction"
)

// MaxBodySize is the default request body limit.
const MaxBodySize = 1 << 20

// MaxBody caps request bodies at maxSize bytes (MaxBodySize when <= 0).
// A declared Content-Length over the cap is rejected with 400 before the
// handler runs; chunked bodies fail on read inside the handler.
func MaxBody(maxSize int64) Middleware {
	if maxSize <= 0 {
		maxSize = MaxBodySize
	}
	tooLarge := (&prediction.InvalidPayloadError{Err: &http.MaxBytesError{Limit: maxSize}}).Error()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxSize {
				writeError(w, http.StatusBadRequest, tooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			next.ServeHTTP(w, r)
		})
	}
}
