package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/globalsolution/ecoprev/internal/tracking"
)

func Recovery(logger *slog.Logger, tracker *tracking.Tracker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("panic recovered",
						"error", err,
						"stack", string(debug.Stack()),
						"method", r.Method,
						"path", r.URL.Path,
						"request_id", GetRequestID(r.Context()),
					)
					tracker.Recover(r, err)

					writeError(w, http.StatusInternalServerError, fmt.Sprint(err))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
