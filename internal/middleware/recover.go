package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/diewo77/go-safety/httpx"
)

// Recover turns a panic into a 500 JSON error and logs the stack.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic serving request",
					"method", r.Method, "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
				if !sw.wrote {
					httpx.JSONError(sw, http.StatusInternalServerError, "internal_error", nil)
				}
			}()
			next.ServeHTTP(sw, r)
		})
	}
}
