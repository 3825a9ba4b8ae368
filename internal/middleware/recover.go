package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/menezmethod/helpdesk/internal/apierror"
)

// Recover returns middleware that catches panics from handlers, logs the
// stack trace, and answers 500 instead of dropping the connection.
// http.ErrAbortHandler is re-raised so net/http can abort the response.
func Recover(logger *slog.Logger) Middleware {
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
						"request_id", RequestIDFromContext(r.Context()),
					)
					apierror.Write(w, apierror.Internal("500 Internal Server Error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
