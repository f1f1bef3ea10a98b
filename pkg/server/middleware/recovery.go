package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"webviz-hq/layoutd/pkg/server/types"
	"webviz-hq/layoutd/pkg/telemetry/logging"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a 500
// error envelope. The panic is logged with its stack trace; clients never
// see internal details.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.ErrorContext(r.Context(), "panic in handler",
						"error", err,
						"request_id", logging.GetRequestID(r.Context()),
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					types.WriteError(w, types.NewServerError(
						"An internal error occurred. Please try again later.",
					))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
