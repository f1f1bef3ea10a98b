// Package middleware provides the HTTP middleware of the layoutd API.
//
// # Middleware Chain
//
// The server applies the middleware in this order, outermost first:
//
//	Recovery -> Tracing -> RequestID -> Logging -> Metrics -> CORS -> Timeout -> mux
//
// Tracing lives in package tracing (tracing.HTTPMiddleware) and runs before
// RequestID so the request id can be recorded on the server span.
//
// # Middleware Types
//
// Request tracking:
//   - RequestIDMiddleware: UUID v4 request id in context, logs, span and X-Request-ID
//   - LoggingMiddleware: method, path, status and latency of every request
//   - MetricsMiddleware: request counter, latency histogram and in-flight gauge
//
// Resilience:
//   - RecoveryMiddleware: recover from panics, return a 500 error envelope
//   - TimeoutMiddleware: per-request context deadline
//   - CORSMiddleware: Cross-Origin Resource Sharing for browser editors
package middleware
