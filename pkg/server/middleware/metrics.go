package middleware

import (
	"net/http"
	"time"

	"webviz-hq/layoutd/pkg/telemetry/metrics"
)

// MetricsMiddleware counts requests and their latency by method, route
// pattern and status, and tracks requests in flight. routeOf maps a request
// to its route pattern so raw ids never become label values.
func MetricsMiddleware(collector *metrics.Collector, routeOf func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			collector.HTTPInFlight(1)
			defer collector.HTTPInFlight(-1)

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			collector.RecordHTTPRequest(r.Method, routeOf(r), rw.statusCode, time.Since(start))
		})
	}
}
