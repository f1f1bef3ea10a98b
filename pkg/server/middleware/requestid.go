package middleware

import (
	"net/http"

	"webviz-hq/layoutd/pkg/telemetry/logging"
	"webviz-hq/layoutd/pkg/telemetry/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const (
	// RequestIDHeader is the HTTP header for request ID.
	RequestIDHeader = "X-Request-ID"

	// maxRequestIDLength bounds client supplied ids before they reach logs.
	maxRequestIDLength = 128
)

// RequestIDMiddleware assigns each request an id, taken from the
// X-Request-ID header when the client sends one and a UUID v4 otherwise.
// The id is stored in the context for logging, echoed in the response
// header and recorded on the active span.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)
		tracing.SetRequestID(trace.SpanFromContext(ctx), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
