package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set on layoutd spans. Custom keys use the "layoutd.*" namespace.
const (
	// Document attributes
	AttrDocumentID    = "layoutd.document.id"
	AttrDocumentBytes = "layoutd.document.bytes"

	// Parse attributes
	AttrParseRecoveries = "layoutd.parse.recoveries"
	AttrParseOmitted    = "layoutd.parse.omitted"
	AttrParseFailed     = "layoutd.parse.failed"
	AttrParseObjects    = "layoutd.parse.objects"

	// Lookup attributes
	AttrLineStart  = "layoutd.lines.start"
	AttrLineEnd    = "layoutd.lines.end"
	AttrObjectID   = "layoutd.object.id"
	AttrObjectType = "layoutd.object.type"

	// Request attributes
	AttrRequestID = "layoutd.request_id"

	// HTTP attributes
	AttrHTTPMethod = "http.method"
	AttrHTTPTarget = "http.target"

	// Error attributes
	AttrErrorMessage = "error.message"
)

func serverSpan() trace.SpanStartOption {
	return trace.WithSpanKind(trace.SpanKindServer)
}

// SetHTTPAttributes sets request attributes on a server span.
func SetHTTPAttributes(span trace.Span, method, target string) {
	span.SetAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPTarget, target),
	)
}

// SetDocumentAttributes sets the document id and, when known, the text size.
func SetDocumentAttributes(span trace.Span, documentID string, size int) {
	attrs := []attribute.KeyValue{attribute.String(AttrDocumentID, documentID)}
	if size >= 0 {
		attrs = append(attrs, attribute.Int(AttrDocumentBytes, size))
	}
	span.SetAttributes(attrs...)
}

// SetParseAttributes records the outcome of a parse.
//
// Example:
//
//	SetParseAttributes(span, stats.Recoveries, stats.Omitted, doc.Len(), stats.Failed)
func SetParseAttributes(span trace.Span, recoveries, omitted, objects int, failed bool) {
	span.SetAttributes(
		attribute.Int(AttrParseRecoveries, recoveries),
		attribute.Int(AttrParseOmitted, omitted),
		attribute.Int(AttrParseObjects, objects),
		attribute.Bool(AttrParseFailed, failed),
	)
}

// SetLookupAttributes records a line-range lookup and the object it found.
// objectID and objectType are empty when nothing matched.
func SetLookupAttributes(span trace.Span, start, end int, objectID, objectType string) {
	attrs := []attribute.KeyValue{
		attribute.Int(AttrLineStart, start),
		attribute.Int(AttrLineEnd, end),
	}
	if objectID != "" {
		attrs = append(attrs,
			attribute.String(AttrObjectID, objectID),
			attribute.String(AttrObjectType, objectType),
		)
	}
	span.SetAttributes(attrs...)
}

// SetRequestID records the API request id.
func SetRequestID(span trace.Span, requestID string) {
	if requestID != "" {
		span.SetAttributes(attribute.String(AttrRequestID, requestID))
	}
}
