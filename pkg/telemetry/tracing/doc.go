// Package tracing provides OpenTelemetry tracing for layoutd.
//
// Spans are exported over OTLP gRPC. Incoming API requests continue the
// caller's trace through W3C Trace Context headers (traceparent, tracestate).
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "layout.parse")
//	defer span.End()
//	tracing.SetParseAttributes(span, stats.Recoveries, stats.Omitted, doc.Len(), stats.Failed)
//
// With tracing disabled New returns a noop Tracer, and a nil *Tracer is
// also safe to use.
//
// # Sampling
//
//   - always: Sample all traces
//   - never: Sample no traces
//   - ratio: Sample a fraction of traces by trace id (sample_ratio)
//
// A sampled parent always wins over the local strategy.
package tracing
