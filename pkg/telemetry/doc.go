// Package telemetry groups the observability packages used by layoutd.
//
// # Components
//
//   - logging: log/slog wrapper with a runtime-adjustable level and request
//     and document ids pulled from the context
//   - metrics: Prometheus collectors for parses, lookups, HTTP requests and
//     the document store
//   - tracing: OpenTelemetry spans around worker requests and HTTP handlers
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	cfg := config.GetConfig()
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//	    return err
//	}
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
// A nil *metrics.Collector and a disabled tracer are both valid and record
// nothing, so components never need to check whether telemetry is on.
package telemetry
