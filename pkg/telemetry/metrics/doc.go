// Package metrics exports layoutd's Prometheus metrics.
//
// A single Collector registers every metric on its own registry and exposes
// them through Handler. Components hold an optional *Collector: every Record
// method is a no-op on a nil Collector or when metrics are disabled.
//
// # Metrics
//
// Parsing:
//   - layoutd_parses_total{result}
//   - layoutd_parse_duration_seconds{result}
//   - layoutd_parsed_objects_total{type}
//   - layoutd_omitted_items_total
//
// Lookups:
//   - layoutd_lookups_total{kind,result}
//
// API server:
//   - layoutd_http_requests_total{method,route,status}
//   - layoutd_http_request_duration_seconds{method,route}
//   - layoutd_http_requests_in_flight
//   - layoutd_open_documents
//
// Store:
//   - layoutd_store_operations_total{operation,result}
//   - layoutd_store_documents
//   - layoutd_retention_runs_total{result}
//   - layoutd_retention_deleted_total
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
//	collector.RecordParse(metrics.ParseResultOK, stats.Duration, counts, stats.Omitted)
//
// HTTP route labels pass through a CardinalityLimiter; label sets past the
// limit are recorded under route "other".
package metrics
