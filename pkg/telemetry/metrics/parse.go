package metrics

import (
	"time"

	"webviz-hq/layoutd/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ParseMetrics tracks layout parsing.
//
// Metrics:
//   - layoutd_parses_total: Parses by result (ok, recovered, failed)
//   - layoutd_parse_duration_seconds: Parse duration histogram by result
//   - layoutd_parsed_objects_total: Objects produced by type
//   - layoutd_omitted_items_total: Layout items that matched no shape
type ParseMetrics struct {
	parsesTotal   *prometheus.CounterVec
	parseDuration *prometheus.HistogramVec
	objectsTotal  *prometheus.CounterVec
	omittedTotal  prometheus.Counter
}

// NewParseMetrics creates and registers parse metrics with the provided registry.
func NewParseMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ParseMetrics {
	pm := &ParseMetrics{
		parsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parses_total",
				Help:      "Total number of layout parses",
			},
			[]string{"result"},
		),

		parseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parse_duration_seconds",
				Help:      "Duration of layout parses in seconds",
				Buckets:   cfg.ParseDurationBuckets,
			},
			[]string{"result"},
		),

		objectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parsed_objects_total",
				Help:      "Total number of objects produced by parses",
			},
			[]string{"type"},
		),

		omittedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "omitted_items_total",
				Help:      "Total number of layout items dropped because they matched no shape",
			},
		),
	}

	registry.MustRegister(
		pm.parsesTotal,
		pm.parseDuration,
		pm.objectsTotal,
		pm.omittedTotal,
	)

	return pm
}

// RecordParse records one parse.
func (pm *ParseMetrics) RecordParse(result string, duration time.Duration, objects map[string]int, omitted int) {
	pm.parsesTotal.WithLabelValues(result).Inc()
	pm.parseDuration.WithLabelValues(result).Observe(duration.Seconds())

	for typ, n := range objects {
		if n > 0 {
			pm.objectsTotal.WithLabelValues(typ).Add(float64(n))
		}
	}
	if omitted > 0 {
		pm.omittedTotal.Add(float64(omitted))
	}
}
