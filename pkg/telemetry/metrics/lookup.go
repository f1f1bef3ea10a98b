package metrics

import (
	"webviz-hq/layoutd/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// LookupMetrics tracks position and id lookups against parsed documents.
//
// Metrics:
//   - layoutd_lookups_total: Lookups by kind (object, page, id) and result (hit, miss)
type LookupMetrics struct {
	lookupsTotal *prometheus.CounterVec
}

// NewLookupMetrics creates and registers lookup metrics with the provided registry.
func NewLookupMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *LookupMetrics {
	lm := &LookupMetrics{
		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "lookups_total",
				Help:      "Total number of document lookups",
			},
			[]string{"kind", "result"},
		),
	}

	registry.MustRegister(lm.lookupsTotal)

	return lm
}

// RecordLookup records one lookup.
func (lm *LookupMetrics) RecordLookup(kind string, found bool) {
	result := "miss"
	if found {
		result = "hit"
	}
	lm.lookupsTotal.WithLabelValues(kind, result).Inc()
}
