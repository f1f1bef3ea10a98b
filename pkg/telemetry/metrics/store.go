package metrics

import (
	"webviz-hq/layoutd/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics tracks the document store and its retention scheduler.
//
// Metrics:
//   - layoutd_store_operations_total: Store calls by operation and result
//   - layoutd_store_documents: Documents currently persisted
//   - layoutd_retention_runs_total: Retention passes by result
//   - layoutd_retention_deleted_total: Documents removed by retention
type StoreMetrics struct {
	operationsTotal *prometheus.CounterVec
	documents       prometheus.Gauge
	retentionRuns   *prometheus.CounterVec
	retentionPruned prometheus.Counter
}

// NewStoreMetrics creates and registers store metrics with the provided registry.
func NewStoreMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *StoreMetrics {
	sm := &StoreMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "store_operations_total",
				Help:      "Total number of document store operations",
			},
			[]string{"operation", "result"},
		),

		documents: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "store_documents",
				Help:      "Number of documents in the store",
			},
		),

		retentionRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retention_runs_total",
				Help:      "Total number of retention passes",
			},
			[]string{"result"},
		),

		retentionPruned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retention_deleted_total",
				Help:      "Total number of documents deleted by retention",
			},
		),
	}

	registry.MustRegister(
		sm.operationsTotal,
		sm.documents,
		sm.retentionRuns,
		sm.retentionPruned,
	)

	return sm
}

// RecordOperation records one store call.
func (sm *StoreMetrics) RecordOperation(operation string, err error) {
	sm.operationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

// RecordRetention records one retention pass.
func (sm *StoreMetrics) RecordRetention(deleted int, err error) {
	sm.retentionRuns.WithLabelValues(resultLabel(err)).Inc()
	if deleted > 0 {
		sm.retentionPruned.Add(float64(deleted))
	}
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
