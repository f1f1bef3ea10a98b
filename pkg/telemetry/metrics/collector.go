package metrics

import (
	"fmt"
	"sync"
	"time"

	"webviz-hq/layoutd/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Parse results used as the "result" label of parse metrics.
const (
	ParseResultOK        = "ok"
	ParseResultRecovered = "recovered"
	ParseResultFailed    = "failed"
)

// Collector owns every Prometheus metric exported by layoutd and is the
// single entry point components record through.
//
// All Record methods are no-ops on a nil Collector or when metrics are
// disabled, so components can take an optional *Collector.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	parseMetrics  *ParseMetrics
	lookupMetrics *LookupMetrics
	httpMetrics   *HTTPMetrics
	storeMetrics  *StoreMetrics

	// Cardinality tracking for HTTP label sets
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Namespace: "layoutd"}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.ParseDurationBuckets) == 0 {
		cfg.ParseDurationBuckets = config.DefaultParseDurationBuckets
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = config.DefaultRequestDurationBuckets
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}

	c.parseMetrics = NewParseMetrics(cfg, registry)
	c.lookupMetrics = NewLookupMetrics(cfg, registry)
	c.httpMetrics = NewHTTPMetrics(cfg, registry)
	c.storeMetrics = NewStoreMetrics(cfg, registry)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordParse records one completed parse.
//
// Parameters:
//   - result: ParseResultOK, ParseResultRecovered or ParseResultFailed
//   - duration: Wall time of the parse
//   - objects: Number of parsed objects keyed by object type
//   - omitted: Number of layout items that matched no shape
func (c *Collector) RecordParse(result string, duration time.Duration, objects map[string]int, omitted int) {
	if !c.enabled() {
		return
	}
	c.parseMetrics.RecordParse(result, duration, objects, omitted)
}

// RecordLookup records a closest-object, closest-page or id lookup.
//
// Parameters:
//   - kind: "object", "page" or "id"
//   - found: Whether the lookup matched
func (c *Collector) RecordLookup(kind string, found bool) {
	if !c.enabled() {
		return
	}
	c.lookupMetrics.RecordLookup(kind, found)
}

// RecordHTTPRequest records a completed API request.
//
// Parameters:
//   - method: HTTP method
//   - route: Route pattern (not the raw path)
//   - status: HTTP status code
//   - duration: Time spent handling the request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}

	// Check cardinality limit
	labelSet := fmt.Sprintf("http:%s:%s:%d", method, route, status)
	if !c.cardinalityLimiter.Allow(labelSet) {
		// Aggregate into "other" to prevent cardinality explosion
		route = "other"
	}

	c.httpMetrics.RecordRequest(method, route, status, duration)
}

// HTTPInFlight adjusts the number of requests currently being served.
func (c *Collector) HTTPInFlight(delta int) {
	if !c.enabled() {
		return
	}
	c.httpMetrics.inFlight.Add(float64(delta))
}

// SetOpenDocuments sets the number of documents held by parse workers.
func (c *Collector) SetOpenDocuments(n int) {
	if !c.enabled() {
		return
	}
	c.httpMetrics.openDocuments.Set(float64(n))
}

// RecordStoreOperation records a document store call.
//
// Parameters:
//   - operation: "put", "get", "delete", "list" or "prune"
//   - err: The error returned by the store, nil on success
func (c *Collector) RecordStoreOperation(operation string, err error) {
	if !c.enabled() {
		return
	}
	c.storeMetrics.RecordOperation(operation, err)
}

// SetStoredDocuments sets the number of documents in the store.
func (c *Collector) SetStoredDocuments(n int) {
	if !c.enabled() {
		return
	}
	c.storeMetrics.documents.Set(float64(n))
}

// RecordRetentionRun records a retention pass that deleted n documents.
func (c *Collector) RecordRetentionRun(deleted int, err error) {
	if !c.enabled() {
		return
	}
	c.storeMetrics.RecordRetention(deleted, err)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether a label set may be recorded. Known label sets are
// always allowed; new ones only while the limit has not been reached.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
