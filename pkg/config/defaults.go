package config

import "time"

// Default values for configuration fields.
const (
	// Parser defaults
	DefaultIDStrategy          = "stable"
	DefaultMaxRecoveryAttempts = 8

	// Worker defaults
	DefaultWorkerQueueSize = 16
	DefaultWorkerDebounce  = 200 * time.Millisecond

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8484"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRequestTimeout  = 5 * time.Second
	DefaultMaxBodyBytes    = int64(4 << 20) // 4MB
	DefaultMaxDocuments    = 256
	DefaultCORSMaxAge      = 3600

	// Store defaults
	DefaultStoreBackend       = "memory"
	DefaultSQLitePath         = "data/layoutd.db"
	DefaultSQLiteMaxOpenConns = 4
	DefaultSQLiteBusyTimeout  = 5 * time.Second
	DefaultRetentionEnabled   = false
	DefaultRetentionSchedule  = "0 3 * * *"
	DefaultRetentionMaxAge    = 30 * 24 * time.Hour

	// Watch defaults
	DefaultWatchDebounce = 200 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultMetricsEnabled       = true
	DefaultPrometheusPath       = "/metrics"
	DefaultMetricsNamespace     = "layoutd"
	DefaultTracingEnabled       = false
	DefaultTracingSampler       = "ratio"
	DefaultTracingSamplingRatio = 1.0
	DefaultTracingServiceName   = "layoutd"
	DefaultTracingOTLPInsecure  = true
	DefaultTracingOTLPTimeout   = 10 * time.Second
)

// DefaultParseDurationBuckets covers editor-sized documents (0.5ms to 250ms).
var DefaultParseDurationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25}

// DefaultRequestDurationBuckets covers API request latencies (1ms to 5s).
var DefaultRequestDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0}

// Default returns a configuration with every field set to its default.
// Boolean fields that default to true are only set here: YAML is decoded on
// top of this value, so an explicit "false" in a file survives.
func Default() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.OTLP.Insecure = DefaultTracingOTLPInsecure
	cfg.Store.Retention.Enabled = DefaultRetentionEnabled
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-valued field of cfg with its default.
func ApplyDefaults(cfg *Config) {
	// Parser defaults
	if cfg.Parser.IDStrategy == "" {
		cfg.Parser.IDStrategy = DefaultIDStrategy
	}
	if cfg.Parser.MaxRecoveryAttempts == 0 {
		cfg.Parser.MaxRecoveryAttempts = DefaultMaxRecoveryAttempts
	}

	// Worker defaults
	if cfg.Worker.QueueSize == 0 {
		cfg.Worker.QueueSize = DefaultWorkerQueueSize
	}
	if cfg.Worker.Debounce == 0 {
		cfg.Worker.Debounce = DefaultWorkerDebounce
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Server.MaxDocuments == 0 {
		cfg.Server.MaxDocuments = DefaultMaxDocuments
	}
	applyCORSDefaults(&cfg.Server.CORS)

	// Store defaults
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Store.SQLite.MaxOpenConns == 0 {
		cfg.Store.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if cfg.Store.SQLite.BusyTimeout == 0 {
		cfg.Store.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Store.Retention.Schedule == "" {
		cfg.Store.Retention.Schedule = DefaultRetentionSchedule
	}
	if cfg.Store.Retention.MaxAge == 0 {
		cfg.Store.Retention.MaxAge = DefaultRetentionMaxAge
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	// Telemetry defaults
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Metrics.ParseDurationBuckets) == 0 {
		cfg.Metrics.ParseDurationBuckets = append([]float64(nil), DefaultParseDurationBuckets...)
	}
	if len(cfg.Metrics.RequestDurationBuckets) == 0 {
		cfg.Metrics.RequestDurationBuckets = append([]float64(nil), DefaultRequestDurationBuckets...)
	}

	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingSamplingRatio
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Tracing.OTLP.Timeout == 0 {
		cfg.Tracing.OTLP.Timeout = DefaultTracingOTLPTimeout
	}
}

func applyCORSDefaults(cfg *CORSConfig) {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = []string{"GET", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if len(cfg.ExposedHeaders) == 0 {
		cfg.ExposedHeaders = []string{"X-Request-ID", "X-Trace-ID"}
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = DefaultCORSMaxAge
	}
}
