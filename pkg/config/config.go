package config

import "time"

// Config is the root configuration structure for layoutd.
// It contains the parser settings plus the sections used by the daemon
// and CLI: HTTP server, document store, file watching and telemetry.
type Config struct {
	// Parser contains layout parser configuration including the object
	// id strategy and syntax error recovery.
	Parser ParserConfig `yaml:"parser"`

	// Worker contains configuration for the per-document parse workers.
	Worker WorkerConfig `yaml:"worker"`

	// Server contains HTTP API server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Store contains configuration for persisting document text between
	// daemon restarts.
	Store StoreConfig `yaml:"store"`

	// Watch contains configuration for the file watcher used by "layoutd watch".
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ParserConfig contains configuration for the layout parser.
type ParserConfig struct {
	// IDStrategy selects how object ids are assigned.
	// Options: "stable" (derived from the structural path), "random"
	// Default: "stable"
	IDStrategy string `yaml:"id_strategy"`

	// MaxRecoveryAttempts is the number of times the parser retries on the
	// valid prefix of a document after a YAML syntax error.
	// A negative value disables recovery.
	// Default: 8
	MaxRecoveryAttempts int `yaml:"max_recovery_attempts"`
}

// WorkerConfig contains configuration for parse workers.
type WorkerConfig struct {
	// QueueSize is the number of requests that may wait for a worker.
	// Default: 16
	QueueSize int `yaml:"queue_size"`

	// Debounce is the quiet period before a burst of edits is parsed.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port for the API to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8484", "0.0.0.0:8484").
	// Default: "127.0.0.1:8484"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 60s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds the handling of a single API request.
	// Default: 5s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxBodyBytes is the largest document accepted by PUT requests.
	// Default: 4194304 (4MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// MaxDocuments is the maximum number of documents held in memory.
	// Default: 256
	MaxDocuments int `yaml:"max_documents"`

	// CORS contains Cross-Origin Resource Sharing configuration for browser
	// based editors calling the API.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are added.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is the list of allowed origins. Use ["*"] to allow all.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is the list of allowed HTTP methods.
	// Default: ["GET", "PUT", "DELETE", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is the list of allowed request headers.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is the list of response headers exposed to clients.
	// Default: ["X-Request-ID", "X-Trace-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether credentials are allowed.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// StoreConfig contains configuration for the document store.
type StoreConfig struct {
	// Backend selects the storage implementation.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite backend configuration.
	// Only used when Backend is "sqlite".
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention contains configuration for pruning stale documents.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/layoutd.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`

	// BusyTimeout is how long a writer waits for a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig contains configuration for the retention scheduler.
type RetentionConfig struct {
	// Enabled controls whether stale documents are pruned on a schedule.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Schedule is a standard 5-field cron expression.
	// Default: "0 3 * * *" (daily at 03:00)
	Schedule string `yaml:"schedule"`

	// MaxAge is how long a document may go without an update before it is pruned.
	// Default: 720h (30 days)
	MaxAge time.Duration `yaml:"max_age"`
}

// WatchConfig contains configuration for file watching.
type WatchConfig struct {
	// Debounce is the quiet period after a file event before the file is re-read.
	// Editors often write a file in several steps.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "layoutd"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "" (none)
	Subsystem string `yaml:"subsystem"`

	// ParseDurationBuckets defines histogram buckets for parse duration (seconds).
	// Default: [0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25]
	ParseDurationBuckets []float64 `yaml:"parse_duration_buckets"`

	// RequestDurationBuckets defines histogram buckets for HTTP request duration (seconds).
	// Default: [0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "layoutd"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
