package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "LAYOUTD_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// An empty path yields the defaults. A path that does not exist is an error.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}

		// Decode on top of the defaults so explicit false values survive
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	// Apply defaults
	ApplyDefaults(cfg)

	// Validate
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention LAYOUTD_SECTION_FIELD (e.g., LAYOUTD_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	// Re-validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// envOverrides maps environment variable suffixes to the fields they set.
func envOverrides(cfg *Config) map[string]any {
	return map[string]any{
		"PARSER_ID_STRATEGY":              &cfg.Parser.IDStrategy,
		"PARSER_MAX_RECOVERY_ATTEMPTS":    &cfg.Parser.MaxRecoveryAttempts,
		"WORKER_QUEUE_SIZE":               &cfg.Worker.QueueSize,
		"WORKER_DEBOUNCE":                 &cfg.Worker.Debounce,
		"SERVER_LISTEN_ADDRESS":           &cfg.Server.ListenAddress,
		"SERVER_READ_TIMEOUT":             &cfg.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":            &cfg.Server.WriteTimeout,
		"SERVER_IDLE_TIMEOUT":             &cfg.Server.IdleTimeout,
		"SERVER_SHUTDOWN_TIMEOUT":         &cfg.Server.ShutdownTimeout,
		"SERVER_REQUEST_TIMEOUT":          &cfg.Server.RequestTimeout,
		"SERVER_MAX_BODY_BYTES":           &cfg.Server.MaxBodyBytes,
		"SERVER_MAX_DOCUMENTS":            &cfg.Server.MaxDocuments,
		"SERVER_CORS_ENABLED":             &cfg.Server.CORS.Enabled,
		"SERVER_CORS_ALLOWED_ORIGINS":     &cfg.Server.CORS.AllowedOrigins,
		"STORE_BACKEND":                   &cfg.Store.Backend,
		"STORE_SQLITE_PATH":               &cfg.Store.SQLite.Path,
		"STORE_SQLITE_BUSY_TIMEOUT":       &cfg.Store.SQLite.BusyTimeout,
		"STORE_RETENTION_ENABLED":         &cfg.Store.Retention.Enabled,
		"STORE_RETENTION_SCHEDULE":        &cfg.Store.Retention.Schedule,
		"STORE_RETENTION_MAX_AGE":         &cfg.Store.Retention.MaxAge,
		"WATCH_DEBOUNCE":                  &cfg.Watch.Debounce,
		"TELEMETRY_LOGGING_LEVEL":         &cfg.Telemetry.Logging.Level,
		"TELEMETRY_LOGGING_FORMAT":        &cfg.Telemetry.Logging.Format,
		"TELEMETRY_LOGGING_ADD_SOURCE":    &cfg.Telemetry.Logging.AddSource,
		"TELEMETRY_METRICS_ENABLED":       &cfg.Telemetry.Metrics.Enabled,
		"TELEMETRY_METRICS_PATH":          &cfg.Telemetry.Metrics.Path,
		"TELEMETRY_TRACING_ENABLED":       &cfg.Telemetry.Tracing.Enabled,
		"TELEMETRY_TRACING_ENDPOINT":      &cfg.Telemetry.Tracing.Endpoint,
		"TELEMETRY_TRACING_SAMPLER":       &cfg.Telemetry.Tracing.Sampler,
		"TELEMETRY_TRACING_SAMPLE_RATIO":  &cfg.Telemetry.Tracing.SampleRatio,
		"TELEMETRY_TRACING_SERVICE_NAME":  &cfg.Telemetry.Tracing.ServiceName,
		"TELEMETRY_TRACING_OTLP_INSECURE": &cfg.Telemetry.Tracing.OTLP.Insecure,
		"TELEMETRY_TRACING_OTLP_TIMEOUT":  &cfg.Telemetry.Tracing.OTLP.Timeout,
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Every malformed value is reported together.
func applyEnvOverrides(cfg *Config) error {
	var errs []error
	for suffix, target := range envOverrides(cfg) {
		name := EnvPrefix + suffix
		val := os.Getenv(name)
		if val == "" {
			continue
		}
		if err := setField(target, val); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func setField(target any, val string) error {
	switch p := target.(type) {
	case *string:
		*p = val
	case *bool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		*p = b
	case *int:
		i, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		*p = i
	case *int64:
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return err
		}
		*p = i
	case *float64:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return err
		}
		*p = f
	case *time.Duration:
		d, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		*p = d
	case *[]string:
		var items []string
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*p = items
	default:
		return fmt.Errorf("unsupported field type %T", target)
	}
	return nil
}
