package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Validate(Default()) error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"unknown id strategy", func(c *Config) { c.Parser.IDStrategy = "sequential" }, "parser.id_strategy"},
		{"excessive recovery attempts", func(c *Config) { c.Parser.MaxRecoveryAttempts = 5000 }, "parser.max_recovery_attempts"},
		{"zero queue", func(c *Config) { c.Worker.QueueSize = 0 }, "worker.queue_size"},
		{"negative debounce", func(c *Config) { c.Worker.Debounce = -1 }, "worker.debounce"},
		{"empty listen address", func(c *Config) { c.Server.ListenAddress = "" }, "server.listen_address"},
		{"listen address without port", func(c *Config) { c.Server.ListenAddress = "localhost" }, "server.listen_address"},
		{"negative read timeout", func(c *Config) { c.Server.ReadTimeout = -1 }, "server.read_timeout"},
		{"negative request timeout", func(c *Config) { c.Server.RequestTimeout = -1 }, "server.request_timeout"},
		{"huge body", func(c *Config) { c.Server.MaxBodyBytes = 1 << 30 }, "server.max_body_bytes"},
		{"no documents", func(c *Config) { c.Server.MaxDocuments = 0 }, "server.max_documents"},
		{"negative cors max age", func(c *Config) { c.Server.CORS.MaxAge = -1 }, "server.cors.max_age"},
		{"credentials with wildcard origin", func(c *Config) { c.Server.CORS.AllowCredentials = true }, "server.cors.allow_credentials"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }, "store.backend"},
		{"sqlite without path", func(c *Config) {
			c.Store.Backend = "sqlite"
			c.Store.SQLite.Path = ""
		}, "store.sqlite.path"},
		{"bad cron", func(c *Config) {
			c.Store.Retention.Enabled = true
			c.Store.Retention.Schedule = "every night"
		}, "store.retention.schedule"},
		{"retention without max age", func(c *Config) {
			c.Store.Retention.Enabled = true
			c.Store.Retention.MaxAge = 0
		}, "store.retention.max_age"},
		{"negative watch debounce", func(c *Config) { c.Watch.Debounce = -1 }, "watch.debounce"},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "loud" }, "telemetry.logging.level"},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"relative metrics path", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
		{"unsorted buckets", func(c *Config) { c.Telemetry.Metrics.ParseDurationBuckets = []float64{0.1, 0.01} }, "telemetry.metrics.parse_duration_buckets"},
		{"tracing without endpoint", func(c *Config) { c.Telemetry.Tracing.Enabled = true }, "telemetry.tracing.endpoint"},
		{"unknown sampler", func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" }, "telemetry.tracing.sampler"},
		{"ratio out of range", func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() succeeded, want error")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error type = %T, want ValidationError", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() errors = %v, want one for field %q", verr.Errors, tt.wantField)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got, want := single.Error(), "configuration validation failed: a: bad"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	got := multi.Error()
	if !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: worse") {
		t.Errorf("Error() = %q, want both field errors listed", got)
	}
}
