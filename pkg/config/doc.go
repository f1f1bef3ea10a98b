// Package config provides configuration management for layoutd.
//
// Configuration comes from an optional YAML file plus environment variable
// overrides. Every field has a default, so layoutd runs without a file.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("layoutd.yaml")                 // File only
//	cfg, err := config.LoadConfigWithEnvOverrides("layoutd.yaml") // File plus LAYOUTD_* variables
//	cfg, err := config.LoadConfig("")                             // Defaults only
//
// A non-empty path that cannot be read is an error.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention LAYOUTD_SECTION_FIELD:
//
//   - LAYOUTD_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - LAYOUTD_PARSER_ID_STRATEGY overrides parser.id_strategy
//   - LAYOUTD_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// A value that does not parse as the field's type fails the load.
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton
//
// The layoutd command initializes a process-wide configuration once and
// reloads it on SIGHUP:
//
//	if err := config.Initialize(path); err != nil {
//	    return err
//	}
//	cfg := config.MustGetConfig()
//
// Library code takes explicit values (config.ParserConfig and friends)
// instead of reading the singleton.
//
// # Example Configuration
//
//	parser:
//	  id_strategy: stable
//	  max_recovery_attempts: 8
//
//	server:
//	  listen_address: "127.0.0.1:8484"
//	  max_documents: 256
//
//	store:
//	  backend: sqlite
//	  sqlite:
//	    path: data/layoutd.db
//	  retention:
//	    enabled: true
//	    schedule: "0 3 * * *"
//	    max_age: 720h
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
package config
