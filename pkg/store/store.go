package store

import (
	"fmt"

	"webviz-hq/layoutd/pkg/config"
)

// Open creates the backend selected by the store configuration.
func Open(cfg config.StoreConfig) (Backend, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryBackend(), nil
	case "sqlite":
		return NewSQLiteBackendWithConfig(SQLiteBackendConfig{
			DBPath:       cfg.SQLite.Path,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}
