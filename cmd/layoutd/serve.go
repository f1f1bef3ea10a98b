package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"webviz-hq/layoutd/pkg/cli"
	"webviz-hq/layoutd/pkg/config"
	"webviz-hq/layoutd/pkg/server"
	"webviz-hq/layoutd/pkg/store"
	"webviz-hq/layoutd/pkg/telemetry/metrics"
	"webviz-hq/layoutd/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the layoutd HTTP daemon",
	Long: `Start the HTTP API. Editors PUT the text of a buffer to
/v1/documents/{id} on every change and query the latest parse with
/v1/documents/{id}/closest and /v1/documents/{id}/objects/{objectID}.

Documents are persisted in the configured store and restored on start.
SIGHUP reloads the configuration file and applies the new log level.

Examples:
  # Start with default config
  layoutd serve

  # Start with custom config
  layoutd serve --config /etc/layoutd/config.yaml

  # Override listen address
  layoutd serve --listen 0.0.0.0:7070

  # Validate config without starting the server
  layoutd serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	// Apply flag overrides
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		if err := logger.SetLevel(serveFlags.logLevel); err != nil {
			return cli.NewConfigError("log-level", err.Error())
		}
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("serve", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, registry)

	p, err := newParser()
	if err != nil {
		return cli.NewConfigError("parser", err.Error())
	}

	backend, err := store.Open(cfg.Store)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer backend.Close()
	backend = store.Instrument(backend, collector)

	srv := server.NewServer(cfg, server.Options{
		Parser:    p,
		Store:     backend,
		Logger:    logger.Slog(),
		Metrics:   collector,
		Tracer:    tracer,
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})

	logger.Info("starting layoutd",
		"version", Version,
		"address", cfg.Server.ListenAddress,
		"store", cfg.Store.Backend,
		"metrics", cfg.Telemetry.Metrics.Enabled,
		"tracing", cfg.Telemetry.Tracing.Enabled,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	if cfg.Store.Retention.Enabled {
		scheduler := store.NewScheduler(backend, cfg.Store.Retention.Schedule, cfg.Store.Retention.MaxAge, logger.Slog(), collector)
		g.Go(func() error {
			return scheduler.Run(gctx)
		})
	}
	g.Go(func() error {
		return cli.HandleReload(gctx, reloadConfig)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return cli.NewCommandError("serve", err)
	}
	logger.Info("layoutd stopped")
	return nil
}

// reloadConfig re-reads the configuration file and applies the settings that
// can change at runtime. Everything else needs a restart.
func reloadConfig() {
	cfg, err := config.ReloadConfig(cfgFile)
	if err != nil {
		logger.Error("configuration reload failed", "error", err)
		return
	}

	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	if err := logger.SetLevel(level); err != nil {
		logger.Error("failed to apply log level", "error", err)
		return
	}
	logger.Info("configuration reloaded", "path", cfgFile, "log_level", level)
}
