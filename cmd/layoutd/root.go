package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"webviz-hq/layoutd/pkg/cli"
	"webviz-hq/layoutd/pkg/config"
	"webviz-hq/layoutd/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// logger is built from the loaded configuration before any command runs.
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "layoutd",
	Short: "layoutd - incremental dashboard layout parser",
	Long: `layoutd parses dashboard layout YAML into a typed object tree with line
spans, derives the sidebar navigation from it and answers "which object is
under this selection" for editor previews.

Invalid input never fails a parse: layoutd keeps the longest prefix that
decodes and drops items it cannot classify, so a preview stays usable while
the user is typing.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// setup loads the configuration and builds the logger shared by all commands.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	config.SetConfig(cfg)

	logCfg := logging.FromConfig(cfg.Telemetry.Logging)
	if verbose {
		logCfg.Level = "debug"
	}
	logCfg.Writer = cmd.ErrOrStderr()

	logger, err = logging.New(logCfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())

	logger.Debug("configuration loaded",
		"path", cfgFile,
		"parser_id_strategy", cfg.Parser.IDStrategy,
		"store_backend", cfg.Store.Backend,
	)
	return nil
}
