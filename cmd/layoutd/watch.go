package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"webviz-hq/layoutd/pkg/cli"
	"webviz-hq/layoutd/pkg/config"
	"webviz-hq/layoutd/pkg/watch"
	"webviz-hq/layoutd/pkg/worker"
)

var watchFlags struct {
	format   string
	debounce time.Duration
	nav      bool
}

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Re-parse a layout file every time it changes",
	Long: `Watch a layout file and print its outline (or navigation, with --nav)
after every save. Bursts of writes are collapsed into one parse.

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.format, "format", "f", "text", "output format: text, json")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "quiet period after a change (overrides watch.debounce)")
	watchCmd.Flags().BoolVar(&watchFlags.nav, "nav", false, "print the navigation tree instead of the outline")
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(watchFlags.format)
	if err != nil {
		return err
	}

	cfg := config.GetConfig()
	debounce := cfg.Watch.Debounce
	if watchFlags.debounce > 0 {
		debounce = watchFlags.debounce
	}

	p, err := newParser()
	if err != nil {
		return cli.NewConfigError("parser", err.Error())
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	w := worker.New(p,
		worker.WithLogger(logger.Slog()),
		worker.WithQueueSize(cfg.Worker.QueueSize),
		worker.WithDocumentID(args[0]),
	)
	if err := w.Start(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer w.Stop()

	fw, err := watch.NewFileWatcher(args[0], debounce, logger.Slog())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer fw.Stop()

	formatter := cli.NewFormatter(format)
	out := cmd.OutOrStdout()

	err = fw.Watch(ctx, watch.ParseInto(ctx, w, func(resp worker.Response, err error) {
		if err != nil {
			logger.Warn("parse failed", "error", err)
			return
		}

		var result interface{} = cli.Outline{Objects: resp.Objects}
		if watchFlags.nav {
			result = cli.Navigation(resp.Navigation)
		}
		if format == cli.FormatText {
			fmt.Fprintf(out, "--- %s %s\n", fw.Path(), time.Now().Format(time.TimeOnly))
		}
		if err := formatter.FormatTo(out, result); err != nil {
			logger.Warn("failed to write output", "error", err)
		}
	}))
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}
