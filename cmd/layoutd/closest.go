package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"webviz-hq/layoutd/pkg/cli"
	"webviz-hq/layoutd/pkg/layout"
)

var closestFlags struct {
	start  int
	end    int
	format string
}

var closestCmd = &cobra.Command{
	Use:   "closest FILE",
	Short: "Find the object and page under a line range",
	Long: `Resolve an editor selection to the innermost object whose line span
contains it, and to the page that contains that object.

Lines are 1-based. --end defaults to --start; a reversed range is accepted.

Examples:
  layoutd closest dashboard.yaml --start 12
  layoutd closest dashboard.yaml --start 12 --end 18 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runClosest,
}

func init() {
	rootCmd.AddCommand(closestCmd)

	closestCmd.Flags().IntVarP(&closestFlags.start, "start", "s", 0, "first selected line (required)")
	closestCmd.Flags().IntVarP(&closestFlags.end, "end", "e", 0, "last selected line (defaults to --start)")
	closestCmd.Flags().StringVarP(&closestFlags.format, "format", "f", "text", "output format: text, json")
	_ = closestCmd.MarkFlagRequired("start")
}

func runClosest(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(closestFlags.format)
	if err != nil {
		return err
	}

	start, end := closestFlags.start, closestFlags.end
	if end == 0 {
		end = start
	}
	if start < 1 || end < 1 {
		return cli.NewConfigError("start", fmt.Sprintf("line numbers must be positive, got %d-%d", start, end))
	}

	data, err := readInput(cmd, args[0])
	if err != nil {
		return cli.NewCommandError("closest", err)
	}

	p, err := newParser()
	if err != nil {
		return cli.NewConfigError("parser", err.Error())
	}

	sel := layout.Select(p.ParseBytes(data), start, end)
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), cli.Selection{
		Start:  start,
		End:    end,
		Object: sel.Object,
		Page:   sel.Page,
	})
}
