package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"webviz-hq/layoutd/pkg/cli"
)

var checkFlags struct {
	format   string
	strict   bool
	progress bool
}

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Report parse problems in layout files",
	Long: `Parse each file and report whether it parsed cleanly.

A file is "recovered" when it only parsed after dropping a broken tail,
"partial" when some items matched no known shape, and "failed" when nothing
could be decoded. check exits non-zero when any file failed or could not be
read; with --strict, recovered and partial files fail too.

Examples:
  layoutd check layouts/*.yaml
  layoutd check --strict --format json layouts/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.format, "format", "f", "text", "output format: text, json")
	checkCmd.Flags().BoolVar(&checkFlags.strict, "strict", false, "treat recovered and partial files as failures")
	checkCmd.Flags().BoolVar(&checkFlags.progress, "progress", false, "show a progress bar on stderr")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(checkFlags.format)
	if err != nil {
		return err
	}

	p, err := newParser()
	if err != nil {
		return cli.NewConfigError("parser", err.Error())
	}

	var progress cli.ProgressReporter = cli.NopProgress{}
	if checkFlags.progress {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
	}

	report := cli.CheckReport{Files: make([]cli.FileReport, 0, len(args))}
	progress.Start(int64(len(args)))
	for i, path := range args {
		file := cli.FileReport{Path: path}

		data, err := os.ReadFile(path)
		if err != nil {
			file.Error = err.Error()
		} else {
			doc, stats := p.ParseWithStats(string(data))
			file.Bytes = len(data)
			file.Objects = len(doc.Index())
			file.Recoveries = stats.Recoveries
			file.Omitted = stats.Omitted
			file.Failed = stats.Failed
			file.Duration = stats.Duration
		}

		report.Files = append(report.Files, file)
		progress.Update(int64(i + 1))
	}
	progress.Finish()

	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	failed := 0
	for _, f := range report.Files {
		if f.Error != "" || f.Failed || (checkFlags.strict && !f.OK()) {
			failed++
		}
	}
	if failed > 0 {
		return cli.NewCommandError("check", fmt.Errorf("%d of %d files have problems", failed, len(report.Files)))
	}
	return nil
}
