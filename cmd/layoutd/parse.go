package main

import (
	"github.com/spf13/cobra"

	"webviz-hq/layoutd/pkg/cli"
)

var parseFlags struct {
	format string
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the object tree of a layout file",
	Long: `Parse a layout file and print its objects with their line spans.

Use "-" to read from stdin. The JSON format matches the "objects" field of
the HTTP API.

Examples:
  # Outline
  layoutd parse dashboard.yaml

  # JSON tree from stdin
  cat dashboard.yaml | layoutd parse - --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseFlags.format, "format", "f", "text", "output format: text, json")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(parseFlags.format)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, args[0])
	if err != nil {
		return cli.NewCommandError("parse", err)
	}

	p, err := newParser()
	if err != nil {
		return cli.NewConfigError("parser", err.Error())
	}

	doc := p.ParseBytes(data)
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), cli.Outline{Objects: doc.Objects()})
}
