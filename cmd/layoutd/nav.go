package main

import (
	"github.com/spf13/cobra"

	"webviz-hq/layoutd/pkg/cli"
)

var navFlags struct {
	format string
}

var navCmd = &cobra.Command{
	Use:   "nav FILE",
	Short: "Print the sidebar navigation of a layout file",
	Long: `Derive the navigation tree (sections, groups and pages) of a layout file.

Page entries link to the page id, which "layoutd closest" and the
/objects/{id} endpoint of the HTTP API accept.`,
	Args: cobra.ExactArgs(1),
	RunE: runNav,
}

func init() {
	rootCmd.AddCommand(navCmd)

	navCmd.Flags().StringVarP(&navFlags.format, "format", "f", "text", "output format: text, json")
}

func runNav(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(navFlags.format)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, args[0])
	if err != nil {
		return cli.NewCommandError("nav", err)
	}

	p, err := newParser()
	if err != nil {
		return cli.NewConfigError("parser", err.Error())
	}

	doc := p.ParseBytes(data)
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), cli.Navigation(doc.Navigation()))
}
