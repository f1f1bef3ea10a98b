package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"webviz-hq/layoutd/pkg/config"
	"webviz-hq/layoutd/pkg/layout/parser"
)

// readInput returns the contents of path, or of stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// newParser builds a parser from the parser section of the loaded
// configuration.
func newParser() (*parser.Parser, error) {
	cfg := config.GetConfig()
	if cfg == nil {
		cfg = config.Default()
	}

	p, err := parser.FromConfig(cfg.Parser)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		p.WithLogger(logger.Slog())
	}
	return p, nil
}
