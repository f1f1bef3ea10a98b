package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"webviz-hq/layoutd/pkg/cli"
)

func TestParseCommand(t *testing.T) {
	path := writeTemp(t, "layout.yaml", demoLayout)

	tests := []struct {
		name     string
		stdin    string
		args     []string
		want     []string
		wantCode int
	}{
		{
			name: "text outline",
			args: []string{"parse", path},
			want: []string{`TITLE [1] "Demo"`, "LAYOUT [2-6]", "  PAGE [3-6] Home", "    PLUGIN [5-6] Markdown", "      text [6] = hi"},
		},
		{
			name:  "stdin",
			stdin: "title: From stdin\n",
			args:  []string{"parse", "-"},
			want:  []string{`TITLE [1] "From stdin"`},
		},
		{
			name:  "invalid yaml",
			stdin: "layout: [unclosed\n",
			args:  []string{"parse", "-"},
			want:  []string{"(empty)"},
		},
		{
			name:     "missing file",
			args:     []string{"parse", filepath.Join(t.TempDir(), "missing.yaml")},
			wantCode: cli.ExitFailure,
		},
		{
			name:     "bad format",
			args:     []string{"parse", path, "--format", "xml"},
			wantCode: cli.ExitConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.stdin, tt.args...)
			if code := cli.ExitCode(err); code != tt.wantCode {
				t.Fatalf("exit code = %d (%v), want %d", code, err, tt.wantCode)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("output missing %q:\n%s", want, stdout)
				}
			}
		})
	}
}

func TestParseCommand_JSON(t *testing.T) {
	path := writeTemp(t, "layout.yaml", demoLayout)

	stdout, _, err := execute(t, "", "parse", path, "--format", "json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var objects []map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &objects); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if len(objects) != 2 {
		t.Fatalf("len(objects) = %d, want 2", len(objects))
	}
	if objects[0]["type"] != "TITLE" || objects[0]["value"] != "Demo" {
		t.Errorf("objects[0] = %v, want title Demo", objects[0])
	}
}

func TestNavCommand(t *testing.T) {
	path := writeTemp(t, "layout.yaml", demoLayout)

	stdout, _, err := execute(t, "", "nav", path)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(stdout, "- Home (page) -> ") {
		t.Errorf("output = %q, want page Home", stdout)
	}

	stdout, _, err = execute(t, "", "nav", path, "-f", "json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	var nav []map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &nav); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if len(nav) != 1 || nav[0]["type"] != "page" || nav[0]["href"] == "" {
		t.Errorf("nav = %v, want one page with href", nav)
	}
}

func TestClosestCommand(t *testing.T) {
	path := writeTemp(t, "layout.yaml", demoLayout)

	tests := []struct {
		name     string
		args     []string
		want     []string
		wantCode int
	}{
		{
			name: "argument line",
			args: []string{"closest", path, "--start", "6"},
			want: []string{"object: PLUGIN [5-6] Markdown", "page:   Home [3-6]"},
		},
		{
			name: "reversed range",
			args: []string{"closest", path, "-s", "6", "-e", "3"},
			want: []string{"object: PAGE [3-6] Home"},
		},
		{
			name: "outside document",
			args: []string{"closest", path, "--start", "50"},
			want: []string{"object: (none)", "page:   (none)"},
		},
		{
			name:     "missing start",
			args:     []string{"closest", path},
			wantCode: cli.ExitFailure,
		},
		{
			name:     "negative line",
			args:     []string{"closest", path, "--start", "-2"},
			wantCode: cli.ExitConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, "", tt.args...)
			if code := cli.ExitCode(err); code != tt.wantCode {
				t.Fatalf("exit code = %d (%v), want %d", code, err, tt.wantCode)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("output missing %q:\n%s", want, stdout)
				}
			}
		})
	}
}

func TestCheckCommand(t *testing.T) {
	clean := writeTemp(t, "clean.yaml", demoLayout)
	broken := writeTemp(t, "broken.yaml", "title: Broken\nlayout: [unclosed\n")
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	stdout, _, err := execute(t, "", "check", clean, broken)
	if err != nil {
		t.Fatalf("check without --strict error = %v", err)
	}
	if !strings.Contains(stdout, "recovered") || !strings.Contains(stdout, "1 of 2 files clean") {
		t.Errorf("output = %q", stdout)
	}

	_, _, err = execute(t, "", "check", "--strict", clean, broken)
	var cmdErr *cli.CommandError
	if !errors.As(err, &cmdErr) {
		t.Errorf("check --strict error = %v, want CommandError", err)
	}

	stdout, stderr, err := execute(t, "", "check", "--progress", "--format", "json", clean, missing)
	if err == nil {
		t.Fatal("check with unreadable file succeeded")
	}
	var report cli.CheckReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if len(report.Files) != 2 || report.Files[1].Error == "" {
		t.Errorf("report = %+v, want an error for the missing file", report)
	}
	if !strings.Contains(stderr, "(2/2 files)") {
		t.Errorf("stderr = %q, want progress output", stderr)
	}
}

func TestServeCommand_DryRun(t *testing.T) {
	stdout, _, err := execute(t, "", "serve", "--dry-run", "--listen", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(stdout) != "Configuration valid" {
		t.Errorf("output = %q, want %q", stdout, "Configuration valid")
	}

	_, _, err = execute(t, "", "serve", "--dry-run", "--log-level", "loud")
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("bad --log-level error = %v, want config error", err)
	}
}
