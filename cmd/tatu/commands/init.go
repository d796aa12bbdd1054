package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var flagCIOnly bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize Tatu configuration files",
	Long:  `Scaffolds a commented .tatu.yml and a GitHub Actions workflow that runs the check on every push.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagCIOnly, "ci", false, "Only generate the GitHub Actions workflow (skip config file)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	files := []struct {
		path    string
		content string
	}{
		{
			path:    filepath.Join(dir, ".github", "workflows", "tatu.yml"),
			content: workflowTemplate,
		},
	}
	if !flagCIOnly {
		files = append([]struct {
			path    string
			content string
		}{{
			path:    filepath.Join(dir, ".tatu.yml"),
			content: configTemplate,
		}}, files...)
	}

	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			fmt.Printf("  skip %s (already exists)\n", f.path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		fmt.Printf("  create %s\n", f.path)
	}

	return nil
}

const configTemplate = `# Tatu selective analysis runner configuration
# https://github.com/garagon/tatu

# The external static-analysis tool to invoke. Target paths are appended
# after args.
tool:
  command: mypy
  args:
    - --ignore-missing-imports

# Per-invocation timeout (Go duration syntax). Omit for no timeout.
# timeout: 2m

# Output format: terminal, json, sarif, markdown
format: terminal

# Master switch for all groups.
# enabled: true

# Whether groups without their own enabled flag run. Defaults to true.
# default: true

# Check groups. Each group is one independent tool invocation over its
# filtered target list.
groups:
  - name: default
    targets:
      - src/main.py
    # Paths withheld from the tool. Record why, so 'tatu recheck' can tell
    # you when the exclusion is no longer needed.
    # exclude:
    #   - path: src/broken.py
    #     reason: "checker crashes on this file (upstream issue #123)"
`

const workflowTemplate = `name: Tatu Check

on:
  push:
    branches: [main]
  pull_request:
    branches: [main]

permissions:
  security-events: write
  contents: read

jobs:
  tatu:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4

      - name: Install Tatu
        run: go install github.com/garagon/tatu/cmd/tatu@latest

      - name: Run check
        id: check
        continue-on-error: true
        run: tatu check . --format sarif --output results.sarif

      - name: Upload SARIF results
        if: always()
        uses: github/codeql-action/upload-sarif@v3
        with:
          sarif_file: results.sarif

      - name: Fail on findings
        if: steps.check.outcome == 'failure'
        run: exit 1
`
