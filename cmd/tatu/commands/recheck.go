package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/garagon/tatu/internal/logging"
	"github.com/garagon/tatu/internal/runner"
)

var recheckCmd = &cobra.Command{
	Use:   "recheck [path]",
	Short: "Probe excluded paths to see whether their exclusions are still needed",
	Long:  `Recheck invokes the tool on every excluded path individually. An exclusion whose run now comes back clean has probably outlived the tool bug it worked around and can be removed from the config. The verdict is informational; nothing is persisted.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRecheck,
}

func init() {
	rootCmd.AddCommand(recheckCmd)
}

func runRecheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Tool.Command == "" {
		return fmt.Errorf("no tool configured (run 'tatu init' to scaffold a .tatu.yml)")
	}

	session, err := runner.NewSession(cfg)
	if err != nil {
		return err
	}
	session.SetLogger(logging.New(flagDebug))

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	// Disabled groups keep their exclusions, so probe all of them.
	entries, err := session.Recheck(ctx, cfg.Groups)
	if err != nil {
		if errors.Is(err, runner.ErrToolUnavailable) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(127)
		}
		return err
	}

	w := cmd.OutOrStdout()

	if strings.ToLower(flagFormat) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No exclusions configured — nothing to recheck.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "GROUP\tPATH\tSTATUS\tSTALE\tREASON\n")
	fmt.Fprintf(tw, "-----\t----\t------\t-----\t------\n")
	stale := 0
	for _, e := range entries {
		mark := ""
		if e.Stale {
			mark = "yes"
			stale++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Group, e.Path, e.Status.String(), mark, e.Reason)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d exclusions rechecked, %d stale\n", len(entries), stale)
	return nil
}
