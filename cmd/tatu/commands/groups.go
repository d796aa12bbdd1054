package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups [path]",
	Short: "List the configured check groups",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGroups,
}

func init() {
	rootCmd.AddCommand(groupsCmd)
}

type groupInfo struct {
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	Targets  int    `json:"targets"`
	Excluded int    `json:"excluded"`
}

func runGroups(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	enabled := make(map[string]bool)
	for _, g := range cfg.EnabledGroups() {
		enabled[g.Name] = true
	}

	infos := make([]groupInfo, len(cfg.Groups))
	for i, g := range cfg.Groups {
		infos[i] = groupInfo{
			Name:     g.Name,
			Enabled:  enabled[g.Name],
			Targets:  len(g.Targets),
			Excluded: len(g.Exclusions),
		}
	}

	w := cmd.OutOrStdout()

	if strings.ToLower(flagFormat) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(w, "No groups configured.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "NAME\tENABLED\tTARGETS\tEXCLUDED\n")
	fmt.Fprintf(tw, "----\t-------\t-------\t--------\n")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%t\t%d\t%d\n", info.Name, info.Enabled, info.Targets, info.Excluded)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d groups configured\n", len(infos))

	return nil
}
