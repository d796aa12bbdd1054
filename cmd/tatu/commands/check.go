package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/garagon/tatu/internal/config"
	"github.com/garagon/tatu/internal/logging"
	"github.com/garagon/tatu/internal/output"
	"github.com/garagon/tatu/internal/runner"
	"github.com/garagon/tatu/internal/types"
)

var (
	flagGroup    string
	flagParallel bool
	flagTimeout  time.Duration
	flagTool     string
	flagVerbose  bool
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Run the analysis tool over the configured check groups",
	Long:  `Check filters each group's target list against its exclusion set, invokes the configured tool once per group, and reports the classified outcome. The process exit code mirrors the tool's own exit code; 2 means the tool crashed, 127 means it could not be found.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&flagGroup, "group", "", "Run only the named group (even if disabled in config)")
	checkCmd.Flags().BoolVar(&flagParallel, "parallel", false, "Run groups concurrently")
	checkCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Per-invocation timeout (overrides config)")
	checkCmd.Flags().StringVar(&flagTool, "tool", "", "Tool executable (overrides config)")
	checkCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Show excluded paths and their reasons")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if flagTool != "" {
		cfg.Tool.Command = flagTool
	}
	if cfg.Tool.Command == "" {
		return fmt.Errorf("no tool configured (run 'tatu init' to scaffold a .tatu.yml)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	groups, err := resolveGroups(cfg)
	if err != nil {
		return err
	}

	session, err := runner.NewSession(cfg)
	if err != nil {
		return err
	}
	session.SetLogger(logging.New(flagDebug))
	session.SetParallel(flagParallel)
	if cmd.Flags().Changed("timeout") {
		session.SetTimeout(flagTimeout)
	}

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	var spinner *output.Spinner
	if strings.ToLower(flagFormat) == "terminal" && !flagNoColor && !flagDebug {
		spinner = output.NewSpinner(os.Stderr)
		spinner.Start(fmt.Sprintf("checking %d groups with %s", len(groups), cfg.Tool.Command))
	}

	report := session.Run(ctx, groups)

	if spinner != nil {
		spinner.Stop()
	}

	if err := writeOutput(report); err != nil {
		return err
	}

	if report.ExitCode != 0 {
		os.Exit(report.ExitCode)
	}
	return nil
}

// loadConfig loads the config for the path argument (or --config) and lets
// explicitly set flags win over file values.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	if flagConfig != "" {
		path = flagConfig
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		flagFormat = cfg.Format
	}
	if !cmd.Flags().Changed("no-color") && cfg.NoColor {
		flagNoColor = true
	}
	if os.Getenv("NO_COLOR") != "" {
		flagNoColor = true
	}
	return cfg, nil
}

// resolveGroups applies --group or the config's enablement rules. A config
// with no groups at all still produces one invocation with an empty target
// list, preserving the unconditional-invocation behavior.
func resolveGroups(cfg config.Config) ([]config.Group, error) {
	if flagGroup != "" {
		g, ok := cfg.FindGroup(flagGroup)
		if !ok {
			return nil, fmt.Errorf("group %q not found in config", flagGroup)
		}
		return []config.Group{g}, nil
	}
	if len(cfg.Groups) == 0 {
		return []config.Group{{Name: "default"}}, nil
	}
	return cfg.EnabledGroups(), nil
}

func contextWithInterrupt() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

func writeOutput(report *types.Report) error {
	output.ToolVersion = Version

	var formatter output.Formatter
	switch strings.ToLower(flagFormat) {
	case "json":
		formatter = &output.JSONFormatter{}
	case "sarif":
		formatter = &output.SARIFFormatter{}
	case "markdown", "md":
		formatter = &output.MarkdownFormatter{}
	default:
		formatter = &output.TerminalFormatter{NoColor: flagNoColor, Verbose: flagVerbose}
	}

	w := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	return formatter.Format(w, report)
}
