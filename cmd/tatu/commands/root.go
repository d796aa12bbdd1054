package commands

import (
	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagFormat  string
	flagOutput  string
	flagNoColor bool
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "tatu",
	Short: "Selective static-analysis runner",
	Long:  `Tatu runs an external static-analysis tool over an explicit allow-list of files, withholding paths known to crash the tool, and reports the outcome per check group.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file path (default: .tatu.yml in the target directory)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "terminal", "Output format (terminal, json, sarif, markdown)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging on stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
