// Command re2compat extracts atoms, checks and applies RE2-style rewrite
// templates, and scans files against rule sets.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "re2compat",
	Short: "RE2-style atoms, rewrites and rule scanning on coregex",
	Long: `re2compat exposes the RE2 compatibility layer on the command line.

  atoms    show the literal atoms a pattern requires
  rewrite  inspect and expand \N rewrite templates
  replace  apply a pattern and rewrite to files
  scan     match files against a YAML rule set, filtered by atoms`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(atomsCmd)
	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(replaceCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
