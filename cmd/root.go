// Package cmd wires the project-index CLI: one cobra subcommand per
// operation in spec.md §6, delegating all structural and semantic work to
// the internal packages. Human vs JSON rendering lives entirely here —
// nothing under internal/ knows about output formatting.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagProjectRoot string
	flagConfigPath  string
	flagVerbose     int
	flagQuiet       bool
)

var rootCmd = &cobra.Command{
	Use:   "pindex",
	Short: "Build and query a structural map of a source repository",
	Long: `pindex extracts a machine-readable index of a repository's files,
symbols, imports, and call edges, and answers structural questions about
it — search, dependencies, change impact, call chains, dead code — plus
free-text semantic lookup over symbol names.`,
	SilenceUsage: true,
}

// Execute runs the CLI, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProjectRoot, "project-root", "", "project root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to config.yaml (default: <project-root>/.context/config.yaml)")
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress non-error log output")
}
