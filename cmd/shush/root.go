package main

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "shush",
	Short: "Shush - inline-directive suppression for static-analysis results",
	Long: `Shush decides which static-analysis diagnostics their authors asked to
suppress with inline directives like "# ignore flake8(E501)" or
"// start ignoring pylint".

It filters a stream of diagnostics on demand, scanning each file lazily and
caching what it learned so unchanged files are never rescanned.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
