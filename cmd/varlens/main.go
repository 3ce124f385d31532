// Package main implements the varlens CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "varlens",
	Short: "Trace variable changes while a script runs",
	Long:  "varlens executes a script under instrumentation and reports every variable value change with its scope-qualified identity.",
}

func main() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(scopesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "config file (default .varlens.yaml)")
	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|always|never)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
