package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "custodian",
	Short: "Pepper Custodian - case retention cleanup service",
	Long: `Pepper Custodian enforces document retention for closed legal cases.

It deletes the document folders of cases that have been closed for longer
than the configured retention period, either on a cron schedule or on demand
through an authenticated HTTP API. Case records are preserved by default so
the audit history survives folder cleanup.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "custodian.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
