package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pepper-hq/custodian/pkg/cleanup"
	"pepper-hq/custodian/pkg/cli"
	"pepper-hq/custodian/pkg/config"
)

var sweepFlags struct {
	dryRun bool
	format string
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a single cleanup sweep and exit",
	Long: `Run a single cleanup sweep over eligible cases and exit.

A case is eligible when it is closed and its last update is older than the
configured retention period. With --dry-run the eligible cases are listed
without deleting anything.

Examples:
  # Run a sweep with the default config
  custodian sweep

  # List eligible cases without deleting
  custodian sweep --dry-run

  # Machine-readable output
  custodian sweep --format json`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().BoolVar(&sweepFlags.dryRun, "dry-run", false, "list eligible cases without deleting")
	sweepCmd.Flags().StringVarP(&sweepFlags.format, "format", "f", "text", "output format (text, json)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	setupLogging(&cfg.Telemetry.Logging)

	repo, err := buildRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to open case store: %w", err)
	}
	defer repo.Close()

	folders := cleanup.NewFolderStore(cfg.Cleanup.FolderRoot)
	sweeper := cleanup.NewSweeper(repo, folders, &cleanup.Config{
		RetentionDays: cfg.Cleanup.RetentionPeriodDays(),
		DeleteRecords: cfg.Cleanup.DeleteRecords,
		CaseTimeout:   cfg.Cleanup.CaseTimeout,
		RunTimeout:    cfg.Cleanup.RunTimeout,
	})

	ctx := cli.SetupSignalHandler()
	formatter := cli.NewFormatter(cli.OutputFormat(sweepFlags.format))

	if sweepFlags.dryRun {
		return listEligible(ctx, sweeper, formatter)
	}

	result, err := sweeper.Sweep(ctx, cleanup.TriggerCLI)
	if err != nil {
		return cli.NewCommandError("sweep", err)
	}

	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

	if result.Errors > 0 {
		return fmt.Errorf("%d case(s) failed to delete", result.Errors)
	}
	return nil
}

// listEligible prints the eligible set without deleting anything.
func listEligible(ctx context.Context, sweeper *cleanup.Sweeper, formatter cli.Formatter) error {
	eligible, err := sweeper.EligibleCases(ctx)
	if err != nil {
		return cli.NewCommandError("sweep", err)
	}

	if sweepFlags.format == string(cli.FormatJSON) {
		return formatter.FormatTo(os.Stdout, eligible)
	}

	if len(eligible) == 0 {
		fmt.Println("No cases are eligible for cleanup")
		return nil
	}

	fmt.Printf("%d case(s) eligible for cleanup:\n", len(eligible))
	for _, record := range eligible {
		fmt.Printf("  %s/%s  %q  closed, last updated %s\n",
			record.OwnerID, record.CaseID, record.Title,
			record.UpdatedAt.Format("2006-01-02"),
		)
	}
	return nil
}
