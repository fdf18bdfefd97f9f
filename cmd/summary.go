package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"invoicer/internal/invoice/migrations"
	"invoicer/internal/logger"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [file]",
	Short: "Describe the changes an upgrade would make",
	Long: `List, in order, every change that upgrading the document to the current
schema would make. Nothing is written.`,
	Example: `  invoicer summary old-invoice.json`,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("summary")

	ctx, cancel := commandContext(log)
	defer cancel()

	data, err := openStore(args).Read(ctx)
	if err != nil {
		return handleLoadError(err, log)
	}

	printSummary(cmd, migrations.DetectSchemaVersion(data), migrations.GetMigrationSummary(data))
	return nil
}

func printSummary(cmd *cobra.Command, detection migrations.Detection, lines []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Detected schema v%d (%s: %s)\n", detection.Version, detection.Confidence, detection.Reason)
	for _, line := range lines {
		fmt.Fprintf(out, "  - %s\n", line)
	}
}
