package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"invoicer/internal/invoice/migrations"
	"invoicer/internal/logger"
	"invoicer/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [file]",
	Short: "Upgrade a document to the current schema",
	Long: `Upgrade a document file to the current schema version.

The changes are listed first and applied only after confirmation. A document
that is already current is left untouched. If any step of the upgrade fails
the file is not changed.`,
	Example: `  # Upgrade in place after confirmation
  invoicer migrate old-invoice.json

  # Upgrade without prompting and write the result to a new file
  invoicer migrate old-invoice.json --yes -o invoice-v3.json

  # Only show what would change
  invoicer migrate old-invoice.json --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringP("output", "o", "", "Output file path (default: overwrite the input file)")
	migrateCmd.Flags().BoolP("yes", "y", false, "Apply without asking for confirmation")
	migrateCmd.Flags().Bool("dry-run", false, "Show the changes without writing anything")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("migrate")

	outputPath, _ := cmd.Flags().GetString("output")
	assumeYes, _ := cmd.Flags().GetBool("yes")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	fs := openStore(args)
	if outputPath == "" {
		outputPath = fs.Path()
	}

	ctx, cancel := commandContext(log)
	defer cancel()

	data, err := fs.Read(ctx)
	if err != nil {
		return handleLoadError(err, log)
	}

	detection := migrations.DetectSchemaVersion(data)
	out := cmd.OutOrStdout()

	if !migrations.NeedsMigration(data) {
		log.Info().
			Str("file", fs.Path()).
			Int("version", detection.Version).
			Msg("Document is current, nothing to do")
		fmt.Fprintln(out, migrations.GetMigrationSummary(data)[0])
		return nil
	}

	printSummary(cmd, detection, migrations.GetMigrationSummary(data))

	if dryRun {
		log.Info().Str("file", fs.Path()).Msg("Dry run, no changes written")
		return nil
	}

	if !assumeYes {
		ok, err := confirm(cmd.InOrStdin(), out, "Apply these changes?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Migration canceled, the file was not changed.")
			return nil
		}
	}

	result, err := migrations.Migrate(data)
	if err != nil {
		return handleLoadError(err, log)
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}
	if missing := migrations.ValidateCurrentSchema(result.Data); len(missing) > 0 {
		log.Warn().
			Strs("missing", missing).
			Msg("Migrated document lacks required fields; defaults apply when it is opened")
	}

	if err := store.WriteJSON(ctx, outputPath, result.Data); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write migrated document")
		return fmt.Errorf("failed to write migrated document: %w", err)
	}

	log.Info().
		Str("file", fs.Path()).
		Str("output_file", outputPath).
		Int("from_version", result.FromVersion).
		Int("to_version", result.ToVersion).
		Strs("path", result.MigrationPath).
		Msg("Document migrated")

	fmt.Fprintf(out, "Upgraded v%d → v%d, written to %s\n", result.FromVersion, result.ToVersion, outputPath)
	return nil
}
