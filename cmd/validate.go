package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"invoicer/internal/invoice"
	"invoicer/internal/invoice/migrations"
	"invoicer/internal/logger"
)

// ErrValidationFailed is returned when a document has validation issues
var ErrValidationFailed = errors.New("document is not valid")

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a document for missing and invalid fields",
	Long: `Check that a document has every required field and that each field
holds a usable value. Older documents are upgraded in memory first; the file
itself is not changed.

The command exits with a non-zero status when any issue is found.`,
	Example: `  invoicer validate invoice.json`,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("validate")

	ctx, cancel := commandContext(log)
	defer cancel()

	fs := openStore(args)
	data, err := fs.Read(ctx)
	if err != nil {
		return handleLoadError(err, log)
	}

	result, err := migrations.Migrate(data)
	if err != nil {
		return handleLoadError(err, log)
	}

	out := cmd.OutOrStdout()
	missing := migrations.ValidateCurrentSchema(result.Data)
	if len(missing) == 1 && missing[0] == migrations.InvalidShape {
		fmt.Fprintln(out, missing[0])
		return ErrValidationFailed
	}

	var issues []string
	for _, field := range missing {
		issues = append(issues, fmt.Sprintf("%s: required field is missing", field))
	}

	doc, warnings, err := result.Current()
	if err != nil {
		return err
	}
	issues = append(issues, warnings...)

	var validationErr *invoice.DocumentValidationError
	if err := invoice.ValidateDocument(&doc); err != nil {
		if !errors.As(err, &validationErr) {
			return fmt.Errorf("validation failed: %w", err)
		}
		for _, field := range validationErr.Fields {
			issues = append(issues, field.Error())
		}
	}

	log.Info().
		Str("file", fs.Path()).
		Int("from_version", result.FromVersion).
		Int("issues", len(issues)).
		Msg("Document validated")

	if len(issues) == 0 {
		fmt.Fprintf(out, "%s is valid (schema v%d)\n", fs.Path(), result.ToVersion)
		return nil
	}

	fmt.Fprintf(out, "%s has %d issue(s):\n", fs.Path(), len(issues))
	for _, issue := range issues {
		fmt.Fprintf(out, "  - %s\n", issue)
	}
	return ErrValidationFailed
}
