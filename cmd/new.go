package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"invoicer/internal/invoice"
	"invoicer/internal/logger"
	"invoicer/internal/store"
	"invoicer/pkg/models"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new document with default values",
	Long: `Write a new invoice or quote in the current schema. Currency, locale,
layout and style come from the INVOICER_DEFAULT_* environment variables.`,
	Example: `  # Create the configured state file
  invoicer new

  # Create a quote in a specific file
  invoicer new --type quote -o quote.json`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringP("output", "o", "", "Output file path (default: INVOICER_STATE_FILE)")
	newCmd.Flags().StringP("type", "t", models.DocumentTypeInvoice, "Document type: invoice or quote")
	newCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func runNew(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("new")

	outputPath, _ := cmd.Flags().GetString("output")
	docType, _ := cmd.Flags().GetString("type")
	force, _ := cmd.Flags().GetBool("force")

	if docType != models.DocumentTypeInvoice && docType != models.DocumentTypeQuote {
		return fmt.Errorf("invalid document type %q (use invoice or quote)", docType)
	}

	path := documentPath([]string{outputPath})
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error accessing %s: %w", path, err)
	}

	defaults := documentDefaults()
	defaults.DocumentType = docType
	doc := invoice.NewDocument(defaults)

	ctx, cancel := commandContext(log)
	defer cancel()

	if err := store.NewFileStore(path, defaults).Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s in %s\n", docType, doc.InvoiceNumber, path)
	return nil
}
