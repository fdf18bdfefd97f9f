package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"invoicer/internal/logger"
	"invoicer/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a document as PDF",
	Long: `Render a document as an A4 PDF using its layout and style. Older
documents are upgraded in memory first; the source file is not changed.`,
	Example: `  # Render next to the source file (invoice.pdf)
  invoicer render invoice.json

  # Render with a payment QR code to a specific file
  invoicer render invoice.json --qr -o out/INV-0001.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "", "Output PDF path (default: FILE with .pdf extension)")
	renderCmd.Flags().Bool("qr", false, "Add a QR code with the payment details")
}

func runRender(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("render")

	outputPath, _ := cmd.Flags().GetString("output")
	withQR, _ := cmd.Flags().GetBool("qr")

	fs := openStore(args)
	if outputPath == "" {
		outputPath = strings.TrimSuffix(fs.Path(), filepath.Ext(fs.Path())) + ".pdf"
	}

	ctx, cancel := commandContext(log)
	defer cancel()

	loaded, err := fs.Load(ctx)
	if err != nil {
		return handleLoadError(err, log)
	}
	for _, warning := range loaded.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}

	pdfData, err := render.PDF(&loaded.Document, render.Options{PaymentQR: withQR})
	if err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}

	if err := os.WriteFile(outputPath, pdfData, 0644); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Str("output_file", outputPath).
		Int("bytes", len(pdfData)).
		Msg("PDF written to file")

	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s\n", outputPath)
	return nil
}
