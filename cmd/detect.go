package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"invoicer/internal/invoice/migrations"
	"invoicer/internal/invoice/schemas"
	"invoicer/internal/logger"
)

var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "Detect the schema version of a document",
	Long: `Report which schema version a document file is written in, how the
version was determined and whether the document needs to be upgraded.

A document carrying a schemaVersion field is reported with explicit
confidence. Older documents have no version tag; their version is inferred
from the fields they contain.`,
	Example: `  # Detect the version of the configured state file
  invoicer detect

  # Detect the version of a specific file as YAML
  invoicer detect old-invoice.json --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

// DetectOutput is the structured output of the detect command
type DetectOutput struct {
	File                 string `json:"file" yaml:"file"`
	migrations.Detection `yaml:",inline"`
	CurrentVersion       int  `json:"currentVersion" yaml:"currentVersion"`
	NeedsMigration       bool `json:"needsMigration" yaml:"needsMigration"`
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringP("format", "f", formatText, "Output format: text, json or yaml")
}

func runDetect(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("detect")

	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
		return err
	}

	ctx, cancel := commandContext(log)
	defer cancel()

	fs := openStore(args)
	data, err := fs.Read(ctx)
	if err != nil {
		return handleLoadError(err, log)
	}

	detection := migrations.DetectSchemaVersion(data)
	output := DetectOutput{
		File:           fs.Path(),
		Detection:      detection,
		CurrentVersion: schemas.CurrentVersion,
		NeedsMigration: migrations.NeedsMigration(data),
	}

	log.Debug().
		Str("file", fs.Path()).
		Int("version", detection.Version).
		Str("confidence", string(detection.Confidence)).
		Msg("Schema version detected")

	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), output, format)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:            %s\n", output.File)
	fmt.Fprintf(out, "Schema version:  v%d (%s)\n", detection.Version, detection.Confidence)
	fmt.Fprintf(out, "Reason:          %s\n", detection.Reason)
	if output.NeedsMigration {
		fmt.Fprintf(out, "Status:          needs upgrade to v%d\n", schemas.CurrentVersion)
	} else {
		fmt.Fprintln(out, "Status:          current")
	}
	return nil
}
