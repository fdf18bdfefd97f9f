package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"invoicer/internal/invoice"
	"invoicer/internal/logger"
	"invoicer/internal/richtext"
)

var lineCmd = &cobra.Command{
	Use:   "line",
	Short: "Edit the line items of a document",
}

var lineAddCmd = &cobra.Command{
	Use:   "add [file] name",
	Short: "Append a line item",
	Long: `Append a line item to a document and save it. The document is upgraded
to the current schema when it is saved.`,
	Example: `  invoicer line add invoice.json "Consulting" --qty 8 --price 95
  invoicer line add "Hosting" --price 20`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLineAdd,
}

var lineRichTextCmd = &cobra.Command{
	Use:   "richtext [file]",
	Short: "Convert plain-text line item names to rich text",
	Long: `Replace every plain-text line item name with an equivalent rich-text
document, one paragraph per line. Names that are already rich text are kept.
This conversion is independent of schema upgrades.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLineRichText,
}

func init() {
	rootCmd.AddCommand(lineCmd)
	lineCmd.AddCommand(lineAddCmd)
	lineCmd.AddCommand(lineRichTextCmd)

	lineAddCmd.Flags().Float64("qty", 1, "Quantity")
	lineAddCmd.Flags().Float64("price", 0, "Unit price")
}

func runLineAdd(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("line")

	quantity, _ := cmd.Flags().GetFloat64("qty")
	price, _ := cmd.Flags().GetFloat64("price")

	if quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}

	name := args[len(args)-1]
	fs := openStore(args[:len(args)-1])

	ctx, cancel := commandContext(log)
	defer cancel()

	loaded, err := fs.Load(ctx)
	if err != nil {
		return handleLoadError(err, log)
	}

	doc := loaded.Document
	item := invoice.NewLineItem(name, quantity, price)
	doc.LineItems = append(doc.LineItems, item)

	if err := fs.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	log.Info().
		Str("file", fs.Path()).
		Str("item_id", item.ID).
		Msg("Line item added")

	fmt.Fprintf(cmd.OutOrStdout(), "Added line item %s, amount %s\n", item.ID,
		invoice.FormatMoney(invoice.LineAmount(item), doc.Currency, doc.NumberLocale))
	return nil
}

func runLineRichText(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("line")

	fs := openStore(args)

	ctx, cancel := commandContext(log)
	defer cancel()

	loaded, err := fs.Load(ctx)
	if err != nil {
		return handleLoadError(err, log)
	}

	doc := loaded.Document
	items, converted := richtext.UpgradeLineItemNames(doc.LineItems)
	if converted == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No plain-text names to convert.")
		return nil
	}
	doc.LineItems = items

	if err := fs.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	log.Info().
		Str("file", fs.Path()).
		Int("converted", converted).
		Msg("Line item names converted to rich text")

	fmt.Fprintf(cmd.OutOrStdout(), "Converted %d line item name(s)\n", converted)
	return nil
}
