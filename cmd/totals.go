package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"invoicer/internal/invoice"
	"invoicer/internal/logger"
)

var totalsCmd = &cobra.Command{
	Use:   "totals [file]",
	Short: "Print the totals of a document",
	Long: `Calculate subtotal, discount, tax, shipping and total of a document,
formatted for its number locale.`,
	Example: `  invoicer totals invoice.json
  invoicer totals invoice.json --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTotals,
}

// TotalsOutput is the structured output of the totals command. Amounts are
// decimal strings with two places.
type TotalsOutput struct {
	InvoiceNumber string `json:"invoiceNumber" yaml:"invoiceNumber"`
	Currency      string `json:"currency" yaml:"currency"`
	Subtotal      string `json:"subtotal" yaml:"subtotal"`
	Discount      string `json:"discount" yaml:"discount"`
	Tax           string `json:"tax" yaml:"tax"`
	Shipping      string `json:"shipping" yaml:"shipping"`
	Total         string `json:"total" yaml:"total"`
}

func init() {
	rootCmd.AddCommand(totalsCmd)

	totalsCmd.Flags().StringP("format", "f", formatText, "Output format: text, json or yaml")
}

func runTotals(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("totals")

	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
		return err
	}

	ctx, cancel := commandContext(log)
	defer cancel()

	loaded, err := openStore(args).Load(ctx)
	if err != nil {
		return handleLoadError(err, log)
	}

	doc := loaded.Document
	totals := invoice.CalculateTotals(&doc)

	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), TotalsOutput{
			InvoiceNumber: doc.InvoiceNumber,
			Currency:      totals.Currency,
			Subtotal:      totals.Subtotal.StringFixed(2),
			Discount:      totals.Discount.StringFixed(2),
			Tax:           totals.Tax.StringFixed(2),
			Shipping:      totals.Shipping.StringFixed(2),
			Total:         totals.Total.StringFixed(2),
		}, format)
	}

	out := cmd.OutOrStdout()
	rows := []struct {
		label  string
		amount string
	}{
		{"Subtotal", invoice.FormatMoney(totals.Subtotal, totals.Currency, doc.NumberLocale)},
		{"Discount", invoice.FormatMoney(totals.Discount, totals.Currency, doc.NumberLocale)},
		{"Tax", invoice.FormatMoney(totals.Tax, totals.Currency, doc.NumberLocale)},
		{"Shipping", invoice.FormatMoney(totals.Shipping, totals.Currency, doc.NumberLocale)},
		{"Total", invoice.FormatMoney(totals.Total, totals.Currency, doc.NumberLocale)},
	}
	fmt.Fprintf(out, "%s %s\n", doc.DocumentType, doc.InvoiceNumber)
	for _, row := range rows {
		fmt.Fprintf(out, "  %-10s %24s\n", row.label, row.amount)
	}
	return nil
}
