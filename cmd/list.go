package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"invoicer/internal/invoice/schemas"
	"invoicer/internal/theme"
)

var listCmd = &cobra.Command{
	Use:       "list {layouts|styles|countries}",
	Short:     "List known layouts, styles or country codes",
	Example:   `  invoicer list countries --format yaml`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"layouts", "styles", "countries"},
	RunE:      runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("format", "f", formatText, "Output format: text, json or yaml")
}

func runList(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
		return err
	}

	var rows [][2]string
	switch args[0] {
	case "layouts":
		for _, id := range theme.LayoutIDs() {
			rows = append(rows, [2]string{id, theme.GetLayout(id).Name})
		}
	case "styles":
		for _, id := range theme.StyleIDs() {
			rows = append(rows, [2]string{id, theme.GetStyle(id).Name})
		}
	case "countries":
		for _, c := range schemas.Countries() {
			rows = append(rows, [2]string{string(c.Code), c.Name})
		}
	}

	if format != formatText {
		entries := make([]map[string]string, len(rows))
		for i, row := range rows {
			entries[i] = map[string]string{"id": row[0], "name": row[1]}
		}
		return writeStructured(cmd.OutOrStdout(), entries, format)
	}

	for _, row := range rows {
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", row[0], row[1])
	}
	return nil
}
