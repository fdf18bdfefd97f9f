package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatMoney renders amount with two decimals using the grouping and
// decimal separators of numberLocale, followed by the ISO currency code.
// Unparseable locales fall back to American English.
func FormatMoney(amount decimal.Decimal, currencyCode, numberLocale string) string {
	return FormatNumber(amount, numberLocale) + " " + canonicalCurrency(currencyCode)
}

// FormatNumber renders amount with two decimals in numberLocale.
func FormatNumber(amount decimal.Decimal, numberLocale string) string {
	tag, err := language.Parse(numberLocale)
	if err != nil {
		tag = language.AmericanEnglish
	}

	f, _ := amount.Round(2).Float64()
	return message.NewPrinter(tag).Sprint(number.Decimal(f, number.Scale(2)))
}

func canonicalCurrency(code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	return unit.String()
}

// FormatQuantity renders a line item quantity with up to three decimals.
func FormatQuantity(quantity float64, numberLocale string) string {
	tag, err := language.Parse(numberLocale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return message.NewPrinter(tag).Sprint(number.Decimal(quantity, number.MaxFractionDigits(3)))
}
