package migrations

import (
	"fmt"
	"strings"

	"invoicer/internal/invoice/schemas"
)

// MigrateV1ToV2 converts free-text countries to codes and adds the ship-to
// block and registration IDs.
//
// A country that was filled in stays visible; an empty one is hidden. The
// ship-to block starts disabled and empty, registration IDs start empty and
// visible.
func MigrateV1ToV2(in schemas.V1) schemas.V2 {
	return schemas.V2{
		SchemaVersion: 2,

		DocumentType: in.DocumentType,
		LayoutID:     in.LayoutID,
		StyleID:      in.StyleID,
		Locale:       in.Locale,
		NumberLocale: in.NumberLocale,
		Currency:     in.Currency,

		InvoiceNumber: in.InvoiceNumber,
		IssueDate:     in.IssueDate,
		DueDate:       in.DueDate,

		FromName:               in.FromName,
		FromEmail:              in.FromEmail,
		FromPhone:              in.FromPhone,
		FromAddress:            in.FromAddress,
		FromCity:               in.FromCity,
		FromPostalCode:         in.FromPostalCode,
		FromCountryCode:        schemas.CountryCodeFromName(in.FromCountry),
		ShowFromCountry:        hasText(in.FromCountry),
		FromRegistrationID:     "",
		ShowFromRegistrationID: true,

		CustomerName:               in.CustomerName,
		CustomerEmail:              in.CustomerEmail,
		CustomerAddress:            in.CustomerAddress,
		CustomerCity:               in.CustomerCity,
		CustomerPostalCode:         in.CustomerPostalCode,
		CustomerCountryCode:        schemas.CountryCodeFromName(in.CustomerCountry),
		ShowCustomerCountry:        hasText(in.CustomerCountry),
		CustomerRegistrationID:     "",
		ShowCustomerRegistrationID: true,

		ShipToEnabled:     false,
		ShipToName:        "",
		ShipToAddress:     "",
		ShipToCity:        "",
		ShipToPostalCode:  "",
		ShipToCountryCode: "",

		LineItems: in.LineItems,

		TaxRate:        in.TaxRate,
		DiscountRate:   in.DiscountRate,
		ShippingAmount: in.ShippingAmount,

		PaymentDetails: in.PaymentDetails,
		Notes:          in.Notes,
	}
}

func describeV1ToV2(raw schemas.Raw) []string {
	var lines []string
	for _, pair := range [][2]string{
		{fieldFromCountry, fieldFromCountryCode},
		{fieldCustomerCountry, fieldCustomerCountryCode},
	} {
		name, ok := raw[pair[0]].(string)
		if !ok {
			continue
		}
		line := fmt.Sprintf("Convert country names to codes: %s '%s' → %s %s",
			pair[0], name, pair[1], schemas.CountryCodeFromName(name))
		if !hasText(name) {
			line += " (empty, the country will be hidden)"
		}
		lines = append(lines, line)
	}

	return append(lines,
		"Add country visibility toggles (showFromCountry, showCustomerCountry)",
		"Add optional ship-to address fields (disabled by default)",
		"Add registration ID fields for biller and customer (empty, visible)",
	)
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
