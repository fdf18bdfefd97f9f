package migrations

import "invoicer/internal/invoice/schemas"

// InvalidShape is the single entry ValidateCurrentSchema returns for values
// that are not JSON objects.
const InvalidShape = "invalid data: expected a JSON object"

// RequiredFields are the load-bearing fields of a current document.
var RequiredFields = []string{
	"invoiceNumber",
	"documentType",
	"locale",
	"numberLocale",
	"fromName",
	"customerName",
	"lineItems",
	"currency",
}

// ValidateCurrentSchema returns the required fields missing from data, in
// RequiredFields order. An empty result means the document is usable. A key
// holding null counts as missing.
func ValidateCurrentSchema(data any) []string {
	raw, ok := schemas.AsObject(data)
	if !ok {
		return []string{InvalidShape}
	}

	missing := []string{}
	for _, field := range RequiredFields {
		if value, ok := raw[field]; !ok || value == nil {
			missing = append(missing, field)
		}
	}
	return missing
}
