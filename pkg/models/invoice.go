package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Document types supported by the builder.
const (
	DocumentTypeInvoice = "invoice"
	DocumentTypeQuote   = "quote"
)

// LineItem is a single billable row. Its shape is identical in every schema
// version; Name and Description hold rich-text values that are opaque to
// schema migration.
type LineItem struct {
	ID          string          `json:"id"`
	Name        json.RawMessage `json:"name"`
	Description json.RawMessage `json:"description,omitempty"`
	Quantity    float64         `json:"quantity"`
	Price       float64         `json:"price"`
}

// Totals holds the computed money amounts of a document, rounded to cents.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"` // ISO 4217 code
}
