// Package invoice holds the document-level operations that sit around schema
// migration: the built-in default document, merging defaults into loaded
// data, typed field validation, totals and money formatting.
//
// The persisted shape lives in the schemas package and is upgraded by the
// migrations package; everything here works on schemas.Current.
package invoice

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"invoicer/internal/invoice/schemas"
	"invoicer/internal/richtext"
	"invoicer/pkg/models"
)

// PaymentTermDays is the gap between issue and due date of a new document.
const PaymentTermDays = 30

// Defaults holds the settings a new document is created with.
type Defaults struct {
	DocumentType string
	Currency     string
	Locale       string
	Layout       string
	Style        string

	// Now returns the current time. Default: time.Now.
	Now func() time.Time
}

// DefaultSettings returns Defaults with sensible values.
func DefaultSettings() Defaults {
	return Defaults{
		DocumentType: models.DocumentTypeInvoice,
		Currency:     "USD",
		Locale:       "en-US",
		Layout:       "classic",
		Style:        "classic",
	}
}

// NewDocument returns the built-in initial state: one empty line item, dates
// starting today, and the biller country taken from the locale's region.
func NewDocument(d Defaults) schemas.Current {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	issued := now()

	prefix := "INV"
	if d.DocumentType == models.DocumentTypeQuote {
		prefix = "QUO"
	}

	country := localeCountry(d.Locale)

	return schemas.Current{
		SchemaVersion: schemas.CurrentVersion,

		DocumentType: d.DocumentType,
		LayoutID:     d.Layout,
		StyleID:      d.Style,
		Locale:       d.Locale,
		NumberLocale: d.Locale,
		Currency:     d.Currency,

		InvoiceNumber: fmt.Sprintf("%s-0001", prefix),
		IssueDate:     issued.Format(DateLayout),
		DueDate:       issued.AddDate(0, 0, PaymentTermDays).Format(DateLayout),

		FromCountryCode:            country,
		ShowFromCountry:            true,
		ShowFromRegistrationID:     true,
		CustomerCountryCode:        country,
		ShowCustomerCountry:        true,
		ShowCustomerRegistrationID: true,

		LineItems: []models.LineItem{NewLineItem("", 1, 0)},
	}
}

// NewLineItem creates a line item with a fresh ID and a plain-text name.
func NewLineItem(name string, quantity, price float64) models.LineItem {
	return models.LineItem{
		ID:       uuid.NewString(),
		Name:     richtext.Text(name),
		Quantity: quantity,
		Price:    price,
	}
}

// MergeDefaults fills every key of raw that is absent or null with the value
// from defaults. Present keys are never overwritten. It returns a new map and
// the filled keys in schema order; raw itself is not modified.
func MergeDefaults(raw schemas.Raw, defaults schemas.Current) (schemas.Raw, []string, error) {
	base, err := schemas.Encode(defaults)
	if err != nil {
		return nil, nil, err
	}

	merged := make(schemas.Raw, len(raw)+len(base))
	for key, value := range raw {
		merged[key] = value
	}

	var filled []string
	for _, key := range schemas.FieldNames(defaults) {
		if value, ok := merged[key]; ok && value != nil {
			continue
		}
		merged[key] = base[key]
		filled = append(filled, key)
	}
	return merged, filled, nil
}

func localeCountry(locale string) schemas.CountryCode {
	tag, err := language.Parse(locale)
	if err != nil {
		return schemas.DefaultCountryCode
	}
	region, _ := tag.Region()
	code := schemas.CountryCode(region.String())
	if !schemas.IsValidCountryCode(code) {
		return schemas.DefaultCountryCode
	}
	return code
}
