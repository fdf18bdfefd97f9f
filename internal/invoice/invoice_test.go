package invoice

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicer/internal/invoice/schemas"
	"invoicer/internal/richtext"
	"invoicer/pkg/models"
)

func fixedNow() time.Time {
	return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
}

func TestNewDocument(t *testing.T) {
	d := DefaultSettings()
	d.Locale = "de-DE"
	d.Currency = "EUR"
	d.Now = fixedNow

	doc := NewDocument(d)

	assert.Equal(t, schemas.CurrentVersion, doc.SchemaVersion)
	assert.Equal(t, "INV-0001", doc.InvoiceNumber)
	assert.Equal(t, "2024-01-15", doc.IssueDate)
	assert.Equal(t, "2024-02-14", doc.DueDate)
	assert.Equal(t, schemas.CountryCode("DE"), doc.FromCountryCode)
	assert.True(t, doc.ShowFromCountry)
	assert.True(t, doc.ShowFromRegistrationID)
	assert.False(t, doc.ShipToEnabled)
	require.Len(t, doc.LineItems, 1)

	_, err := uuid.Parse(doc.LineItems[0].ID)
	assert.NoError(t, err)
}

func TestNewDocumentQuote(t *testing.T) {
	d := DefaultSettings()
	d.DocumentType = models.DocumentTypeQuote
	d.Locale = "xx-invalid-locale-tag"

	doc := NewDocument(d)
	assert.Equal(t, "QUO-0001", doc.InvoiceNumber)
	assert.Equal(t, schemas.DefaultCountryCode, doc.FromCountryCode)
}

func TestMergeDefaultsFillsOnlyMissing(t *testing.T) {
	defaults := NewDocument(DefaultSettings())
	raw := schemas.Raw{
		"fromName":     "Acme",
		"customerName": nil,
		"currency":     "EUR",
		"logo":         "keep me",
	}

	merged, filled, err := MergeDefaults(raw, defaults)
	require.NoError(t, err)

	assert.Equal(t, "Acme", merged["fromName"])
	assert.Equal(t, "EUR", merged["currency"])
	assert.Equal(t, "keep me", merged["logo"])
	assert.Equal(t, "", merged["customerName"])
	assert.Equal(t, defaults.InvoiceNumber, merged["invoiceNumber"])
	assert.Contains(t, filled, "customerName")
	assert.Contains(t, filled, "lineItems")
	assert.NotContains(t, filled, "fromName")

	// input untouched
	assert.Nil(t, raw["customerName"])
	assert.NotContains(t, raw, "invoiceNumber")
}

func validDocument() schemas.Current {
	d := DefaultSettings()
	d.Now = fixedNow
	doc := NewDocument(d)
	doc.FromName = "Acme"
	doc.CustomerName = "Client"
	return doc
}

func TestValidateDocumentAcceptsDefaults(t *testing.T) {
	doc := validDocument()
	assert.NoError(t, ValidateDocument(&doc))
}

func TestValidateDocumentReportsFields(t *testing.T) {
	doc := validDocument()
	doc.Currency = "euro"
	doc.IssueDate = "15/01/2024"
	doc.FromEmail = "not-an-email"
	doc.CustomerCountryCode = "ZZ"
	doc.StyleID = "neon"
	doc.TaxRate = 120
	doc.LineItems = append(doc.LineItems, models.LineItem{Quantity: -1})

	err := ValidateDocument(&doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDocument))

	var verr *DocumentValidationError
	require.ErrorAs(t, err, &verr)

	var fields []string
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{
		"currency",
		"customerCountryCode",
		"fromEmail",
		"issueDate",
		"lineItems.1.id",
		"lineItems.1.quantity",
		"styleId",
		"taxRate",
	}, fields)
}

func TestCalculateTotals(t *testing.T) {
	doc := validDocument()
	doc.LineItems = []models.LineItem{
		{ID: "a", Name: richtext.Text("Design"), Quantity: 2, Price: 50},
		{ID: "b", Name: richtext.Text("Hosting"), Quantity: 1, Price: 19.99},
	}
	doc.DiscountRate = 10
	doc.TaxRate = 20
	doc.ShippingAmount = 5

	totals := CalculateTotals(&doc)

	assert.Equal(t, "119.99", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "12.00", totals.Discount.StringFixed(2))
	assert.Equal(t, "21.60", totals.Tax.StringFixed(2))
	assert.Equal(t, "5.00", totals.Shipping.StringFixed(2))
	assert.Equal(t, "134.59", totals.Total.StringFixed(2))
	assert.Equal(t, "USD", totals.Currency)
}

func TestCalculateTotalsEmpty(t *testing.T) {
	doc := schemas.Current{}
	totals := CalculateTotals(&doc)
	assert.True(t, totals.Total.IsZero())
}

func TestFormatMoney(t *testing.T) {
	amount := decimal.RequireFromString("1234.5")

	assert.Equal(t, "1,234.50 USD", FormatMoney(amount, "USD", "en-US"))
	assert.Equal(t, "1.234,50 EUR", FormatMoney(amount, "EUR", "de-DE"))
	assert.Equal(t, "1,234.50 XYZ", FormatMoney(amount, "xyz", "not a locale"))
}
