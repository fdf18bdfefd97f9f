package invoice

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/text/language"
	"invoicer/internal/invoice/schemas"
	"invoicer/internal/theme"
	"invoicer/pkg/models"
)

// DateLayout is the format of issue and due dates.
const DateLayout = "2006-01-02"

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateDocument checks the field rules of a current document. Unlike the
// migration validator, which only looks for load-bearing keys, this checks
// values: codes, dates, rates, theme IDs and line items. The returned error is
// a *DocumentValidationError listing every failed field.
func ValidateDocument(doc *schemas.Current) error {
	err := validation.ValidateStruct(doc,
		validation.Field(&doc.SchemaVersion, validation.Required, validation.In(schemas.CurrentVersion)),
		validation.Field(&doc.DocumentType, validation.Required, validation.In(models.DocumentTypeInvoice, models.DocumentTypeQuote)),
		validation.Field(&doc.LayoutID, validation.By(knownID(theme.HasLayout, "unknown layout"))),
		validation.Field(&doc.StyleID, validation.By(knownID(theme.HasStyle, "unknown style"))),
		validation.Field(&doc.Locale, validation.Required, validation.By(validLocale)),
		validation.Field(&doc.NumberLocale, validation.Required, validation.By(validLocale)),
		validation.Field(&doc.Currency,
			validation.Required,
			validation.Match(currencyCode).Error("must be a three-letter ISO 4217 code"),
		),
		validation.Field(&doc.InvoiceNumber, validation.Required, validation.Length(1, 64)),
		validation.Field(&doc.IssueDate, validation.Date(DateLayout)),
		validation.Field(&doc.DueDate, validation.Date(DateLayout)),
		validation.Field(&doc.FromName, validation.Required),
		validation.Field(&doc.FromEmail, is.EmailFormat),
		validation.Field(&doc.FromCountryCode, validation.By(validCountry)),
		validation.Field(&doc.CustomerName, validation.Required),
		validation.Field(&doc.CustomerEmail, is.EmailFormat),
		validation.Field(&doc.CustomerCountryCode, validation.By(validCountry)),
		validation.Field(&doc.ShipToCountryCode, validation.By(validCountry)),
		validation.Field(&doc.LineItems, validation.Each(validation.By(validLineItem))),
		validation.Field(&doc.TaxRate, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&doc.DiscountRate, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&doc.ShippingAmount, validation.Min(0.0)),
	)
	return newDocumentValidationError(err)
}

func validLineItem(value interface{}) error {
	item, ok := value.(models.LineItem)
	if !ok {
		return errors.New("must be a line item")
	}
	return validation.ValidateStruct(&item,
		validation.Field(&item.ID, validation.Required),
		validation.Field(&item.Quantity, validation.Min(0.0)),
	)
}

func validLocale(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := language.Parse(s); err != nil {
		return errors.New("must be a BCP 47 language tag")
	}
	return nil
}

func validCountry(value interface{}) error {
	code, _ := value.(schemas.CountryCode)
	if code == "" || schemas.IsValidCountryCode(code) {
		return nil
	}
	return errors.New("unknown country code")
}

func knownID(known func(string) bool, message string) validation.RuleFunc {
	return func(value interface{}) error {
		id, _ := value.(string)
		if id == "" || known(id) {
			return nil
		}
		return errors.New(message)
	}
}
