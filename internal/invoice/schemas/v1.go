package schemas

import "invoicer/pkg/models"

// V1 is the original, unversioned document shape.
//
// Frozen: do not edit. Countries are free text and there is no version tag.
type V1 struct {
	DocumentType string `json:"documentType"`
	LayoutID     string `json:"layoutId"`
	StyleID      string `json:"styleId"`
	Locale       string `json:"locale"`
	NumberLocale string `json:"numberLocale"`
	Currency     string `json:"currency"`

	InvoiceNumber string `json:"invoiceNumber"`
	IssueDate     string `json:"issueDate"`
	DueDate       string `json:"dueDate"`

	FromName       string `json:"fromName"`
	FromEmail      string `json:"fromEmail"`
	FromPhone      string `json:"fromPhone"`
	FromAddress    string `json:"fromAddress"`
	FromCity       string `json:"fromCity"`
	FromPostalCode string `json:"fromPostalCode"`
	FromCountry    string `json:"fromCountry"`

	CustomerName       string `json:"customerName"`
	CustomerEmail      string `json:"customerEmail"`
	CustomerAddress    string `json:"customerAddress"`
	CustomerCity       string `json:"customerCity"`
	CustomerPostalCode string `json:"customerPostalCode"`
	CustomerCountry    string `json:"customerCountry"`

	LineItems []models.LineItem `json:"lineItems"`

	TaxRate        float64 `json:"taxRate"`
	DiscountRate   float64 `json:"discountRate"`
	ShippingAmount float64 `json:"shippingAmount"`

	PaymentDetails string `json:"paymentDetails"`
	Notes          string `json:"notes"`
}

// Version implements Document.
func (V1) Version() int { return 1 }

func (V1) sealed() {}
