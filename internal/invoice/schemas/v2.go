package schemas

import "invoicer/pkg/models"

// V2 replaces free-text countries with country codes and visibility toggles,
// and adds the ship-to block and registration IDs.
//
// Frozen: do not edit.
type V2 struct {
	SchemaVersion int `json:"schemaVersion"`

	DocumentType string `json:"documentType"`
	LayoutID     string `json:"layoutId"`
	StyleID      string `json:"styleId"`
	Locale       string `json:"locale"`
	NumberLocale string `json:"numberLocale"`
	Currency     string `json:"currency"`

	InvoiceNumber string `json:"invoiceNumber"`
	IssueDate     string `json:"issueDate"`
	DueDate       string `json:"dueDate"`

	FromName               string      `json:"fromName"`
	FromEmail              string      `json:"fromEmail"`
	FromPhone              string      `json:"fromPhone"`
	FromAddress            string      `json:"fromAddress"`
	FromCity               string      `json:"fromCity"`
	FromPostalCode         string      `json:"fromPostalCode"`
	FromCountryCode        CountryCode `json:"fromCountryCode"`
	ShowFromCountry        bool        `json:"showFromCountry"`
	FromRegistrationID     string      `json:"fromRegistrationId"`
	ShowFromRegistrationID bool        `json:"showFromRegistrationId"`

	CustomerName               string      `json:"customerName"`
	CustomerEmail              string      `json:"customerEmail"`
	CustomerAddress            string      `json:"customerAddress"`
	CustomerCity               string      `json:"customerCity"`
	CustomerPostalCode         string      `json:"customerPostalCode"`
	CustomerCountryCode        CountryCode `json:"customerCountryCode"`
	ShowCustomerCountry        bool        `json:"showCustomerCountry"`
	CustomerRegistrationID     string      `json:"customerRegistrationId"`
	ShowCustomerRegistrationID bool        `json:"showCustomerRegistrationId"`

	ShipToEnabled     bool        `json:"shipToEnabled"`
	ShipToName        string      `json:"shipToName"`
	ShipToAddress     string      `json:"shipToAddress"`
	ShipToCity        string      `json:"shipToCity"`
	ShipToPostalCode  string      `json:"shipToPostalCode"`
	ShipToCountryCode CountryCode `json:"shipToCountryCode"`

	LineItems []models.LineItem `json:"lineItems"`

	TaxRate        float64 `json:"taxRate"`
	DiscountRate   float64 `json:"discountRate"`
	ShippingAmount float64 `json:"shippingAmount"`

	PaymentDetails string `json:"paymentDetails"`
	Notes          string `json:"notes"`
}

// Version implements Document.
func (V2) Version() int { return 2 }

func (V2) sealed() {}
