package schemas

import "invoicer/pkg/models"

// V3 is the current document shape: V2 plus a purchase order number.
//
// Frozen once a V4 exists.
type V3 struct {
	SchemaVersion int `json:"schemaVersion"`

	DocumentType string `json:"documentType"`
	LayoutID     string `json:"layoutId"`
	StyleID      string `json:"styleId"`
	Locale       string `json:"locale"`
	NumberLocale string `json:"numberLocale"`
	Currency     string `json:"currency"`

	InvoiceNumber       string `json:"invoiceNumber"`
	PurchaseOrderNumber string `json:"purchaseOrderNumber"`
	IssueDate           string `json:"issueDate"`
	DueDate             string `json:"dueDate"`

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
func (V3) Version() int { return 3 }

func (V3) sealed() {}

// Current is the in-memory shape every document is migrated to.
type Current = V3
