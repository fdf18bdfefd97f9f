package migrations

import (
	"fmt"

	"invoicer/internal/invoice/schemas"
)

// MigrateV2ToV3 adds an empty purchase order number. A purchase order number
// already present in the source file is kept by the step adapter.
func MigrateV2ToV3(in schemas.V2) schemas.V3 {
	return schemas.V3{
		SchemaVersion: 3,

		DocumentType: in.DocumentType,
		LayoutID:     in.LayoutID,
		StyleID:      in.StyleID,
		Locale:       in.Locale,
		NumberLocale: in.NumberLocale,
		Currency:     in.Currency,

		InvoiceNumber:       in.InvoiceNumber,
		PurchaseOrderNumber: "",
		IssueDate:           in.IssueDate,
		DueDate:             in.DueDate,

		FromName:               in.FromName,
		FromEmail:              in.FromEmail,
		FromPhone:              in.FromPhone,
		FromAddress:            in.FromAddress,
		FromCity:               in.FromCity,
		FromPostalCode:         in.FromPostalCode,
		FromCountryCode:        in.FromCountryCode,
		ShowFromCountry:        in.ShowFromCountry,
		FromRegistrationID:     in.FromRegistrationID,
		ShowFromRegistrationID: in.ShowFromRegistrationID,

		CustomerName:               in.CustomerName,
		CustomerEmail:              in.CustomerEmail,
		CustomerAddress:            in.CustomerAddress,
		CustomerCity:               in.CustomerCity,
		CustomerPostalCode:         in.CustomerPostalCode,
		CustomerCountryCode:        in.CustomerCountryCode,
		ShowCustomerCountry:        in.ShowCustomerCountry,
		CustomerRegistrationID:     in.CustomerRegistrationID,
		ShowCustomerRegistrationID: in.ShowCustomerRegistrationID,

		ShipToEnabled:     in.ShipToEnabled,
		ShipToName:        in.ShipToName,
		ShipToAddress:     in.ShipToAddress,
		ShipToCity:        in.ShipToCity,
		ShipToPostalCode:  in.ShipToPostalCode,
		ShipToCountryCode: in.ShipToCountryCode,

		LineItems: in.LineItems,

		TaxRate:        in.TaxRate,
		DiscountRate:   in.DiscountRate,
		ShippingAmount: in.ShippingAmount,

		PaymentDetails: in.PaymentDetails,
		Notes:          in.Notes,
	}
}

func describeV2ToV3(raw schemas.Raw) []string {
	if po, ok := raw[fieldPurchaseOrderNumber].(string); ok && po != "" {
		return []string{fmt.Sprintf("Add purchase order number field (purchaseOrderNumber, keeping existing '%s')", po)}
	}
	return []string{"Add purchase order number field (purchaseOrderNumber, empty)"}
}
