package invoice

import (
	"github.com/shopspring/decimal"
	"invoicer/internal/invoice/schemas"
	"invoicer/pkg/models"
)

var hundred = decimal.NewFromInt(100)

// CalculateTotals computes the money amounts of doc, each rounded to cents.
//
// The discount applies to the subtotal, tax applies to the discounted
// subtotal, and shipping is added untaxed.
func CalculateTotals(doc *schemas.Current) models.Totals {
	subtotal := decimal.Zero
	for _, item := range doc.LineItems {
		subtotal = subtotal.Add(LineAmount(item))
	}
	subtotal = subtotal.Round(2)

	discount := subtotal.Mul(decimal.NewFromFloat(doc.DiscountRate)).Div(hundred).Round(2)
	tax := subtotal.Sub(discount).Mul(decimal.NewFromFloat(doc.TaxRate)).Div(hundred).Round(2)
	shipping := decimal.NewFromFloat(doc.ShippingAmount).Round(2)

	return models.Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Sub(discount).Add(tax).Add(shipping),
		Currency: doc.Currency,
	}
}

// LineAmount is quantity times price, unrounded.
func LineAmount(item models.LineItem) decimal.Decimal {
	return decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.Price))
}
