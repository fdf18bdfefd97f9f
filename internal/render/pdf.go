// Package render draws documents of the current schema as A4 PDF pages.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"invoicer/internal/invoice"
	"invoicer/internal/invoice/schemas"
	"invoicer/internal/logger"
	"invoicer/internal/richtext"
	"invoicer/internal/theme"
	"invoicer/pkg/models"
)

// Page geometry in millimetres
const (
	pageWidth    = 210.0
	margin       = 15.0
	contentWidth = pageWidth - 2*margin
	lineHeight   = 5.0
	qrSize       = 28.0
)

// Options tunes the rendered output.
type Options struct {
	// PaymentQR draws a QR code encoding the payment details.
	PaymentQR bool
}

// PDF renders doc and returns the encoded file.
func PDF(doc *schemas.Current, opts Options) ([]byte, error) {
	log := logger.WithComponent("render")

	layout := theme.GetLayout(doc.LayoutID)
	style := theme.GetStyle(doc.StyleID)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(fmt.Sprintf("%s %s", title(doc), doc.InvoiceNumber), true)
	pdf.AddPage()

	p := &page{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		layout: layout,
		style:  style,
		doc:    doc,
	}

	p.header()
	p.parties()
	p.items()
	p.totals(invoice.CalculateTotals(doc))
	if err := p.footer(opts); err != nil {
		return nil, err
	}

	if err := pdf.Error(); err != nil {
		log.Error().Err(err).Str("invoice_number", doc.InvoiceNumber).Msg("PDF generation failed")
		return nil, fmt.Errorf("render PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}

	log.Debug().
		Str("invoice_number", doc.InvoiceNumber).
		Str("layout", layout.ID).
		Str("style", style.ID).
		Int("bytes", buf.Len()).
		Msg("Rendered PDF")

	return buf.Bytes(), nil
}

type page struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	layout theme.Layout
	style  theme.Style
	doc    *schemas.Current
}

func title(doc *schemas.Current) string {
	if doc.DocumentType == models.DocumentTypeQuote {
		return "QUOTE"
	}
	return "INVOICE"
}

func (p *page) font(styleStr string, size float64) {
	p.pdf.SetFont(p.style.Font, styleStr, size)
}

func (p *page) accent() {
	r, g, b := p.style.RGB()
	p.pdf.SetTextColor(r, g, b)
}

func (p *page) plain() {
	p.pdf.SetTextColor(0, 0, 0)
}

func (p *page) cell(w float64, text, align string) {
	p.pdf.CellFormat(w, lineHeight, p.tr(text), "", 1, align, false, 0, "")
}

func (p *page) header() {
	doc := p.doc
	align := p.layout.HeaderAlign

	p.accent()
	p.font("B", 22)
	p.pdf.CellFormat(contentWidth, 10, title(doc), "", 1, align, false, 0, "")
	p.plain()

	p.font("", 10)
	p.cell(contentWidth, "No. "+doc.InvoiceNumber, align)
	if doc.PurchaseOrderNumber != "" {
		p.cell(contentWidth, "PO "+doc.PurchaseOrderNumber, align)
	}
	if doc.IssueDate != "" {
		p.cell(contentWidth, "Issued: "+doc.IssueDate, align)
	}
	if doc.DueDate != "" {
		label := "Due: "
		if doc.DocumentType == models.DocumentTypeQuote {
			label = "Valid until: "
		}
		p.cell(contentWidth, label+doc.DueDate, align)
	}
	p.pdf.Ln(6)
}

// party is one address block.
type party struct {
	heading        string
	lines          []string
	registrationID string
}

func (p *page) parties() {
	doc := p.doc

	blocks := []party{
		{
			heading: "From",
			lines: addressLines(doc.FromName, doc.FromAddress, doc.FromCity, doc.FromPostalCode,
				doc.FromCountryCode, doc.ShowFromCountry, doc.FromEmail, doc.FromPhone),
			registrationID: visible(doc.FromRegistrationID, doc.ShowFromRegistrationID),
		},
		{
			heading: "Bill to",
			lines: addressLines(doc.CustomerName, doc.CustomerAddress, doc.CustomerCity, doc.CustomerPostalCode,
				doc.CustomerCountryCode, doc.ShowCustomerCountry, doc.CustomerEmail, ""),
			registrationID: visible(doc.CustomerRegistrationID, doc.ShowCustomerRegistrationID),
		},
	}
	if doc.ShipToEnabled {
		blocks = append(blocks, party{
			heading: "Ship to",
			lines: addressLines(doc.ShipToName, doc.ShipToAddress, doc.ShipToCity, doc.ShipToPostalCode,
				doc.ShipToCountryCode, doc.ShipToCountryCode != "", "", ""),
		})
	}

	colWidth := contentWidth / float64(len(blocks))
	top := p.pdf.GetY()
	bottom := top

	for i, block := range blocks {
		x := margin + float64(i)*colWidth
		p.pdf.SetXY(x, top)

		p.accent()
		p.font("B", 9)
		p.pdf.CellFormat(colWidth, lineHeight, p.tr(strings.ToUpper(block.heading)), "", 2, "L", false, 0, "")
		p.plain()

		p.font("", 10)
		for _, line := range block.lines {
			p.pdf.CellFormat(colWidth, lineHeight, p.tr(line), "", 2, "L", false, 0, "")
		}
		if block.registrationID != "" {
			p.pdf.CellFormat(colWidth, lineHeight, p.tr("Reg. ID: "+block.registrationID), "", 2, "L", false, 0, "")
		}

		if y := p.pdf.GetY(); y > bottom {
			bottom = y
		}
	}

	p.pdf.SetXY(margin, bottom)
	p.pdf.Ln(8)
}

func addressLines(name, address, city, postal string, country schemas.CountryCode, showCountry bool, email, phone string) []string {
	var lines []string
	for _, s := range []string{name, address, strings.TrimSpace(postal + " " + city)} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	if showCountry && country != "" {
		lines = append(lines, schemas.CountryName(country))
	}
	for _, s := range []string{email, phone} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

func visible(value string, show bool) string {
	if !show {
		return ""
	}
	return value
}

func (p *page) items() {
	doc := p.doc
	border := "B"
	if p.layout.HideBorders {
		border = ""
	}

	numWidth := 0.0
	if p.layout.ShowItemNumbers {
		numWidth = 10
	}
	qtyWidth, priceWidth, amountWidth := 20.0, 30.0, 30.0
	nameWidth := contentWidth - numWidth - qtyWidth - priceWidth - amountWidth

	r, g, b := p.style.RGB()
	p.pdf.SetFillColor(r, g, b)
	p.pdf.SetTextColor(255, 255, 255)
	p.font("B", 9)
	if numWidth > 0 {
		p.pdf.CellFormat(numWidth, 7, "#", "", 0, "C", true, 0, "")
	}
	p.pdf.CellFormat(nameWidth, 7, "Item", "", 0, "L", true, 0, "")
	p.pdf.CellFormat(qtyWidth, 7, "Qty", "", 0, "R", true, 0, "")
	p.pdf.CellFormat(priceWidth, 7, "Price", "", 0, "R", true, 0, "")
	p.pdf.CellFormat(amountWidth, 7, "Amount", "", 1, "R", true, 0, "")
	p.plain()

	p.font("", 10)
	for i, item := range doc.LineItems {
		name := richtext.PlainText(item.Name)
		if desc := richtext.PlainText(item.Description); desc != "" {
			name += "\n" + desc
		}
		lines := p.pdf.SplitLines([]byte(p.tr(name)), nameWidth)
		height := float64(max(len(lines), 1)) * lineHeight

		x, y := p.pdf.GetXY()
		if numWidth > 0 {
			p.pdf.CellFormat(numWidth, height, fmt.Sprintf("%d", i+1), border, 0, "C", false, 0, "")
		}
		p.pdf.MultiCell(nameWidth, lineHeight, p.tr(name), "", "L", false)
		if p.pdf.GetY()-y > height {
			height = p.pdf.GetY() - y
		}
		p.pdf.SetXY(x+numWidth+nameWidth, y)
		p.pdf.CellFormat(qtyWidth, height, invoice.FormatQuantity(item.Quantity, doc.NumberLocale), border, 0, "R", false, 0, "")
		p.pdf.CellFormat(priceWidth, height, p.money(decimal.NewFromFloat(item.Price)), border, 0, "R", false, 0, "")
		p.pdf.CellFormat(amountWidth, height, p.money(invoice.LineAmount(item)), border, 1, "R", false, 0, "")
	}
	p.pdf.Ln(4)
}

func (p *page) totals(t models.Totals) {
	labelWidth, valueWidth := 40.0, 35.0
	x := margin + contentWidth - labelWidth - valueWidth

	row := func(label, value string, bold bool) {
		styleStr := ""
		if bold {
			styleStr = "B"
		}
		p.font(styleStr, 10)
		p.pdf.SetX(x)
		p.pdf.CellFormat(labelWidth, 6, p.tr(label), "", 0, "L", false, 0, "")
		p.pdf.CellFormat(valueWidth, 6, p.tr(value), "", 1, "R", false, 0, "")
	}

	row("Subtotal", p.money(t.Subtotal), false)
	if !t.Discount.IsZero() {
		row(fmt.Sprintf("Discount (%g%%)", p.doc.DiscountRate), "-"+p.money(t.Discount), false)
	}
	if !t.Tax.IsZero() {
		row(fmt.Sprintf("Tax (%g%%)", p.doc.TaxRate), p.money(t.Tax), false)
	}
	if !t.Shipping.IsZero() {
		row("Shipping", p.money(t.Shipping), false)
	}

	p.accent()
	row("Total", invoice.FormatMoney(t.Total, t.Currency, p.doc.NumberLocale), true)
	p.plain()
	p.pdf.Ln(8)
}

func (p *page) money(amount decimal.Decimal) string {
	return invoice.FormatNumber(amount, p.doc.NumberLocale)
}

func (p *page) footer(opts Options) error {
	doc := p.doc

	if doc.PaymentDetails != "" {
		top := p.pdf.GetY()
		textWidth := contentWidth
		if opts.PaymentQR {
			textWidth -= qrSize + 5
		}

		p.accent()
		p.font("B", 9)
		p.pdf.CellFormat(textWidth, lineHeight, "PAYMENT DETAILS", "", 1, "L", false, 0, "")
		p.plain()
		p.font("", 10)
		p.pdf.MultiCell(textWidth, lineHeight, p.tr(doc.PaymentDetails), "", "L", false)

		if opts.PaymentQR {
			if err := p.paymentQR(margin+contentWidth-qrSize, top); err != nil {
				return err
			}
			if y := top + qrSize; y > p.pdf.GetY() {
				p.pdf.SetY(y)
			}
		}
		p.pdf.Ln(6)
	}

	if doc.Notes != "" {
		p.accent()
		p.font("B", 9)
		p.pdf.CellFormat(contentWidth, lineHeight, "NOTES", "", 1, "L", false, 0, "")
		p.plain()
		p.font("", 10)
		p.pdf.MultiCell(contentWidth, lineHeight, p.tr(doc.Notes), "", "L", false)
	}
	return nil
}

func (p *page) paymentQR(x, y float64) error {
	png, err := qrcode.Encode(p.doc.PaymentDetails, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode payment QR code: %w", err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	p.pdf.RegisterImageOptionsReader("payment_qr", opts, bytes.NewReader(png))
	p.pdf.ImageOptions("payment_qr", x, y, qrSize, qrSize, false, opts, 0, "")
	return nil
}
