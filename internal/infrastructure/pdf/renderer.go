// Package pdf renders invoices as A4 PDF documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

const (
	contentType = "application/pdf"
	fontFamily  = "Helvetica"

	margin     = 15.0
	lineHeight = 7.0
	logoWidth  = 40.0
	logoHeight = 20.0
)

const (
	recipientName = "METRO FACILITY NATURAL SERVICES PTY LTD"
	recipientABN  = "ABN: 6961102885"

	footerText = "The above Service Fee includes all wages and other remuneration payable in respect of " +
		"Employee's leave entitlements. Associated statutory costs including, but not limited to; FBT, GST, " +
		"PAYG Withholding Tax, Payroll Tax, Superannuation, Workcover & Public Liability Insurances. " +
		"Also including the supply of cleaning materials and equipment at the following location."
)

// Renderer draws invoices with the PDF core fonts.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) ContentType() string { return contentType }

// Render never fails on missing data: absent issuer fields print placeholders
// and unknown places print "Unknown Place". Errors come from the PDF writer only.
func (r *Renderer) Render(in ports.RenderInput) ([]byte, error) {
	pdf := build(in)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func build(in ports.RenderInput) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetCreationDate(in.Period.End)
	pdf.SetTitle(invoiceNumberLine(in.InvoiceNumber), false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageWidth, pageHeight := pdf.GetPageSize()
	col2X := pageWidth / 2
	y := margin

	advance := func(h float64) {
		y += h
		if y > pageHeight-margin {
			pdf.AddPage()
			y = margin + lineHeight
		}
	}

	pdf.SetDrawColor(160, 160, 160)
	pdf.Rect(margin, y, logoWidth, logoHeight, "D")
	pdf.SetFont(fontFamily, "", 10)
	pdf.Text(margin+(logoWidth-pdf.GetStringWidth("LOGO"))/2, y+logoHeight/2+1.5, "LOGO")
	advance(logoHeight + lineHeight*1.5)

	pdf.SetFont(fontFamily, "B", 24)
	pdf.Text((pageWidth-pdf.GetStringWidth("Invoice"))/2, y, "Invoice")
	advance(lineHeight * 2)

	pdf.SetFont(fontFamily, "", 12)
	pdf.Text(margin, y, invoiceNumberLine(in.InvoiceNumber))
	advance(lineHeight * 2)

	pdf.SetFont(fontFamily, "B", 12)
	pdf.Text(margin, y, "From:")
	pdf.Text(col2X, y, "To:")
	advance(lineHeight)

	pdf.SetFont(fontFamily, "", 11)
	from, to := fromLines(in.Issuer), toLines()
	for i := 0; i < max(len(from), len(to)); i++ {
		if i < len(from) {
			pdf.Text(margin, y, tr(from[i]))
		}
		if i < len(to) {
			pdf.Text(col2X, y, to[i])
		}
		advance(lineHeight)
	}
	advance(lineHeight)

	pdf.SetFont(fontFamily, "", 12)
	pdf.Text(margin, y, periodLine(in.Period))
	advance(lineHeight * 2)

	pdf.SetFont(fontFamily, "B", 12)
	pdf.Text(margin, y, "Work Details:")
	advance(lineHeight)

	pdf.SetFont(fontFamily, "", 11)
	for _, e := range in.Entries {
		pdf.Text(margin+5, y, tr(entryLine(e, in.Places)))
		advance(lineHeight)
	}
	advance(lineHeight)

	pdf.SetFont(fontFamily, "B", 14)
	pdf.Text(margin, y, totalLine(in.Entries))
	advance(lineHeight * 2)

	pdf.SetFont(fontFamily, "", 8)
	for _, line := range pdf.SplitText(footerText, pageWidth-2*margin) {
		pdf.Text(margin, y, line)
		advance(lineHeight * 0.8)
	}

	return pdf
}

// Lines returns the text of the document in reading order, without the
// footer. The PDF draws exactly these strings.
func Lines(in ports.RenderInput) []string {
	out := []string{"LOGO", "Invoice", invoiceNumberLine(in.InvoiceNumber), "From:", "To:"}
	out = append(out, fromLines(in.Issuer)...)
	out = append(out, toLines()...)
	out = append(out, periodLine(in.Period), "Work Details:")
	for _, e := range in.Entries {
		out = append(out, entryLine(e, in.Places))
	}
	return append(out, totalLine(in.Entries))
}

func invoiceNumberLine(n *int64) string {
	if n == nil {
		return "Invoice Number: INV-XXXX"
	}
	return "Invoice Number: " + domain.FormatInvoiceNumber(*n)
}

func fromLines(issuer *domain.Issuer) []string {
	var p domain.Profile
	var email string
	if issuer != nil {
		p, email = issuer.Profile, issuer.Email
	}
	return []string{
		orPlaceholder(p.FullName, "Your Name/Company Name"),
		"ABN: " + orPlaceholder(p.ABN, "[Your ABN]"),
		"Phone: " + orPlaceholder(p.ContactNumber, "[Your Phone]"),
		"Email: " + orPlaceholder(email, "[Your Email]"),
		"BSB: " + orPlaceholder(p.BSB, "[Your BSB]"),
		"Bank Account: " + orPlaceholder(p.AccountNumber, "[Your Account Number]"),
	}
}

func toLines() []string {
	return []string{recipientName, recipientABN}
}

func periodLine(p domain.Period) string {
	return fmt.Sprintf("Invoice Period: %s to %s", p.Start.Format("02/01/2006"), p.End.Format("02/01/2006"))
}

func entryLine(e domain.WorkEntry, places domain.Catalog) string {
	return fmt.Sprintf("- %s: %s hrs @ $%s/hr = $%s",
		e.PlaceName(places), e.Hours.String(), e.Rate.StringFixed(2), e.Amount.StringFixed(2))
}

func totalLine(entries []domain.WorkEntry) string {
	return "Total Amount Due: $" + domain.SumAmounts(entries).StringFixed(2)
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
