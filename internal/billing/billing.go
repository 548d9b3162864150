// Package billing renders workshop invoices. Totals are computed with
// decimal arithmetic; the PDF is a pure function of the invoice fields apart
// from the generator's embedded timestamps.
package billing

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// CompanyInfo is the fixed seller block printed on every bill.
type CompanyInfo struct {
	Name    string
	Address string
	GSTIN   string
}

// Invoice is everything needed to render one bill.
type Invoice struct {
	RegistrationID string
	WorkshopTitle  string
	UserName       string
	Email          string
	Phone          string
	Organization   string
	Amount         int64 // whole rupees, tax exclusive
	Currency       string
	PaymentID      string
	OrderID        string
	ConfirmedAt    time.Time
	GSTPercent     int
}

// Totals is the computed money breakdown of an invoice.
type Totals struct {
	Subtotal decimal.Decimal
	GST      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives the GST and grand total from the line amount.
// Deterministic: the same amount and rate always produce the same totals.
func ComputeTotals(amountMajor int64, gstPercent int) Totals {
	sub := decimal.NewFromInt(amountMajor)
	gst := sub.Mul(decimal.NewFromInt(int64(gstPercent))).Div(decimal.NewFromInt(100)).Round(2)
	return Totals{
		Subtotal: sub,
		GST:      gst,
		Total:    sub.Add(gst),
	}
}

const termsText = "This invoice is issued for a confirmed workshop registration. " +
	"Fees are non-transferable. Cancellations are governed by the refund policy " +
	"published on the website. Please quote the registration ID in all correspondence."

// Renderer draws invoices with a fixed layout.
type Renderer struct {
	company CompanyInfo
}

// NewRenderer constructs a Renderer for the given seller.
func NewRenderer(company CompanyInfo) *Renderer {
	return &Renderer{company: company}
}

// Render produces the invoice PDF. Same invoice, same line items and totals
// on every call.
func (r *Renderer) Render(inv Invoice) ([]byte, error) {
	t := ComputeTotals(inv.Amount, inv.GSTPercent)
	cur := inv.Currency
	if cur == "" {
		cur = "INR"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", inv.RegistrationID), false)
	pdf.AddPage()

	// Company header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, r.company.Name)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, r.company.Address)
	pdf.Ln(5)
	pdf.Cell(0, 6, "GSTIN: "+r.company.GSTIN)
	pdf.Ln(12)

	// Invoice metadata
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "TAX INVOICE")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(95, 6, "Invoice No: "+inv.RegistrationID)
	pdf.Cell(0, 6, "Date: "+inv.ConfirmedAt.Format("02 Jan 2006"))
	pdf.Ln(10)

	// Bill-to block
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Billed To")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, inv.UserName)
	pdf.Ln(5)
	if inv.Organization != "" {
		pdf.Cell(0, 5, inv.Organization)
		pdf.Ln(5)
	}
	pdf.Cell(0, 5, inv.Email)
	pdf.Ln(5)
	pdf.Cell(0, 5, inv.Phone)
	pdf.Ln(10)

	// Line item table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(110, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 8, "Amount ("+cur+")", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(110, 8, "Workshop: "+inv.WorkshopTitle, "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "1", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 8, t.Subtotal.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.CellFormat(130, 8, fmt.Sprintf("GST @ %d%%", inv.GSTPercent), "1", 0, "R", false, 0, "")
	pdf.CellFormat(60, 8, t.GST.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(130, 8, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(60, 8, t.Total.StringFixed(2), "1", 1, "R", true, 0, "")
	pdf.Ln(8)

	// Payment metadata footer
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, "Payment ID: "+inv.PaymentID)
	pdf.Ln(5)
	pdf.Cell(0, 5, "Order ID: "+inv.OrderID)
	pdf.Ln(10)

	// Terms
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, termsText, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
