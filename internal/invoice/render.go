package invoice

import (
	"bytes"
	"fmt"
	"time"

	"mishki-store/internal/model"

	"github.com/phpdave11/gofpdf"
)

// Render produces the invoice PDF. Rendering is deterministic: both
// document dates are pinned to the invoice issue date, so identical
// InvoiceData always yields byte-identical output.
func Render(data model.InvoiceData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")

	issued, err := time.Parse(dateLayout, data.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid issue date %q: %w", data.IssueDate, err)
	}
	pdf.SetCreationDate(issued.UTC())
	pdf.SetModificationDate(issued.UTC())

	// cp1252 covers the accented French and Spanish text.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(tr(data.InvoiceNumber), false)
	pdf.AddPage()

	if data.Locale == model.LocalePE {
		renderPE(pdf, tr, data)
	} else {
		renderFR(pdf, tr, data)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("pdf generation failed: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type translator func(string) string

func renderFR(pdf *gofpdf.Fpdf, tr translator, data model.InvoiceData) {
	renderHeader(pdf, tr, data, "FACTURE")
	renderParties(pdf, tr, data)
	renderLineTable(pdf, tr, data)
	renderTotals(pdf, tr, data, "TOTAL HT", data.Totals.TaxLabel, "NET A PAYER")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, tr(data.Payment.Terms))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 7)
	for _, note := range data.Notes {
		pdf.MultiCell(0, 4, tr(note), "", "L", false)
	}
}

func renderPE(pdf *gofpdf.Fpdf, tr translator, data model.InvoiceData) {
	renderHeader(pdf, tr, data, "FACTURA ELECTRONICA")

	if data.Serie != "" {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, tr("Serie: "+data.Serie), "", 1, "R", false, 0, "")
	}

	renderParties(pdf, tr, data)
	renderLineTable(pdf, tr, data)
	renderTotals(pdf, tr, data, "SUBTOTAL", data.Totals.TaxLabel, "IMPORTE TOTAL")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, tr(data.Payment.Terms))
	pdf.Ln(8)

	if len(data.Payment.Installments) > 0 {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.Cell(0, 6, tr("Cronograma de pagos"))
		pdf.Ln(7)

		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(20, 6, "CUOTA", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 6, "VENCIMIENTO", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 6, "IMPORTE", "1", 1, "C", true, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		for i, inst := range data.Payment.Installments {
			pdf.CellFormat(20, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, inst.DueDate, "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, money(inst.Amount, data.Totals.Currency), "1", 1, "R", false, 0, "")
		}
	}
}

func renderHeader(pdf *gofpdf.Fpdf, tr translator, data model.InvoiceData, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(100, 10, tr(title))

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 10, tr("N° "+data.InvoiceNumber), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr("Date : "+data.IssueDate), "", 1, "R", false, 0, "")
	if data.OrderNumber != "" {
		pdf.CellFormat(0, 5, tr("Commande : "+data.OrderNumber), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func renderParties(pdf *gofpdf.Fpdf, tr translator, data model.InvoiceData) {
	top := pdf.GetY()

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(90, 5, tr(data.Seller.Name))
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "", 9)
	for _, line := range data.Seller.AddressLines {
		pdf.Cell(90, 4, tr(line))
		pdf.Ln(4)
	}
	if data.Seller.City != "" {
		pdf.Cell(90, 4, tr(data.Seller.City))
		pdf.Ln(4)
	}
	if data.Seller.Siret != "" {
		pdf.Cell(90, 4, tr("SIRET "+data.Seller.Siret+" - APE "+data.Seller.APE))
		pdf.Ln(4)
	}
	if data.Seller.RUC != "" {
		pdf.Cell(90, 4, tr("Ref. fiscal "+data.Seller.RUC))
		pdf.Ln(4)
	}
	if data.Seller.Email != "" {
		pdf.Cell(90, 4, tr(data.Seller.Email))
		pdf.Ln(4)
	}

	bottom := pdf.GetY()

	// Buyer block on the right, aligned with the seller block top.
	pdf.SetY(top)
	pdf.SetX(110)
	pdf.SetFont("Helvetica", "B", 10)
	buyerName := data.Buyer.Name
	if data.Buyer.Company != "" {
		buyerName = data.Buyer.Company
	}
	pdf.Cell(90, 5, tr(buyerName))
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "", 9)
	if data.Buyer.Company != "" && data.Buyer.Name != "" {
		pdf.SetX(110)
		pdf.Cell(90, 4, tr(data.Buyer.Name))
		pdf.Ln(4)
	}
	for _, line := range data.Buyer.AddressLines {
		pdf.SetX(110)
		pdf.Cell(90, 4, tr(line))
		pdf.Ln(4)
	}
	if data.Buyer.City != "" {
		pdf.SetX(110)
		pdf.Cell(90, 4, tr(data.Buyer.City))
		pdf.Ln(4)
	}
	if data.Buyer.Siret != "" {
		pdf.SetX(110)
		pdf.Cell(90, 4, tr("SIRET "+data.Buyer.Siret))
		pdf.Ln(4)
	}
	if data.Buyer.Email != "" {
		pdf.SetX(110)
		pdf.Cell(90, 4, tr(data.Buyer.Email))
		pdf.Ln(4)
	}

	if pdf.GetY() < bottom {
		pdf.SetY(bottom)
	}
	pdf.Ln(8)
}

func renderLineTable(pdf *gofpdf.Fpdf, tr translator, data model.InvoiceData) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(15, 7, "QTE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(85, 7, "DESIGNATION", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "PU HT", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "REMISE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "PRIX HT", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, line := range data.Lines {
		desc := line.Description
		if line.Code != "" {
			desc = line.Code + " - " + desc
		}
		discount := ""
		if line.Discount > 0 {
			discount = fmt.Sprintf("%.0f%%", line.Discount)
		}
		total := float64(line.Qty) * line.UnitPrice

		pdf.CellFormat(15, 6, fmt.Sprintf("%d", line.Qty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(85, 6, tr(desc), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, money(line.UnitPrice, ""), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, discount, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, money(total, ""), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func renderTotals(pdf *gofpdf.Fpdf, tr translator, data model.InvoiceData, subtotalLabel, taxLabel, totalLabel string) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetX(120)
	pdf.CellFormat(40, 6, tr(subtotalLabel), "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, money(data.Totals.Subtotal, data.Totals.Currency), "1", 1, "R", false, 0, "")

	pdf.SetX(120)
	pdf.CellFormat(40, 6, tr(taxLabel), "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, money(data.Totals.TaxAmount, data.Totals.Currency), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetX(120)
	pdf.CellFormat(40, 7, tr(totalLabel), "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, money(data.Totals.Total, data.Totals.Currency), "1", 1, "R", false, 0, "")
}

func money(amount float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}
