// backend/src/reports/pdf.go
package reports

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/username/cryptofolio/backend/src/models"
)

// GeneratePDF renders a gains result into a tax report document. The input
// is treated as read-only; rendering never mutates it.
func GeneratePDF(result *models.GainsResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// The core fonts are cp1252-only, so the rupee symbol is spelled out and
	// everything else goes through the codepage translator.
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string {
		return translate(strings.ReplaceAll(s, "₹", "INR "))
	}

	pageWidth, _ := pdf.GetPageSize()
	leftMargin, _, rightMargin, _ := pdf.GetMargins()
	printableWidth := pageWidth - leftMargin - rightMargin

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, text(fmt.Sprintf("Tax Report (%s - %s)", result.Country, result.CurrencySymbol)), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 10, text(fmt.Sprintf("Taxable Gain: %.2f %s", result.TaxableGain, result.CurrencySymbol)), "", 1, "L", false, 0, "")

	if len(result.TaxSavingTips) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 10, text("Tax-Saving Tips"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		for _, tip := range result.TaxSavingTips {
			pdf.MultiCell(0, 5, text(tip), "", "L", false)
		}
		pdf.Ln(5)
	}

	if len(result.RealizedGains) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 10, text("Realized Gains"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)

		colWidth := printableWidth / 8
		rowHeight := 6.0

		for _, header := range []string{"Asset", "Date", "Type", "Proceeds", "Cost Basis", "Gain", "Gain Type", "Tax Owed"} {
			pdf.CellFormat(colWidth, rowHeight, text(header), "1", 0, "", false, 0, "")
		}
		pdf.Ln(rowHeight)

		var totalRealizedGain, totalTaxOwed float64
		for _, gain := range result.RealizedGains {
			pdf.CellFormat(colWidth, rowHeight, text(gain.Asset), "1", 0, "", false, 0, "")
			pdf.CellFormat(colWidth, rowHeight, text(gain.Date), "1", 0, "", false, 0, "")
			pdf.CellFormat(colWidth, rowHeight, text(gain.TransactionType), "1", 0, "", false, 0, "")
			pdf.CellFormat(colWidth, rowHeight, text(fmt.Sprintf("%.2f %s", gain.Proceeds, result.CurrencySymbol)), "1", 0, "", false, 0, "")
			pdf.CellFormat(colWidth, rowHeight, text(fmt.Sprintf("%.2f %s", gain.CostBasis, result.CurrencySymbol)), "1", 0, "", false, 0, "")
			pdf.CellFormat(colWidth, rowHeight, text(fmt.Sprintf("%.2f %s", gain.Gain, result.CurrencySymbol)), "1", 0, "", false, 0, "")
			pdf.CellFormat(colWidth, rowHeight, text(gain.HoldingType), "1", 0, "", false, 0, "")
			pdf.CellFormat(colWidth, rowHeight, text(fmt.Sprintf("%.2f %s", gain.TaxOwed, result.CurrencySymbol)), "1", 0, "", false, 0, "")
			pdf.Ln(rowHeight)
			totalRealizedGain += gain.Gain
			totalTaxOwed += gain.TaxOwed
		}

		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 10, text(fmt.Sprintf("Total Realized Gain: %.2f %s", totalRealizedGain, result.CurrencySymbol)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 10, text(fmt.Sprintf("Total Tax Owed: %.2f %s", totalTaxOwed, result.CurrencySymbol)), "", 1, "L", false, 0, "")
	}

	if len(result.UnrealizedGains) > 0 {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 10, text("Unrealized Gains"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)

		colWidth := printableWidth / 6
		rowHeight := 6.0

		for _, header := range []string{"Asset", "Amount", "Cost Basis", "Market Value", "Gain", "Current Price"} {
			pdf.CellFormat(colWidth, rowHeight, text(header), "1", 0, "", false, 0, "")
		}
		pdf.Ln(rowHeight)

		var totalUnrealizedGain float64
		for _, gain := range result.UnrealizedGains {
			pdf.CellFormat(colWidth, rowHeight, text(gain.Asset), "1", 0, "", false, 0, "")
			pdf.CellFormat(colWidth, rowHeight, text(fmt.Sprintf("%g", gain.Amount)), "1", 0, "", false, 0, "")
			pdf.CellFormat(colWidth, rowHeight, text(fmt.Sprintf("%.2f %s", gain.CostBasis, result.CurrencySymbol)), "1", 0, "", false, 0, "")
			pdf.CellFormat(colWidth, rowHeight, text(fmt.Sprintf("%.2f %s", gain.MarketValue, result.CurrencySymbol)), "1", 0, "", false, 0, "")
			pdf.CellFormat(colWidth, rowHeight, text(fmt.Sprintf("%.2f %s", gain.Gain, result.CurrencySymbol)), "1", 0, "", false, 0, "")
			pdf.CellFormat(colWidth, rowHeight, text(fmt.Sprintf("%.2f %s", gain.CurrentPrice, result.CurrencySymbol)), "1", 0, "", false, 0, "")
			pdf.Ln(rowHeight)
			totalUnrealizedGain += gain.Gain
		}

		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 10, text(fmt.Sprintf("Total Unrealized Gain: %.2f %s", totalUnrealizedGain, result.CurrencySymbol)), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF report: %w", err)
	}
	return buf.Bytes(), nil
}
