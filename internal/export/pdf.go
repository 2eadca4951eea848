// Package export renders optimization results to shop-floor documents:
// a cutting plan PDF, printable bar labels, and an Excel workbook.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/alucut/alucut/internal/model"
)

// segmentColor represents an RGB color for a placed segment.
type segmentColor struct {
	R, G, B int
}

var segmentColors = []segmentColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	barHeight    = 14.0
	barSpacing   = 26.0
	barsPerPage  = 6
)

// ExportPDF generates the cutting plan document. Bars are drawn as
// horizontal strips, a handful per page, followed by a summary page
// with run statistics.
func ExportPDF(path string, result model.OptimizationResult, kerf float64) error {
	if len(result.Cuts) == 0 {
		return fmt.Errorf("no cuts to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for start := 0; start < len(result.Cuts); start += barsPerPage {
		end := start + barsPerPage
		if end > len(result.Cuts) {
			end = len(result.Cuts)
		}
		pdf.AddPage()
		renderBarsPage(pdf, result.Cuts[start:end], start)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, kerf)

	return pdf.OutputFileAndClose(path)
}

// renderBarsPage draws a run of consecutive bars on the current page.
func renderBarsPage(pdf *fpdf.Fpdf, cuts []model.Cut, offset int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Cutting Plan", "", 0, "L", false, 0, "")

	y := marginTop + headerHeight + 4
	for i, cut := range cuts {
		renderBar(pdf, cut, offset+i+1, y)
		y += barSpacing
	}
}

// renderBar draws a single stock bar with its segments at vertical
// position y.
func renderBar(pdf *fpdf.Fpdf, cut model.Cut, barNum int, y float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	title := fmt.Sprintf("Bar %d: %s %.0f mm | %d pieces | remainder %.0f mm (%s) | efficiency %.1f%%",
		barNum, cut.Stock.ProfileType, cut.Stock.StockLength,
		len(cut.Segments), cut.RemainingLength, cut.WasteCategory, cut.Efficiency()*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, title, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	scale := drawWidth / cut.Stock.StockLength
	barY := y + 5

	// Bar background
	pdf.SetFillColor(225, 225, 225)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	pdf.Rect(marginLeft, barY, drawWidth, barHeight, "FD")

	for i, seg := range cut.Segments {
		col := segmentColors[i%len(segmentColors)]
		sx := marginLeft + seg.Position*scale
		sw := seg.Length * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.25)
		pdf.Rect(sx, barY, sw, barHeight, "FD")

		label := fmt.Sprintf("%.0f", seg.Length)
		if seg.Squeezed {
			label += "*"
		}
		labelW := pdf.GetStringWidth(label)
		if labelW < sw-1 {
			pdf.SetFont("Helvetica", "", 7)
			pdf.SetXY(sx+(sw-labelW)/2, barY+barHeight/2-2)
			pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
		}
	}

	// Remainder hatch on the right end
	if cut.RemainingLength > 0 {
		rx := marginLeft + (cut.Stock.StockLength-cut.RemainingLength)*scale
		rw := cut.RemainingLength * scale
		if cut.IsReclaimable {
			pdf.SetFillColor(200, 230, 200)
		} else {
			pdf.SetFillColor(255, 210, 210)
		}
		pdf.SetDrawColor(150, 150, 150)
		pdf.Rect(rx, barY, rw, barHeight, "FD")
	}

	// Work order legend under the bar
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(marginLeft, barY+barHeight+1)
	legend := ""
	for i, seg := range cut.Segments {
		if i > 0 {
			legend += "  "
		}
		if seg.WorkOrder != "" {
			legend += fmt.Sprintf("#%d %s", seg.SequenceNumber, seg.WorkOrder)
		} else {
			legend += fmt.Sprintf("#%d %s", seg.SequenceNumber, seg.ItemID)
		}
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 3, legend, "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the final summary page with run statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.OptimizationResult, kerf float64) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cut Optimization Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Algorithm", string(result.Algorithm)},
		{"Bars Used", fmt.Sprintf("%d", result.BarCount())},
		{"Pieces Cut", fmt.Sprintf("%d", result.SegmentCount())},
		{"Efficiency", fmt.Sprintf("%.1f%%", result.Efficiency*100)},
		{"Total Waste", fmt.Sprintf("%.0f mm (%.1f%%)", result.TotalWaste, result.WastePercentage)},
		{"Kerf Width", fmt.Sprintf("%.1f mm", kerf)},
		{"Total Cost", result.Cost.Total.StringFixed(2)},
		{"Quality Grade", string(result.Quality.Grade)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Bar Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{15, 50, 30, 25, 30, 35, 40, 30}
	headers := []string{"Bar", "Profile", "Length", "Pieces", "Kerf Loss", "Remainder", "Category", "Eff."}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, cut := range result.Cuts {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			cut.Stock.ProfileType,
			fmt.Sprintf("%.0f mm", cut.Stock.StockLength),
			fmt.Sprintf("%d", len(cut.Segments)),
			fmt.Sprintf("%.0f mm", cut.KerfLoss),
			fmt.Sprintf("%.0f mm", cut.RemainingLength),
			string(cut.WasteCategory),
			fmt.Sprintf("%.1f%%", cut.Efficiency()*100),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// Recommendations
	if len(result.Recommendations) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "Recommendations", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		for _, rec := range result.Recommendations {
			if y > pageHeight-marginBottom-6 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(260, 5, "- "+rec.Message, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by AluCut - Extrusion Cutting Optimizer", "", 0, "C", false, 0, "")
}
