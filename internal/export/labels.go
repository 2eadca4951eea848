package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/alucut/alucut/internal/model"
)

// LabelInfo holds the data encoded into each bar label's QR code. One
// label is printed per consumed bar so the saw operator can scan the
// bar and see its full cut sequence.
type LabelInfo struct {
	BarIndex    int       `json:"bar"`
	ProfileType string    `json:"profile"`
	StockLength float64   `json:"stock_mm"`
	Pieces      []float64 `json:"pieces_mm"`
	WorkOrders  []string  `json:"work_orders,omitempty"`
	Remainder   float64   `json:"remainder_mm"`
	Reclaimable bool      `json:"reclaimable"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per cut bar.
// Each label carries the profile, the ordered piece lengths, and a QR
// code encoding the bar metadata as JSON. Labels are laid out on a
// standard label sheet format (Avery 5160 / 3 columns x 10 rows on US
// Letter).
func ExportLabels(path string, result model.OptimizationResult) error {
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no bars to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for bar %d: %w", label.BarIndex, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single bar label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Cutting guide border
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_bar_%d", info.BarIndex)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	title := fmt.Sprintf("Bar %d: %s", info.BarIndex, info.ProfileType)
	if pdf.GetStringWidth(title) > textW {
		for len(title) > 0 && pdf.GetStringWidth(title+"...") > textW {
			title = title[:len(title)-1]
		}
		title += "..."
	}
	pdf.CellFormat(textW, 4.5, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	stock := fmt.Sprintf("%.0f mm stock, %d pieces", info.StockLength, len(info.Pieces))
	pdf.CellFormat(textW, 3.5, stock, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pieces := formatPieces(info.Pieces, pdf, textW)
	pdf.CellFormat(textW, 3, pieces, "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	remainder := fmt.Sprintf("Remainder %.0f mm", info.Remainder)
	if info.Reclaimable {
		pdf.SetTextColor(0, 130, 0)
		remainder += " (reclaim)"
	}
	pdf.CellFormat(textW, 3, remainder, "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// formatPieces renders the ordered piece lengths, truncated to fit the
// label text area.
func formatPieces(pieces []float64, pdf *fpdf.Fpdf, maxW float64) string {
	out := ""
	for i, p := range pieces {
		next := out
		if i > 0 {
			next += ", "
		}
		next += fmt.Sprintf("%.0f", p)
		if pdf.GetStringWidth(next+"...") > maxW {
			return out + "..."
		}
		out = next
	}
	return out
}

// CollectLabelInfos extracts label information from an optimization
// result for use in testing or alternative export formats.
func CollectLabelInfos(result model.OptimizationResult) []LabelInfo {
	var labels []LabelInfo
	for barIdx, cut := range result.Cuts {
		info := LabelInfo{
			BarIndex:    barIdx + 1,
			ProfileType: cut.Stock.ProfileType,
			StockLength: cut.Stock.StockLength,
			Remainder:   cut.RemainingLength,
			Reclaimable: cut.IsReclaimable,
		}
		seenOrders := make(map[string]bool)
		for _, seg := range cut.Segments {
			info.Pieces = append(info.Pieces, seg.Length)
			if seg.WorkOrder != "" && !seenOrders[seg.WorkOrder] {
				seenOrders[seg.WorkOrder] = true
				info.WorkOrders = append(info.WorkOrders, seg.WorkOrder)
			}
		}
		labels = append(labels, info)
	}
	return labels
}
