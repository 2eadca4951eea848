package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/alucut/alucut/internal/model"
)

// Workbook sheet names.
const (
	sheetSummary = "Summary"
	sheetCuts    = "Cut Detail"
	sheetWaste   = "Waste"
)

// ExportWorkbook writes the optimization result to an Excel workbook
// with a summary sheet, a per-segment cut detail sheet, and a waste
// histogram sheet.
func ExportWorkbook(path string, result model.OptimizationResult) error {
	if len(result.Cuts) == 0 {
		return fmt.Errorf("no cuts to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet and add the others.
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetSummary); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetCuts); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetWaste); err != nil {
		return err
	}

	if err := writeSummarySheet(f, result); err != nil {
		return err
	}
	if err := writeCutsSheet(f, result); err != nil {
		return err
	}
	if err := writeWasteSheet(f, result); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result model.OptimizationResult) error {
	rows := [][]interface{}{
		{"Algorithm", string(result.Algorithm)},
		{"Bars used", result.BarCount()},
		{"Pieces cut", result.SegmentCount()},
		{"Total stock (mm)", result.TotalStockLength},
		{"Used length (mm)", result.UsedLength},
		{"Total waste (mm)", result.TotalWaste},
		{"Waste %", result.WastePercentage},
		{"Efficiency", result.Efficiency},
		{"Quality score", result.Quality.Score},
		{"Quality grade", string(result.Quality.Grade)},
		{"Material cost", result.Cost.Material.InexactFloat64()},
		{"Labor cost", result.Cost.Labor.InexactFloat64()},
		{"Waste cost", result.Cost.Waste.InexactFloat64()},
		{"Setup cost", result.Cost.Setup.InexactFloat64()},
		{"Cutting cost", result.Cost.Cutting.InexactFloat64()},
		{"Machine time cost", result.Cost.MachineTime.InexactFloat64()},
		{"Total cost", result.Cost.Total.InexactFloat64()},
		{"Cost per meter", result.Cost.CostPerMeter.InexactFloat64()},
	}
	for i, row := range rows {
		if err := setRow(f, sheetSummary, i+1, row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetSummary, "A", "A", 22); err != nil {
		return err
	}
	return f.SetColWidth(sheetSummary, "B", "B", 18)
}

func writeCutsSheet(f *excelize.File, result model.OptimizationResult) error {
	header := []interface{}{
		"Bar", "Profile", "Stock (mm)", "Seq", "Item", "Work Order",
		"Length (mm)", "Position (mm)", "Squeezed", "Remainder (mm)", "Category",
	}
	if err := setRow(f, sheetCuts, 1, header); err != nil {
		return err
	}

	row := 2
	for barIdx, cut := range result.Cuts {
		for _, seg := range cut.Segments {
			values := []interface{}{
				barIdx + 1,
				cut.Stock.ProfileType,
				cut.Stock.StockLength,
				seg.SequenceNumber,
				seg.ItemID,
				seg.WorkOrder,
				seg.Length,
				seg.Position,
				seg.Squeezed,
				cut.RemainingLength,
				string(cut.WasteCategory),
			}
			if err := setRow(f, sheetCuts, row, values); err != nil {
				return err
			}
			row++
		}
	}

	return f.SetColWidth(sheetCuts, "A", "K", 14)
}

func writeWasteSheet(f *excelize.File, result model.OptimizationResult) error {
	if err := setRow(f, sheetWaste, 1, []interface{}{"Category", "Bars"}); err != nil {
		return err
	}

	// Fixed order so the sheet reads worst-last.
	categories := []model.WasteCategory{
		model.WasteMinimal, model.WasteSmall, model.WasteMedium,
		model.WasteLarge, model.WasteExcessive,
	}
	row := 2
	for _, cat := range categories {
		n := result.WasteByCategory[cat]
		if err := setRow(f, sheetWaste, row, []interface{}{string(cat), n}); err != nil {
			return err
		}
		row++
	}

	row++
	if err := setRow(f, sheetWaste, row, []interface{}{"Reclaimable remainders"}); err != nil {
		return err
	}
	row++
	if err := setRow(f, sheetWaste, row, []interface{}{"Bar", "Profile", "Remainder (mm)"}); err != nil {
		return err
	}
	row++
	for barIdx, cut := range result.Cuts {
		if !cut.IsReclaimable {
			continue
		}
		values := []interface{}{barIdx + 1, cut.Stock.ProfileType, cut.RemainingLength}
		if err := setRow(f, sheetWaste, row, values); err != nil {
			return err
		}
		row++
	}

	return f.SetColWidth(sheetWaste, "A", "C", 18)
}
