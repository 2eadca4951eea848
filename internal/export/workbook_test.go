package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/alucut/alucut/internal/model"
)

func TestExportWorkbook_CreatesSheets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.xlsx")

	if err := ExportWorkbook(path, buildTestResult()); err != nil {
		t.Fatalf("ExportWorkbook returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("workbook was not created: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{sheetSummary: false, sheetCuts: false, sheetWaste: false}
	for _, s := range sheets {
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing sheet %q", name)
		}
	}
}

func TestExportWorkbook_CutDetailRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.xlsx")
	result := buildTestResult()

	if err := ExportWorkbook(path, result); err != nil {
		t.Fatalf("ExportWorkbook returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetCuts)
	if err != nil {
		t.Fatalf("cannot read cut detail sheet: %v", err)
	}

	// Header plus one row per segment.
	wantRows := 1 + result.SegmentCount()
	if len(rows) != wantRows {
		t.Fatalf("expected %d rows, got %d", wantRows, len(rows))
	}
	if rows[0][0] != "Bar" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "40x40" {
		t.Errorf("unexpected profile in first data row: %v", rows[1])
	}
}

func TestExportWorkbook_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.xlsx")

	if err := ExportWorkbook(path, model.OptimizationResult{}); err == nil {
		t.Fatal("expected error for empty result")
	}
}
