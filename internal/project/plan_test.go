package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alucut/alucut/internal/model"
)

func testPlan() model.Plan {
	return model.Plan{
		Name: "frames",
		Items: []model.CutItem{
			{ID: "a", ProfileType: "40x40", Length: 1000, Quantity: 3, WorkOrder: "WO-1"},
		},
		Stock: []model.StockOption{
			{ID: "s1", ProfileType: "40x40", StockLength: 6000, Priority: 1},
		},
	}
}

func TestSaveAndLoadPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "plan.json")

	if err := SavePlan(path, testPlan()); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	loaded, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if loaded.Name != "frames" {
		t.Errorf("expected name 'frames', got %q", loaded.Name)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Quantity != 3 {
		t.Errorf("items did not round-trip: %+v", loaded.Items)
	}
	if len(loaded.Stock) != 1 || loaded.Stock[0].StockLength != 6000 {
		t.Errorf("stock did not round-trip: %+v", loaded.Stock)
	}
}

func TestLoadPlan_MissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing plan file")
	}
}

func TestLoadPlan_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPlan(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadCatalog_MissingFileReturnsEmpty(t *testing.T) {
	catalog, err := LoadCatalog(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatalf("missing catalog should not error: %v", err)
	}
	if len(catalog) != 0 {
		t.Errorf("expected empty catalog, got %d entries", len(catalog))
	}
}

func TestSaveAndLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	catalog := testPlan().Stock

	if err := SaveCatalog(path, catalog); err != nil {
		t.Fatalf("SaveCatalog failed: %v", err)
	}
	loaded, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "s1" {
		t.Errorf("catalog did not round-trip: %+v", loaded)
	}
}

func TestMergeCatalog_SkipsDuplicateIDs(t *testing.T) {
	existing := []model.StockOption{
		{ID: "s1", ProfileType: "40x40", StockLength: 6000},
	}
	imported := []model.StockOption{
		{ID: "s1", ProfileType: "40x40", StockLength: 6000},
		{ID: "s2", ProfileType: "40x40", StockLength: 4000},
	}

	merged := MergeCatalog(existing, imported)
	if len(merged) != 2 {
		t.Fatalf("expected 2 entries after merge, got %d", len(merged))
	}
	if merged[1].ID != "s2" {
		t.Errorf("expected s2 appended, got %+v", merged[1])
	}
}
