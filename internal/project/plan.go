// Package project handles on-disk persistence: cut plans, stock
// catalogs, and the reclaimed offcut inventory.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/alucut/alucut/internal/model"
)

// DefaultDataDir returns the default directory for application data.
// On all platforms this is ~/.alucut/
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".alucut")
}

// SavePlan persists a cut plan to the given path as JSON.
// It creates any missing parent directories automatically.
func SavePlan(path string, plan model.Plan) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPlan reads a cut plan from the given path.
func LoadPlan(path string) (model.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Plan{}, err
	}
	var plan model.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return model.Plan{}, err
	}
	return plan, nil
}

// SaveCatalog persists a stock catalog to the given path as JSON.
func SaveCatalog(path string, catalog []model.StockOption) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCatalog reads a stock catalog from the given path.
// Returns an empty catalog if the file does not exist.
func LoadCatalog(path string) ([]model.StockOption, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.StockOption{}, nil
		}
		return nil, err
	}
	var catalog []model.StockOption
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// MergeCatalog merges imported stock options into an existing catalog.
// Duplicate IDs are skipped.
func MergeCatalog(existing, imported []model.StockOption) []model.StockOption {
	ids := make(map[string]bool, len(existing))
	for _, s := range existing {
		ids[s.ID] = true
	}
	for _, s := range imported {
		if !ids[s.ID] {
			existing = append(existing, s)
			ids[s.ID] = true
		}
	}
	return existing
}
