package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/alucut/alucut/internal/analytics"
	"github.com/alucut/alucut/internal/model"
)

// OffcutInventory stores reclaimable remainders harvested from past
// optimization runs so later plans can draw from them before buying
// new stock.
type OffcutInventory struct {
	UpdatedAt string              `json:"updated_at"`
	Offcuts   []model.StockOption `json:"offcuts"`
}

// DefaultOffcutPath returns the default file path for the offcut
// inventory. This is located at ~/.alucut/offcuts.json.
func DefaultOffcutPath() string {
	return filepath.Join(DefaultDataDir(), "offcuts.json")
}

// SaveOffcuts writes the offcut inventory to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveOffcuts(path string, inv OffcutInventory) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	inv.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadOffcuts reads the offcut inventory from the specified JSON file.
// If the file does not exist, it returns an empty inventory.
func LoadOffcuts(path string) (OffcutInventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return OffcutInventory{}, nil
		}
		return OffcutInventory{}, err
	}
	var inv OffcutInventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return OffcutInventory{}, err
	}
	return inv, nil
}

// Harvest appends the reclaimable remainders of a finished run to the
// inventory. Remainders enter as low-priority stock options so fresh
// bars still win ties.
func (inv *OffcutInventory) Harvest(result model.OptimizationResult) int {
	reclaimed := analytics.ReclaimedStock(result.Cuts)
	inv.Offcuts = append(inv.Offcuts, reclaimed...)
	return len(reclaimed)
}

// Consume removes the offcut with the given ID, after it has been used
// in a new plan. Returns false if no such offcut exists.
func (inv *OffcutInventory) Consume(id string) bool {
	for i, o := range inv.Offcuts {
		if o.ID == id {
			inv.Offcuts = append(inv.Offcuts[:i], inv.Offcuts[i+1:]...)
			return true
		}
	}
	return false
}
