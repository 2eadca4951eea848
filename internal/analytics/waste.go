// Package analytics derives waste, cost, and quality reporting from a
// set of computed cuts. It never alters placements, only annotates and
// summarizes them.
package analytics

import "github.com/alucut/alucut/internal/model"

// WasteConfig holds the remainder classification thresholds in mm. They
// are business policy and come from configuration, not engine constants.
type WasteConfig struct {
	MinimalMax float64 `json:"minimal_max" mapstructure:"minimal_max"`
	SmallMax   float64 `json:"small_max" mapstructure:"small_max"`
	MediumMax  float64 `json:"medium_max" mapstructure:"medium_max"`
	LargeMax   float64 `json:"large_max" mapstructure:"large_max"`
	ReuseFloor float64 `json:"reuse_floor" mapstructure:"reuse_floor"` // minimum reclaimable remainder
}

func DefaultWasteConfig() WasteConfig {
	return WasteConfig{
		MinimalMax: 50,
		SmallMax:   150,
		MediumMax:  300,
		LargeMax:   500,
		ReuseFloor: 300,
	}
}

// Categorize classifies a bar remainder.
func (w WasteConfig) Categorize(remainder float64) model.WasteCategory {
	switch {
	case remainder < w.MinimalMax:
		return model.WasteMinimal
	case remainder <= w.SmallMax:
		return model.WasteSmall
	case remainder <= w.MediumMax:
		return model.WasteMedium
	case remainder <= w.LargeMax:
		return model.WasteLarge
	default:
		return model.WasteExcessive
	}
}

// Reclaimable reports whether a remainder is worth returning to stock:
// at or above the reuse floor and in a large-enough category.
func (w WasteConfig) Reclaimable(remainder float64, cat model.WasteCategory) bool {
	return remainder >= w.ReuseFloor && (cat == model.WasteLarge || cat == model.WasteExcessive)
}

// Annotate returns copies of the cuts with waste category and
// reclaimability filled in.
func (w WasteConfig) Annotate(cuts []model.Cut) []model.Cut {
	out := make([]model.Cut, len(cuts))
	for i, c := range cuts {
		cat := w.Categorize(c.RemainingLength)
		c.WasteCategory = cat
		c.IsReclaimable = w.Reclaimable(c.RemainingLength, cat)
		out[i] = c
	}
	return out
}

// Histogram counts annotated cuts per waste category.
func Histogram(cuts []model.Cut) map[model.WasteCategory]int {
	h := make(map[model.WasteCategory]int)
	for _, c := range cuts {
		h[c.WasteCategory]++
	}
	return h
}

// ReclaimedStock converts reclaimable remainders into stock options for
// future runs: same profile, demoted priority, never a default.
func ReclaimedStock(cuts []model.Cut) []model.StockOption {
	var opts []model.StockOption
	for _, c := range cuts {
		if !c.IsReclaimable {
			continue
		}
		opt := model.NewStockOption(c.Stock.ProfileType, c.RemainingLength, c.Stock.Priority+100)
		opts = append(opts, opt)
	}
	return opts
}
