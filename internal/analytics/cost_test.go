package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alucut/alucut/internal/model"
)

func barWithSegments(profile string, stockLen float64, pieces ...float64) model.Cut {
	cut := model.Cut{Stock: model.StockOption{ProfileType: profile, StockLength: stockLen}}
	for _, p := range pieces {
		cut.Segments = append(cut.Segments, model.Segment{Length: p})
		cut.UsedLength += p
	}
	return cut
}

func TestCost_SingleBar(t *testing.T) {
	rates := CostRates{
		MaterialPerMeter:   4.5,
		LaborPerCut:        0.8,
		WastePerMeter:      4.5,
		SetupPerChangeover: 12.0,
		CuttingPerCut:      0.15,
		MachinePerMinute:   0.6,
		MinutesPerCut:      0.25,
	}

	// One 6m bar, 3 pieces, 1500mm unused.
	cut := barWithSegments("40x40", 6000, 1500, 1500, 1500)
	cb := rates.Cost([]model.Cut{cut})

	// material: 6m * 4.5 = 27
	assert.True(t, cb.Material.Equal(decimal.RequireFromString("27")), cb.Material.String())
	// labor: 3 cuts * 0.8 = 2.4
	assert.True(t, cb.Labor.Equal(decimal.RequireFromString("2.4")), cb.Labor.String())
	// waste: 1.5m * 4.5 = 6.75
	assert.True(t, cb.Waste.Equal(decimal.RequireFromString("6.75")), cb.Waste.String())
	// setup: one (profile, length) pair = 12
	assert.True(t, cb.Setup.Equal(decimal.RequireFromString("12")), cb.Setup.String())
	// cutting: 3 * 0.15 = 0.45
	assert.True(t, cb.Cutting.Equal(decimal.RequireFromString("0.45")), cb.Cutting.String())
	// machine: 3 cuts * 0.25min * 0.6 = 0.45
	assert.True(t, cb.MachineTime.Equal(decimal.RequireFromString("0.45")), cb.MachineTime.String())
	// total: 27 + 2.4 + 6.75 + 12 + 0.45 + 0.45 = 49.05
	assert.True(t, cb.Total.Equal(decimal.RequireFromString("49.05")), cb.Total.String())
	// per meter: 49.05 / 4.5m = 10.9
	assert.True(t, cb.CostPerMeter.Equal(decimal.RequireFromString("10.9")), cb.CostPerMeter.String())
}

func TestCost_ExplicitBarPriceWins(t *testing.T) {
	rates := DefaultCostRates()
	cut := barWithSegments("40x40", 6000, 1000)
	cut.Stock.PricePerBar = 31.5

	cb := rates.Cost([]model.Cut{cut})
	assert.True(t, cb.Material.Equal(decimal.RequireFromString("31.5")), cb.Material.String())
}

func TestCost_SetupCountsDistinctChangeovers(t *testing.T) {
	rates := DefaultCostRates()
	cuts := []model.Cut{
		barWithSegments("40x40", 6000, 1000),
		barWithSegments("40x40", 6000, 1000),
		barWithSegments("40x40", 4000, 1000),
		barWithSegments("80x40", 6000, 1000),
	}

	cb := rates.Cost(cuts)
	// Three distinct (profile, stock length) pairs.
	want := decimal.NewFromFloat(3 * rates.SetupPerChangeover)
	assert.True(t, cb.Setup.Equal(want), cb.Setup.String())
}

func TestCost_Empty(t *testing.T) {
	cb := DefaultCostRates().Cost(nil)
	assert.True(t, cb.Total.IsZero())
	assert.True(t, cb.CostPerMeter.IsZero())
}

func TestCost_PerMeterUsesUsedLength(t *testing.T) {
	rates := DefaultCostRates()
	cut := barWithSegments("40x40", 6000, 3000)

	cb := rates.Cost([]model.Cut{cut})
	require.False(t, cb.CostPerMeter.IsZero())
	// 3m used: per-meter must equal total / 3 (both rounded independently,
	// so compare loosely).
	ratio := cb.Total.Div(decimal.NewFromInt(3))
	diff := cb.CostPerMeter.Sub(ratio).Abs()
	assert.True(t, diff.LessThan(decimal.RequireFromString("0.01")), diff.String())
}
