package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/alucut/alucut/internal/model"
)

// CostRates are the configurable unit rates of the cost model. Currency
// is whatever the caller's configuration uses; the engine only multiplies.
type CostRates struct {
	MaterialPerMeter   float64 `json:"material_per_meter" mapstructure:"material_per_meter"`
	LaborPerCut        float64 `json:"labor_per_cut" mapstructure:"labor_per_cut"`
	WastePerMeter      float64 `json:"waste_per_meter" mapstructure:"waste_per_meter"`
	SetupPerChangeover float64 `json:"setup_per_changeover" mapstructure:"setup_per_changeover"`
	CuttingPerCut      float64 `json:"cutting_per_cut" mapstructure:"cutting_per_cut"`
	MachinePerMinute   float64 `json:"machine_per_minute" mapstructure:"machine_per_minute"`
	MinutesPerCut      float64 `json:"minutes_per_cut" mapstructure:"minutes_per_cut"` // machine time estimate per blade pass
}

func DefaultCostRates() CostRates {
	return CostRates{
		MaterialPerMeter:   4.5,
		LaborPerCut:        0.8,
		WastePerMeter:      4.5,
		SetupPerChangeover: 12.0,
		CuttingPerCut:      0.15,
		MachinePerMinute:   0.6,
		MinutesPerCut:      0.25,
	}
}

// Cost computes the itemized cost breakdown for a set of cuts. Bars with
// an explicit PricePerBar use it for material; others fall back to the
// per-meter rate. Setup events are the distinct (profile, stock length)
// changeovers across the plan.
func (r CostRates) Cost(cuts []model.Cut) model.CostBreakdown {
	var (
		material  = decimal.Zero
		totalCuts int
		wasteMM   float64
		usedMM    float64
	)

	setups := make(map[string]bool)
	for _, c := range cuts {
		if c.Stock.PricePerBar > 0 {
			material = material.Add(decimal.NewFromFloat(c.Stock.PricePerBar))
		} else {
			meters := decimal.NewFromFloat(c.Stock.StockLength / 1000.0)
			material = material.Add(meters.Mul(decimal.NewFromFloat(r.MaterialPerMeter)))
		}
		totalCuts += c.CutCount()
		wasteMM += c.Stock.StockLength - c.UsedLength
		usedMM += c.UsedLength
		setups[c.Stock.ProfileType+"|"+decimal.NewFromFloat(c.Stock.StockLength).String()] = true
	}

	cutCount := decimal.NewFromInt(int64(totalCuts))
	labor := cutCount.Mul(decimal.NewFromFloat(r.LaborPerCut))
	waste := decimal.NewFromFloat(wasteMM / 1000.0).Mul(decimal.NewFromFloat(r.WastePerMeter))
	setup := decimal.NewFromInt(int64(len(setups))).Mul(decimal.NewFromFloat(r.SetupPerChangeover))
	cutting := cutCount.Mul(decimal.NewFromFloat(r.CuttingPerCut))
	machineMinutes := decimal.NewFromFloat(float64(totalCuts) * r.MinutesPerCut)
	machine := machineMinutes.Mul(decimal.NewFromFloat(r.MachinePerMinute))

	total := material.Add(labor).Add(waste).Add(setup).Add(cutting).Add(machine)

	perMeter := decimal.Zero
	if usedMM > 0 {
		perMeter = total.Div(decimal.NewFromFloat(usedMM / 1000.0)).Round(4)
	}

	return model.CostBreakdown{
		Material:     material.Round(2),
		Labor:        labor.Round(2),
		Waste:        waste.Round(2),
		Setup:        setup.Round(2),
		Cutting:      cutting.Round(2),
		MachineTime:  machine.Round(2),
		Total:        total.Round(2),
		CostPerMeter: perMeter,
	}
}
