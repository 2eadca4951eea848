package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alucut/alucut/internal/model"
)

// Recommend produces rule-based advisories from an assembled result.
// Recommendations never alter the computed cuts.
func (a Analyzer) Recommend(res model.OptimizationResult) []model.Recommendation {
	var recs []model.Recommendation

	if n := res.WasteByCategory[model.WasteExcessive]; n > 0 {
		var excessMM float64
		for _, c := range res.Cuts {
			if c.WasteCategory == model.WasteExcessive {
				excessMM += c.RemainingLength
			}
		}
		savings := decimal.NewFromFloat(excessMM / 1000.0).
			Mul(decimal.NewFromFloat(a.Rates.WastePerMeter)).Round(2)
		recs = append(recs, model.Recommendation{
			Type:                 "stock_length",
			Severity:             "warning",
			Message:              fmt.Sprintf("%d bar(s) have excessive remainders; consider adding an alternate stock length for this profile", n),
			PotentialSavings:     savings,
			ImplementationEffort: "medium",
		})
	}

	if res.Efficiency < 0.7 && (res.Algorithm == model.AlgorithmFFD || res.Algorithm == model.AlgorithmBFD) {
		recs = append(recs, model.Recommendation{
			Type:                 "algorithm",
			Severity:             "info",
			Message:              fmt.Sprintf("efficiency is %.1f%%; the genetic or nsga-ii strategy may find a tighter packing", res.Efficiency*100),
			PotentialSavings:     decimal.Zero,
			ImplementationEffort: "low",
		})
	}

	var reclaimMM float64
	reclaimBars := 0
	for _, c := range res.Cuts {
		if c.IsReclaimable {
			reclaimBars++
			reclaimMM += c.RemainingLength
		}
	}
	if reclaimBars > 0 {
		savings := decimal.NewFromFloat(reclaimMM / 1000.0).
			Mul(decimal.NewFromFloat(a.Rates.MaterialPerMeter)).Round(2)
		recs = append(recs, model.Recommendation{
			Type:                 "reclaim",
			Severity:             "info",
			Message:              fmt.Sprintf("%d remainder(s) totalling %.0fmm can be returned to stock", reclaimBars, reclaimMM),
			PotentialSavings:     savings,
			ImplementationEffort: "low",
		})
	}

	squeezed := 0
	for _, c := range res.Cuts {
		for _, s := range c.Segments {
			if s.Squeezed {
				squeezed++
			}
		}
	}
	if squeezed > 0 {
		recs = append(recs, model.Recommendation{
			Type:                 "tolerance",
			Severity:             "warning",
			Message:              fmt.Sprintf("%d piece(s) were shortened to their tolerance minimum to fit available stock; verify downstream fit", squeezed),
			PotentialSavings:     decimal.Zero,
			ImplementationEffort: "high",
		})
	}

	return recs
}
