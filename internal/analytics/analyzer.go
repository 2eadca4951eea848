package analytics

import (
	"time"

	"github.com/alucut/alucut/internal/model"
)

// Analyzer bundles the configured waste policy and cost rates and turns
// a strategy's raw cuts into a full OptimizationResult.
type Analyzer struct {
	Waste WasteConfig
	Rates CostRates
}

func NewAnalyzer(waste WasteConfig, rates CostRates) Analyzer {
	return Analyzer{Waste: waste, Rates: rates}
}

// Analyze annotates the cuts and assembles the aggregate result. The
// input slice is not modified.
func (a Analyzer) Analyze(cuts []model.Cut, algorithm model.Algorithm, elapsed time.Duration, tel *model.SearchTelemetry) model.OptimizationResult {
	annotated := a.Waste.Annotate(cuts)

	var totalStock, used float64
	for _, c := range annotated {
		totalStock += c.Stock.StockLength
		used += c.UsedLength
	}

	waste := totalStock - used
	wastePct := 0.0
	efficiency := 0.0
	if totalStock > 0 {
		wastePct = waste / totalStock * 100.0
		efficiency = used / totalStock
	}

	res := model.OptimizationResult{
		Cuts:             annotated,
		TotalStockLength: totalStock,
		UsedLength:       used,
		TotalWaste:       waste,
		WastePercentage:  wastePct,
		Efficiency:       efficiency,
		WasteByCategory:  Histogram(annotated),
		Cost:             a.Rates.Cost(annotated),
		Quality:          Quality(annotated),
		Algorithm:        algorithm,
		ExecutionTime:    elapsed,
		Telemetry:        tel,
	}
	res.Recommendations = a.Recommend(res)
	return res
}
