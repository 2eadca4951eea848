package engine

import (
	"context"
	"fmt"

	"github.com/alucut/alucut/internal/model"
)

// ComparisonScenario defines a named configuration to compare.
type ComparisonScenario struct {
	Name   string
	Config model.AlgorithmConfig
}

// ComparisonResult holds the optimization result and headline statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Result       model.OptimizationResult
	BarsUsed     int
	TotalCuts    int
	WastePercent float64
	Err          error
}

// CompareScenarios runs optimization for each scenario and returns the
// results in scenario order. A scenario that fails carries its error in
// the result instead of aborting the remaining scenarios.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, items []model.CutItem, catalog []model.StockOption) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Config)
		result, err := opt.Optimize(ctx, items, catalog)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}

		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Result:       result,
			BarsUsed:     result.BarCount(),
			TotalCuts:    result.SegmentCount(),
			WastePercent: result.WastePercentage,
		})
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current configuration, varying key parameters to show what-if
// alternatives.
func BuildDefaultScenarios(base model.AlgorithmConfig) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:   "Current Settings",
			Config: base,
		},
	}

	// Scenario: the other packing heuristic
	altHeuristic := base
	if base.Mode == model.AlgorithmBFD {
		altHeuristic.Mode = model.AlgorithmFFD
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "First Fit Decreasing",
			Config: altHeuristic,
		})
	} else {
		altHeuristic.Mode = model.AlgorithmBFD
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "Best Fit Decreasing",
			Config: altHeuristic,
		})
	}

	// Scenario: genetic search when the base run is a plain heuristic
	if base.Mode != model.AlgorithmGenetic && base.Mode != model.AlgorithmNSGA2 {
		ga := base
		ga.Mode = model.AlgorithmGenetic
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "Genetic Algorithm",
			Config: ga,
		})
	}

	// Scenario: multi-objective search
	if base.Mode != model.AlgorithmNSGA2 {
		nsga := base
		nsga.Mode = model.AlgorithmNSGA2
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "NSGA-II",
			Config: nsga,
		})
	}

	// Scenario: thinner blade
	if base.KerfWidth > 1.0 {
		tightKerf := base
		tightKerf.KerfWidth = base.KerfWidth * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Kerf %.1fmm (half)", tightKerf.KerfWidth),
			Config: tightKerf,
		})
	}

	return scenarios
}
