package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Segment is one placed piece inside a Cut, positioned left-to-right
// along the bar. ItemID and WorkOrder reference the originating CutItem
// so per-order yield can be reported after pooling.
type Segment struct {
	ItemID         string  `json:"item_id"`
	WorkOrder      string  `json:"work_order,omitempty"`
	Length         float64 `json:"length"` // mm, within the item's tolerance band
	Position       float64 `json:"position"`
	EndPosition    float64 `json:"end_position"`
	SequenceNumber int     `json:"sequence_number"`
	Squeezed       bool    `json:"squeezed,omitempty"` // placed below nominal length using tolerance
}

// WasteCategory classifies the unused remainder of a cut bar.
type WasteCategory string

const (
	WasteMinimal   WasteCategory = "minimal"
	WasteSmall     WasteCategory = "small"
	WasteMedium    WasteCategory = "medium"
	WasteLarge     WasteCategory = "large"
	WasteExcessive WasteCategory = "excessive"
)

// Cut is one consumed stock bar and its layout.
type Cut struct {
	Stock           StockOption   `json:"stock"`
	Segments        []Segment     `json:"segments"`
	KerfLoss        float64       `json:"kerf_loss"` // kerf width x blade passes
	UsedLength      float64       `json:"used_length"`
	RemainingLength float64       `json:"remaining_length"`
	WasteCategory   WasteCategory `json:"waste_category,omitempty"`
	IsReclaimable   bool          `json:"is_reclaimable"`
}

// CutCount returns the number of blade passes for this bar.
func (c Cut) CutCount() int { return len(c.Segments) }

// Efficiency returns the used fraction of the bar in [0,1].
func (c Cut) Efficiency() float64 {
	if c.Stock.StockLength == 0 {
		return 0
	}
	return c.UsedLength / c.Stock.StockLength
}

// ConvergenceReason records which termination condition actually stopped
// a GA or NSGA-II search.
type ConvergenceReason string

const (
	ConvergedMaxGenerations ConvergenceReason = "max_generations"
	ConvergedFitnessPlateau ConvergenceReason = "fitness_plateau"
	ConvergedTimeBudget     ConvergenceReason = "time_budget"
)

// ParetoPoint is one rank-0 solution of an NSGA-II run, reported as
// telemetry for downstream inspection.
type ParetoPoint struct {
	Waste    float64 `json:"waste"`
	Cost     float64 `json:"cost"`
	BarCount int     `json:"bar_count"`
	Selected bool    `json:"selected"` // the compromise chosen for the result
}

// SearchTelemetry carries GA/NSGA-II observability data. It is nil for
// the deterministic heuristics, which have nothing to report.
type SearchTelemetry struct {
	Generations       int               `json:"generations"`
	PopulationSize    int               `json:"population_size"`
	BestFitness       float64           `json:"best_fitness"`
	ConvergenceReason ConvergenceReason `json:"convergence_reason"`
	ParetoFront       []ParetoPoint     `json:"pareto_front,omitempty"`
}

// CostBreakdown itemizes the run cost from configured unit rates.
type CostBreakdown struct {
	Material     decimal.Decimal `json:"material"`
	Labor        decimal.Decimal `json:"labor"`
	Waste        decimal.Decimal `json:"waste"`
	Setup        decimal.Decimal `json:"setup"`
	Cutting      decimal.Decimal `json:"cutting"`
	MachineTime  decimal.Decimal `json:"machine_time"`
	Total        decimal.Decimal `json:"total"`
	CostPerMeter decimal.Decimal `json:"cost_per_meter"`
}

// QualityGrade buckets the composite quality score.
type QualityGrade string

const (
	GradeExcellent QualityGrade = "excellent"
	GradeGood      QualityGrade = "good"
	GradeAverage   QualityGrade = "average"
	GradePoor      QualityGrade = "poor"
)

// QualityReport is the bounded [0,1] composite score and its grade.
type QualityReport struct {
	Score float64      `json:"score"`
	Grade QualityGrade `json:"grade"`
}

// Recommendation is advisory post-analysis output. It never alters the
// already-computed cuts.
type Recommendation struct {
	Type                 string          `json:"type"`
	Severity             string          `json:"severity"` // info | warning
	Message              string          `json:"message"`
	PotentialSavings     decimal.Decimal `json:"potential_savings"`
	ImplementationEffort string          `json:"implementation_effort"` // low | medium | high
}

// OptimizationResult is the aggregate output of one run.
type OptimizationResult struct {
	Cuts             []Cut                 `json:"cuts"`
	TotalStockLength float64               `json:"total_stock_length"`
	UsedLength       float64               `json:"used_length"`
	TotalWaste       float64               `json:"total_waste"`
	WastePercentage  float64               `json:"waste_percentage"`
	Efficiency       float64               `json:"efficiency"` // [0,1]
	WasteByCategory  map[WasteCategory]int `json:"waste_by_category"`
	Cost             CostBreakdown         `json:"cost"`
	Quality          QualityReport         `json:"quality"`
	Algorithm        Algorithm             `json:"algorithm"`
	ExecutionTime    time.Duration         `json:"execution_time_ms"`
	Telemetry        *SearchTelemetry      `json:"telemetry,omitempty"`
	Recommendations  []Recommendation      `json:"recommendations,omitempty"`
}

// BarCount returns the number of stock bars consumed.
func (r OptimizationResult) BarCount() int { return len(r.Cuts) }

// SegmentCount returns the total number of placed pieces.
func (r OptimizationResult) SegmentCount() int {
	n := 0
	for _, c := range r.Cuts {
		n += len(c.Segments)
	}
	return n
}
