package model

import "time"

// Algorithm selects the optimization strategy.
type Algorithm string

const (
	AlgorithmFFD     Algorithm = "ffd"     // first-fit decreasing (fast, deterministic)
	AlgorithmBFD     Algorithm = "bfd"     // best-fit decreasing (tightest bin, deterministic)
	AlgorithmGenetic Algorithm = "genetic" // single-objective GA (slower, often better)
	AlgorithmNSGA2   Algorithm = "nsga-ii" // multi-objective GA with Pareto front
	AlgorithmPooling Algorithm = "pooling" // cross-order consolidation + FFD
)

// FitnessWeights scalarize the GA objectives. They are configuration,
// not engine constants; all objectives are normalized before weighting.
type FitnessWeights struct {
	Waste       float64 `json:"waste" mapstructure:"waste"`
	BarCount    float64 `json:"bar_count" mapstructure:"bar_count"`
	Reclaimable float64 `json:"reclaimable" mapstructure:"reclaimable"`
	Cost        float64 `json:"cost" mapstructure:"cost"`
}

func DefaultFitnessWeights() FitnessWeights {
	return FitnessWeights{
		Waste:       1.0,
		BarCount:    0.3,
		Reclaimable: 0.2,
		Cost:        0.5,
	}
}

// GeneticConfig holds parameters shared by the GA and NSGA-II searches.
type GeneticConfig struct {
	PopulationSize int           `json:"population_size" mapstructure:"population_size"` // 0 = scale with item count, clamped to [20,200]
	MaxGenerations int           `json:"max_generations" mapstructure:"max_generations"`
	MutationRate   float64       `json:"mutation_rate" mapstructure:"mutation_rate"`
	TournamentSize int           `json:"tournament_size" mapstructure:"tournament_size"`
	EliteCount     int           `json:"elite_count" mapstructure:"elite_count"`
	PlateauWindow  int           `json:"plateau_window" mapstructure:"plateau_window"` // stagnant generations before stopping
	TimeBudget     time.Duration `json:"time_budget" mapstructure:"time_budget"`       // 0 = unbounded
	Seed           int64         `json:"seed" mapstructure:"seed"`
}

func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 0,
		MaxGenerations: 150,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		PlateauWindow:  15,
		TimeBudget:     0,
		Seed:           1,
	}
}

// AlgorithmConfig is the full per-run configuration handed to the
// orchestrator. Genetic is only consulted by the GA/NSGA-II modes.
type AlgorithmConfig struct {
	Mode         Algorithm      `json:"mode" mapstructure:"mode"`
	KerfWidth    float64        `json:"kerf_width" mapstructure:"kerf_width"` // blade width in mm
	ReclaimFloor float64        `json:"reclaim_floor" mapstructure:"reclaim_floor"`
	Weights      FitnessWeights `json:"weights" mapstructure:"weights"`
	Genetic      GeneticConfig  `json:"genetic" mapstructure:"genetic"`
}

func DefaultConfig() AlgorithmConfig {
	return AlgorithmConfig{
		Mode:         AlgorithmFFD,
		KerfWidth:    5.0,
		ReclaimFloor: 300.0,
		Weights:      DefaultFitnessWeights(),
		Genetic:      DefaultGeneticConfig(),
	}
}

// PopulationFor resolves the effective population size for a given number
// of unit requests.
func (g GeneticConfig) PopulationFor(unitCount int) int {
	if g.PopulationSize > 0 {
		return g.PopulationSize
	}
	pop := 4 * unitCount
	if pop < 20 {
		pop = 20
	}
	if pop > 200 {
		pop = 200
	}
	return pop
}
