package engine

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alucut/alucut/internal/analytics"
	"github.com/alucut/alucut/internal/model"
)

// Optimizer orchestrates one optimization run: validate the input,
// dispatch the configured strategy per profile group, and aggregate the
// analytics. It holds configuration only; every run's state is owned by
// that run, so a single Optimizer is safe for concurrent runs.
type Optimizer struct {
	Config   model.AlgorithmConfig
	Analyzer analytics.Analyzer
	Logger   *zap.Logger
}

func New(cfg model.AlgorithmConfig) *Optimizer {
	return &Optimizer{
		Config:   cfg,
		Analyzer: analytics.NewAnalyzer(analytics.DefaultWasteConfig(), analytics.DefaultCostRates()),
		Logger:   zap.NewNop(),
	}
}

// profileGroup is the per-profile slice of an optimization run. Groups
// are independent and run concurrently.
type profileGroup struct {
	profile string
	items   []model.CutItem
}

func groupByProfile(items []model.CutItem) []profileGroup {
	byProfile := make(map[string][]model.CutItem)
	var order []string
	for _, it := range items {
		if _, ok := byProfile[it.ProfileType]; !ok {
			order = append(order, it.ProfileType)
		}
		byProfile[it.ProfileType] = append(byProfile[it.ProfileType], it)
	}
	sort.Strings(order)

	groups := make([]profileGroup, 0, len(order))
	for _, p := range order {
		groups = append(groups, profileGroup{profile: p, items: byProfile[p]})
	}
	return groups
}

// validate rejects malformed input before any search starts. All
// offending items are reported, not just the first.
func (o *Optimizer) validate(items []model.CutItem, catalog []model.StockOption) error {
	if len(items) == 0 {
		return &model.EmptyInputError{}
	}

	if o.Config.KerfWidth < 0 {
		return &model.InvalidConfigError{Field: "kerf_width", Reason: "must be >= 0"}
	}
	switch o.Config.Mode {
	case model.AlgorithmFFD, model.AlgorithmBFD, model.AlgorithmPooling:
	case model.AlgorithmGenetic, model.AlgorithmNSGA2:
		g := o.Config.Genetic
		if g.PopulationSize < 0 {
			return &model.InvalidConfigError{Field: "genetic.population_size", Reason: "must be >= 0"}
		}
		if g.MaxGenerations < 1 {
			return &model.InvalidConfigError{Field: "genetic.max_generations", Reason: "must be >= 1"}
		}
		if g.MutationRate < 0 || g.MutationRate > 1 {
			return &model.InvalidConfigError{Field: "genetic.mutation_rate", Reason: "must be in [0,1]"}
		}
		if g.TournamentSize < 1 {
			return &model.InvalidConfigError{Field: "genetic.tournament_size", Reason: "must be >= 1"}
		}
	default:
		return &model.InvalidConfigError{Field: "mode", Reason: "unknown algorithm " + string(o.Config.Mode)}
	}

	var errs []error
	missing := make(map[string]bool)
	for _, it := range items {
		switch {
		case it.Length <= 0:
			errs = append(errs, &model.InfeasibleConstraintError{ItemID: it.ID, Reason: "length must be > 0"})
			continue
		case it.Quantity <= 0:
			errs = append(errs, &model.InfeasibleConstraintError{ItemID: it.ID, Reason: "quantity must be > 0"})
			continue
		case it.Tolerance < 0:
			errs = append(errs, &model.InfeasibleConstraintError{ItemID: it.ID, Reason: "tolerance must be >= 0"})
			continue
		}

		opts := eligibleStock(catalog, it.ProfileType)
		if len(opts) == 0 {
			if !missing[it.ProfileType] {
				missing[it.ProfileType] = true
				errs = append(errs, &model.MissingStockOptionError{ProfileType: it.ProfileType})
			}
			continue
		}

		// The item must fit at least one stock option, at worst at its
		// tolerance minimum.
		fits := false
		for _, s := range opts {
			if s.UsableLength(o.Config.KerfWidth) >= it.MinLength() {
				fits = true
				break
			}
		}
		if !fits {
			errs = append(errs, &model.ItemTooLongError{
				ItemID:      it.ID,
				ProfileType: it.ProfileType,
				Length:      it.Length,
			})
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// runStrategy executes the configured strategy over one profile group.
func (o *Optimizer) runStrategy(ctx context.Context, items []model.CutItem, catalog []model.StockOption) ([]model.Cut, *model.SearchTelemetry, error) {
	switch o.Config.Mode {
	case model.AlgorithmFFD:
		cuts, err := PackFFD(ctx, items, catalog, o.Config.KerfWidth)
		return cuts, nil, err
	case model.AlgorithmBFD:
		cuts, err := PackBFD(ctx, items, catalog, o.Config.KerfWidth)
		return cuts, nil, err
	case model.AlgorithmPooling:
		cuts, err := RunPooling(ctx, items, catalog, o.Config.KerfWidth)
		return cuts, nil, err
	case model.AlgorithmGenetic:
		return RunGenetic(ctx, items, catalog, o.Config)
	case model.AlgorithmNSGA2:
		return RunNSGA2(ctx, items, catalog, o.Config)
	default:
		return nil, nil, &model.InvalidConfigError{Field: "mode", Reason: "unknown algorithm " + string(o.Config.Mode)}
	}
}

// mergeTelemetry folds per-group telemetry into run-level telemetry.
// The weakest convergence reason wins so callers see the least
// converged group's confidence.
func mergeTelemetry(tels []*model.SearchTelemetry) *model.SearchTelemetry {
	var merged *model.SearchTelemetry
	for _, t := range tels {
		if t == nil {
			continue
		}
		if merged == nil {
			cp := *t
			merged = &cp
			continue
		}
		if t.Generations > merged.Generations {
			merged.Generations = t.Generations
		}
		if t.PopulationSize > merged.PopulationSize {
			merged.PopulationSize = t.PopulationSize
		}
		if t.BestFitness < merged.BestFitness {
			merged.BestFitness = t.BestFitness
		}
		if reasonRank(t.ConvergenceReason) > reasonRank(merged.ConvergenceReason) {
			merged.ConvergenceReason = t.ConvergenceReason
		}
		merged.ParetoFront = append(merged.ParetoFront, t.ParetoFront...)
	}
	return merged
}

func reasonRank(r model.ConvergenceReason) int {
	switch r {
	case model.ConvergedTimeBudget:
		return 2
	case model.ConvergedMaxGenerations:
		return 1
	default:
		return 0
	}
}

// Optimize runs the full pipeline over a validated cut list and stock
// catalog: Validating, Running per profile group, Aggregating. Profile
// groups are independent sub-problems and execute concurrently, each
// owning its own buffers and RNG stream.
func (o *Optimizer) Optimize(ctx context.Context, items []model.CutItem, catalog []model.StockOption) (model.OptimizationResult, error) {
	start := time.Now()

	if err := o.validate(items, catalog); err != nil {
		return model.OptimizationResult{}, err
	}

	groups := groupByProfile(items)
	o.Logger.Info("optimization started",
		zap.String("algorithm", string(o.Config.Mode)),
		zap.Int("items", len(items)),
		zap.Int("profile_groups", len(groups)),
	)

	type groupOut struct {
		cuts []model.Cut
		tel  *model.SearchTelemetry
	}
	outs := make([]groupOut, len(groups))

	eg, gctx := errgroup.WithContext(ctx)
	for gi, g := range groups {
		eg.Go(func() error {
			cuts, tel, err := o.runStrategy(gctx, g.items, catalog)
			if err != nil {
				return err
			}
			outs[gi] = groupOut{cuts: cuts, tel: tel}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return model.OptimizationResult{}, err
	}

	var cuts []model.Cut
	tels := make([]*model.SearchTelemetry, 0, len(outs))
	for _, out := range outs {
		cuts = append(cuts, out.cuts...)
		tels = append(tels, out.tel)
	}

	res := o.Analyzer.Analyze(cuts, o.Config.Mode, time.Since(start), mergeTelemetry(tels))

	o.Logger.Info("optimization complete",
		zap.Int("bars", res.BarCount()),
		zap.Float64("efficiency", res.Efficiency),
		zap.Float64("waste_pct", res.WastePercentage),
		zap.Duration("elapsed", res.ExecutionTime),
	)
	return res, nil
}
