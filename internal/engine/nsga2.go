package engine

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/alucut/alucut/internal/model"
)

// dominates reports whether a is at least as good as b on every
// objective and strictly better on at least one (all minimized).
func dominates(a, b objective) bool {
	if a.waste > b.waste || a.cost > b.cost || a.bars > b.bars {
		return false
	}
	return a.waste < b.waste || a.cost < b.cost || a.bars < b.bars
}

// fastNonDominatedSort partitions the population into Pareto fronts and
// stamps each individual's rank. Front 0 is the non-dominated set.
func fastNonDominatedSort(pop []chromosome) [][]int {
	n := len(pop)
	dominatedBy := make([][]int, n) // indices each individual dominates
	domCount := make([]int, n)      // how many dominate this individual

	var fronts [][]int
	var front []int

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if dominates(pop[i].objs, pop[j].objs) {
				dominatedBy[i] = append(dominatedBy[i], j)
			} else if dominates(pop[j].objs, pop[i].objs) {
				domCount[i]++
			}
		}
		if domCount[i] == 0 {
			pop[i].rank = 0
			front = append(front, i)
		}
	}

	for len(front) > 0 {
		fronts = append(fronts, front)
		var next []int
		for _, i := range front {
			for _, j := range dominatedBy[i] {
				domCount[j]--
				if domCount[j] == 0 {
					pop[j].rank = len(fronts)
					next = append(next, j)
				}
			}
		}
		front = next
	}
	return fronts
}

// assignCrowding computes crowding distances within one front: for each
// objective the normalized gap to the nearest neighbors, with boundary
// solutions kept at infinity to preserve the spread of the front.
func assignCrowding(pop []chromosome, front []int) {
	for _, i := range front {
		pop[i].crowding = 0
	}
	if len(front) <= 2 {
		for _, i := range front {
			pop[i].crowding = math.Inf(1)
		}
		return
	}

	objVal := []func(objective) float64{
		func(o objective) float64 { return o.waste },
		func(o objective) float64 { return o.cost },
		func(o objective) float64 { return float64(o.bars) },
	}

	idx := make([]int, len(front))
	for _, val := range objVal {
		copy(idx, front)
		sort.SliceStable(idx, func(a, b int) bool {
			return val(pop[idx[a]].objs) < val(pop[idx[b]].objs)
		})

		lo := val(pop[idx[0]].objs)
		hi := val(pop[idx[len(idx)-1]].objs)
		span := hi - lo

		pop[idx[0]].crowding = math.Inf(1)
		pop[idx[len(idx)-1]].crowding = math.Inf(1)
		if span == 0 {
			continue
		}
		for k := 1; k < len(idx)-1; k++ {
			gap := val(pop[idx[k+1]].objs) - val(pop[idx[k-1]].objs)
			pop[idx[k]].crowding += gap / span
		}
	}
}

// crowdedLess implements the NSGA-II comparison: lower rank first, then
// larger crowding distance.
func crowdedLess(a, b chromosome) bool {
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	return a.crowding > b.crowding
}

type nsgaOptimizer struct {
	p       *gaProblem
	cfg     model.GeneticConfig
	weights model.FitnessWeights
	rng     *rand.Rand
	popSize int
}

func newNSGAOptimizer(p *gaProblem, cfg model.GeneticConfig) *nsgaOptimizer {
	return &nsgaOptimizer{
		p:       p,
		cfg:     cfg,
		weights: p.weights,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		popSize: cfg.PopulationFor(len(p.reqs)),
	}
}

// binaryTournament picks the crowded-comparison winner of two random
// individuals.
func (n *nsgaOptimizer) binaryTournament(pop []chromosome) chromosome {
	a := pop[n.rng.Intn(len(pop))]
	b := pop[n.rng.Intn(len(pop))]
	if crowdedLess(b, a) {
		return copyChromosome(b)
	}
	return copyChromosome(a)
}

// rankPopulation sorts fronts and crowding, then orders the population
// by the crowded comparison.
func rankPopulation(pop []chromosome) {
	fronts := fastNonDominatedSort(pop)
	for _, f := range fronts {
		assignCrowding(pop, f)
	}
	sort.SliceStable(pop, func(i, j int) bool {
		return crowdedLess(pop[i], pop[j])
	})
}

// scalarize reduces an objective vector to the configured weighted sum
// over values normalized against the given bounds; lower is better.
func (n *nsgaOptimizer) scalarize(o objective, lo, hi objective) float64 {
	norm := func(v, l, h float64) float64 {
		if h == l {
			return 0
		}
		return (v - l) / (h - l)
	}
	return n.weights.Waste*norm(o.waste, lo.waste, hi.waste) +
		n.weights.Cost*norm(o.cost, lo.cost, hi.cost) +
		n.weights.BarCount*norm(float64(o.bars), float64(lo.bars), float64(hi.bars))
}

// pickCompromise selects the recommended solution from the first front
// by minimum weighted sum, ties resolved by front order.
func (n *nsgaOptimizer) pickCompromise(pop []chromosome, front []int) int {
	lo := pop[front[0]].objs
	hi := lo
	for _, i := range front[1:] {
		o := pop[i].objs
		lo.waste = math.Min(lo.waste, o.waste)
		lo.cost = math.Min(lo.cost, o.cost)
		hi.waste = math.Max(hi.waste, o.waste)
		hi.cost = math.Max(hi.cost, o.cost)
		if o.bars < lo.bars {
			lo.bars = o.bars
		}
		if o.bars > hi.bars {
			hi.bars = o.bars
		}
	}

	best := front[0]
	bestScore := n.scalarize(pop[best].objs, lo, hi)
	for _, i := range front[1:] {
		if s := n.scalarize(pop[i].objs, lo, hi); s < bestScore {
			best = i
			bestScore = s
		}
	}
	return best
}

func (n *nsgaOptimizer) run(ctx context.Context) ([]model.Cut, *model.SearchTelemetry, error) {
	start := time.Now()

	pop := n.p.initPopulation(n.rng, n.popSize)
	if err := n.p.evaluateAll(ctx, pop); err != nil {
		return nil, nil, err
	}
	rankPopulation(pop)

	// Plateau detection tracks the best weighted scalar of the first
	// front across generations.
	best := math.Inf(-1)
	for i := range pop {
		if pop[i].fitness > best {
			best = pop[i].fitness
		}
	}
	stagnant := 0
	generations := 0
	reason := model.ConvergedMaxGenerations

	const eps = 1e-9

	for gen := 0; gen < n.cfg.MaxGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if n.cfg.TimeBudget > 0 && time.Since(start) >= n.cfg.TimeBudget {
			reason = model.ConvergedTimeBudget
			break
		}

		// Offspring via crowded binary tournament + OX1 + mutation.
		offspring := make([]chromosome, 0, n.popSize)
		for len(offspring) < n.popSize {
			parent1 := n.binaryTournament(pop)
			parent2 := n.binaryTournament(pop)
			child := chromosome{perm: orderCrossover(n.rng, parent1.perm, parent2.perm)}
			mutate(n.rng, child.perm, n.cfg.MutationRate)
			offspring = append(offspring, child)
		}
		if err := n.p.evaluateAll(ctx, offspring); err != nil {
			return nil, nil, err
		}

		// mu+lambda survivor selection by rank then crowding.
		combined := append(pop, offspring...)
		rankPopulation(combined)
		pop = combined[:n.popSize]
		generations++

		cur := math.Inf(-1)
		for i := range pop {
			if pop[i].fitness > cur {
				cur = pop[i].fitness
			}
		}
		if cur > best+eps {
			best = cur
			stagnant = 0
		} else {
			stagnant++
			if n.cfg.PlateauWindow > 0 && stagnant >= n.cfg.PlateauWindow {
				reason = model.ConvergedFitnessPlateau
				break
			}
		}
	}

	rankPopulation(pop)
	var front []int
	for i := range pop {
		if pop[i].rank == 0 {
			front = append(front, i)
		}
	}

	chosen := n.pickCompromise(pop, front)
	cuts, err := n.p.decode(ctx, pop[chosen].perm)
	if err != nil {
		return nil, nil, err
	}

	pareto := make([]model.ParetoPoint, 0, len(front))
	for _, i := range front {
		pareto = append(pareto, model.ParetoPoint{
			Waste:    pop[i].objs.waste,
			Cost:     pop[i].objs.cost,
			BarCount: pop[i].objs.bars,
			Selected: i == chosen,
		})
	}

	tel := &model.SearchTelemetry{
		Generations:       generations,
		PopulationSize:    n.popSize,
		BestFitness:       pop[chosen].fitness,
		ConvergenceReason: reason,
		ParetoFront:       pareto,
	}
	return cuts, tel, nil
}

// RunNSGA2 runs the multi-objective search and returns the compromise
// solution chosen from the final Pareto front, with the full front
// reported as telemetry.
func RunNSGA2(ctx context.Context, items []model.CutItem, catalog []model.StockOption, cfg model.AlgorithmConfig) ([]model.Cut, *model.SearchTelemetry, error) {
	p := newGAProblem(items, catalog, cfg)
	if len(p.reqs) == 0 {
		return nil, nil, &model.EmptyInputError{}
	}
	return newNSGAOptimizer(p, cfg.Genetic).run(ctx)
}
