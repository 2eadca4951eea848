package engine

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alucut/alucut/internal/model"
)

// gaProblem bundles the immutable inputs of one evolutionary search:
// the expanded requests, the catalog, and the precomputed normalization
// constants for scoring. It is shared read-only by the GA and NSGA-II.
type gaProblem struct {
	reqs         []request
	catalog      []model.StockOption
	kerf         float64
	weights      model.FitnessWeights
	reclaimFloor float64
	maxCost      float64 // normalization bound for the cost objective
}

func newGAProblem(items []model.CutItem, catalog []model.StockOption, cfg model.AlgorithmConfig) *gaProblem {
	reqs := expandRequests(items)

	maxPrice := 0.0
	for _, s := range catalog {
		if p := barPrice(s); p > maxPrice {
			maxPrice = p
		}
	}

	return &gaProblem{
		reqs:         reqs,
		catalog:      catalog,
		kerf:         cfg.KerfWidth,
		weights:      cfg.Weights,
		reclaimFloor: cfg.ReclaimFloor,
		maxCost:      float64(len(reqs)) * maxPrice,
	}
}

// barPrice estimates the purchase cost of one bar. Bars without explicit
// pricing fall back to their length in meters as a relative proxy.
func barPrice(s model.StockOption) float64 {
	if s.PricePerBar > 0 {
		return s.PricePerBar
	}
	return s.StockLength / 1000.0
}

// decode replays the first-fit placement rule over the permuted request
// sequence. Any permutation decodes to a feasible packing, so crossover
// and mutation can never produce an infeasible individual.
func (p *gaProblem) decode(ctx context.Context, perm []int) ([]model.Cut, error) {
	ordered := make([]request, len(perm))
	for i, idx := range perm {
		ordered[i] = p.reqs[idx]
	}
	return packSequence(ctx, ordered, p.catalog, p.kerf, true)
}

// objective is the raw minimization vector used by NSGA-II and, through
// the configured weights, by the scalar GA fitness.
type objective struct {
	waste float64
	cost  float64
	bars  int
}

func (p *gaProblem) objectives(cuts []model.Cut) objective {
	var totalStock, used, cost float64
	for _, c := range cuts {
		totalStock += c.Stock.StockLength
		used += c.UsedLength
		cost += barPrice(c.Stock)
	}
	return objective{waste: totalStock - used, cost: cost, bars: len(cuts)}
}

// score computes the weighted scalar fitness of a packing; higher is
// better. Objectives are normalized so the configured weights stay
// comparable across plans of any size.
func (p *gaProblem) score(cuts []model.Cut) float64 {
	var totalStock, used, reclaim, cost float64
	for _, c := range cuts {
		totalStock += c.Stock.StockLength
		used += c.UsedLength
		if c.RemainingLength >= p.reclaimFloor {
			reclaim += c.RemainingLength
		}
		cost += barPrice(c.Stock)
	}
	if totalStock == 0 {
		return math.Inf(-1)
	}

	wasteFrac := (totalStock - used) / totalStock
	barFrac := float64(len(cuts)) / float64(len(p.reqs))
	reclaimFrac := reclaim / totalStock
	costFrac := 0.0
	if p.maxCost > 0 {
		costFrac = cost / p.maxCost
	}

	w := p.weights
	return w.Reclaimable*reclaimFrac - w.Waste*wasteFrac - w.BarCount*barFrac - w.Cost*costFrac
}

// chromosome is one candidate solution: a permutation of the request
// indices, decoded by FFD replay.
type chromosome struct {
	perm      []int
	fitness   float64
	objs      objective
	rank      int
	crowding  float64
	evaluated bool
}

func copyChromosome(c chromosome) chromosome {
	perm := make([]int, len(c.perm))
	copy(perm, c.perm)
	c.perm = perm
	return c
}

// ffdPerm returns the request indices ordered longest-first, the greedy
// seed individual that anchors the initial population.
func (p *gaProblem) ffdPerm() []int {
	perm := make([]int, len(p.reqs))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		a, b := p.reqs[perm[i]], p.reqs[perm[j]]
		if a.Item.Length != b.Item.Length {
			return a.Item.Length > b.Item.Length
		}
		return a.Order < b.Order
	})
	return perm
}

func (p *gaProblem) initPopulation(rng *rand.Rand, size int) []chromosome {
	pop := make([]chromosome, size)
	pop[0] = chromosome{perm: p.ffdPerm()}
	for i := 1; i < size; i++ {
		pop[i] = chromosome{perm: rng.Perm(len(p.reqs))}
	}
	return pop
}

// evaluateAll scores every unevaluated individual. Decoding uses no
// randomness, so evaluation parallelizes without hurting determinism.
func (p *gaProblem) evaluateAll(ctx context.Context, pop []chromosome) error {
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range pop {
		if pop[i].evaluated {
			continue
		}
		eg.Go(func() error {
			cuts, err := p.decode(gctx, pop[i].perm)
			if err != nil {
				return err
			}
			pop[i].fitness = p.score(cuts)
			pop[i].objs = p.objectives(cuts)
			pop[i].evaluated = true
			return nil
		})
	}
	return eg.Wait()
}

// orderCrossover implements OX1 for permutations: a random slice of
// parent1 is kept in place, the remaining positions are filled with
// parent2's genes in their relative order.
func orderCrossover(rng *rand.Rand, parent1, parent2 []int) []int {
	n := len(parent1)
	if n <= 2 {
		child := make([]int, n)
		copy(child, parent1)
		return child
	}

	p1 := rng.Intn(n)
	p2 := rng.Intn(n)
	if p1 > p2 {
		p1, p2 = p2, p1
	}

	child := make([]int, n)
	inSegment := make(map[int]bool, p2-p1+1)
	for i := p1; i <= p2; i++ {
		child[i] = parent1[i]
		inSegment[parent1[i]] = true
	}

	idx := (p2 + 1) % n
	for _, g := range parent2 {
		if !inSegment[g] {
			child[idx] = g
			idx = (idx + 1) % n
		}
	}
	return child
}

// mutate applies swap and segment-reversal mutations in place. Callers
// must re-evaluate afterwards.
func mutate(rng *rand.Rand, perm []int, rate float64) {
	n := len(perm)
	if n < 2 {
		return
	}

	// Swap mutation.
	if rng.Float64() < rate {
		i, j := rng.Intn(n), rng.Intn(n)
		perm[i], perm[j] = perm[j], perm[i]
	}

	// Segment reversal, less frequent.
	if rng.Float64() < rate*0.5 {
		i, j := rng.Intn(n), rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			perm[i], perm[j] = perm[j], perm[i]
			i++
			j--
		}
	}
}

// geneticOptimizer runs the single-objective GA.
type geneticOptimizer struct {
	p       *gaProblem
	cfg     model.GeneticConfig
	rng     *rand.Rand
	popSize int
}

func newGeneticOptimizer(p *gaProblem, cfg model.GeneticConfig) *geneticOptimizer {
	return &geneticOptimizer{
		p:       p,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		popSize: cfg.PopulationFor(len(p.reqs)),
	}
}

func (g *geneticOptimizer) tournamentSelect(pop []chromosome) chromosome {
	best := pop[g.rng.Intn(len(pop))]
	for i := 1; i < g.cfg.TournamentSize; i++ {
		c := pop[g.rng.Intn(len(pop))]
		if c.fitness > best.fitness {
			best = c
		}
	}
	return copyChromosome(best)
}

// sortByFitness orders a population best-first, stable so equal-fitness
// individuals keep their generation order.
func sortByFitness(pop []chromosome) {
	sort.SliceStable(pop, func(i, j int) bool {
		return pop[i].fitness > pop[j].fitness
	})
}

// run evolves until one of the termination conditions fires and returns
// the best packing found together with the search telemetry.
func (g *geneticOptimizer) run(ctx context.Context) ([]model.Cut, *model.SearchTelemetry, error) {
	start := time.Now()

	pop := g.p.initPopulation(g.rng, g.popSize)
	if err := g.p.evaluateAll(ctx, pop); err != nil {
		return nil, nil, err
	}
	sortByFitness(pop)

	best := pop[0].fitness
	stagnant := 0
	generations := 0
	reason := model.ConvergedMaxGenerations

	const eps = 1e-9

	for gen := 0; gen < g.cfg.MaxGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if g.cfg.TimeBudget > 0 && time.Since(start) >= g.cfg.TimeBudget {
			reason = model.ConvergedTimeBudget
			break
		}

		newPop := make([]chromosome, 0, g.popSize)

		// Elitism: carry the best individuals over unchanged.
		elite := g.cfg.EliteCount
		if elite > len(pop) {
			elite = len(pop)
		}
		for i := 0; i < elite; i++ {
			newPop = append(newPop, copyChromosome(pop[i]))
		}

		for len(newPop) < g.popSize {
			parent1 := g.tournamentSelect(pop)
			parent2 := g.tournamentSelect(pop)
			child := chromosome{perm: orderCrossover(g.rng, parent1.perm, parent2.perm)}
			mutate(g.rng, child.perm, g.cfg.MutationRate)
			newPop = append(newPop, child)
		}

		if err := g.p.evaluateAll(ctx, newPop); err != nil {
			return nil, nil, err
		}
		sortByFitness(newPop)
		pop = newPop
		generations++

		if pop[0].fitness > best+eps {
			best = pop[0].fitness
			stagnant = 0
		} else {
			stagnant++
			if g.cfg.PlateauWindow > 0 && stagnant >= g.cfg.PlateauWindow {
				reason = model.ConvergedFitnessPlateau
				break
			}
		}
	}

	sortByFitness(pop)
	cuts, err := g.p.decode(ctx, pop[0].perm)
	if err != nil {
		return nil, nil, err
	}

	tel := &model.SearchTelemetry{
		Generations:       generations,
		PopulationSize:    g.popSize,
		BestFitness:       pop[0].fitness,
		ConvergenceReason: reason,
	}
	return cuts, tel, nil
}

// RunGenetic runs the single-objective genetic search over one item set.
// The same seed, items, and configuration reproduce the same result bit
// for bit.
func RunGenetic(ctx context.Context, items []model.CutItem, catalog []model.StockOption, cfg model.AlgorithmConfig) ([]model.Cut, *model.SearchTelemetry, error) {
	p := newGAProblem(items, catalog, cfg)
	if len(p.reqs) == 0 {
		return nil, nil, &model.EmptyInputError{}
	}
	return newGeneticOptimizer(p, cfg.Genetic).run(ctx)
}
