package engine

import (
	"context"
	"errors"
	"sort"

	"github.com/alucut/alucut/internal/model"
)

// request is one unit-length demand expanded from a CutItem's quantity.
// Order preserves the expansion position for deterministic tie-breaks.
type request struct {
	Item  model.CutItem
	Order int
}

// expandRequests turns each item into Quantity unit requests.
func expandRequests(items []model.CutItem) []request {
	var reqs []request
	for _, it := range items {
		for i := 0; i < it.Quantity; i++ {
			reqs = append(reqs, request{Item: it, Order: len(reqs)})
		}
	}
	return reqs
}

// sortDecreasing orders requests by length descending, breaking ties by
// original input order so the heuristics are fully deterministic.
func sortDecreasing(reqs []request) {
	sort.SliceStable(reqs, func(i, j int) bool {
		if reqs[i].Item.Length != reqs[j].Item.Length {
			return reqs[i].Item.Length > reqs[j].Item.Length
		}
		return reqs[i].Order < reqs[j].Order
	})
}

// openCut is a stock bar under construction inside the arena. The arena
// owns all mutation during packing; the caller's items and catalog are
// never touched.
type openCut struct {
	stock    model.StockOption
	segments []model.Segment
	used     float64
	kerfLoss float64
}

func (c *openCut) remaining() float64 {
	return c.stock.StockLength - c.used - c.kerfLoss
}

// binArena holds the open cuts of one packing run, index-addressable in
// creation order.
type binArena struct {
	kerf float64
	cuts []openCut
}

func newBinArena(kerf float64) *binArena {
	return &binArena{kerf: kerf}
}

// place appends a segment of the given length to cut i. Every placed
// segment costs one blade pass of kerf.
func (b *binArena) place(i int, r request, length float64) {
	c := &b.cuts[i]
	pos := c.used + c.kerfLoss
	c.segments = append(c.segments, model.Segment{
		ItemID:         r.Item.ID,
		WorkOrder:      r.Item.WorkOrder,
		Length:         length,
		Position:       pos,
		EndPosition:    pos + length,
		SequenceNumber: len(c.segments) + 1,
		Squeezed:       length < r.Item.Length,
	})
	c.used += length
	c.kerfLoss += b.kerf
}

func (b *binArena) open(stock model.StockOption) int {
	b.cuts = append(b.cuts, openCut{stock: stock})
	return len(b.cuts) - 1
}

// finish freezes the arena into immutable Cuts.
func (b *binArena) finish() []model.Cut {
	cuts := make([]model.Cut, 0, len(b.cuts))
	for _, c := range b.cuts {
		cuts = append(cuts, model.Cut{
			Stock:           c.stock,
			Segments:        c.segments,
			KerfLoss:        c.kerfLoss,
			UsedLength:      c.used,
			RemainingLength: c.remaining(),
		})
	}
	return cuts
}

// eligibleStock returns the catalog entries for a profile sorted by
// priority then stock length ascending, the order in which new bars are
// considered.
func eligibleStock(catalog []model.StockOption, profileType string) []model.StockOption {
	var opts []model.StockOption
	for _, s := range catalog {
		if s.ProfileType == profileType {
			opts = append(opts, s)
		}
	}
	sort.SliceStable(opts, func(i, j int) bool {
		if opts[i].Priority != opts[j].Priority {
			return opts[i].Priority < opts[j].Priority
		}
		return opts[i].StockLength < opts[j].StockLength
	})
	return opts
}

// packSequence replays the placement rule over an already-ordered request
// sequence. firstFit selects the first open cut that fits; otherwise the
// tightest non-negative fit wins, ties broken by creation order.
//
// When no stock option contains a request at its nominal length, the
// request may be squeezed down to its tolerance minimum to fit the
// longest eligible bar. A request that does not fit even at its minimum
// is a hard ItemTooLongError; errors are collected per offending item.
func packSequence(ctx context.Context, reqs []request, catalog []model.StockOption, kerf float64, firstFit bool) ([]model.Cut, error) {
	arena := newBinArena(kerf)
	var errs []error
	failed := make(map[string]bool)

	for _, r := range reqs {
		need := r.Item.Length + kerf

		// Scan open cuts of the same profile in creation order.
		best := -1
		bestSlack := 0.0
		for i := range arena.cuts {
			if arena.cuts[i].stock.ProfileType != r.Item.ProfileType {
				continue
			}
			slack := arena.cuts[i].remaining() - need
			if slack < 0 {
				continue
			}
			if firstFit {
				best = i
				break
			}
			if best < 0 || slack < bestSlack {
				best = i
				bestSlack = slack
			}
		}
		if best >= 0 {
			arena.place(best, r, r.Item.Length)
			continue
		}

		// No open cut fits: open a new bar before placing. Cancellation
		// is checked here so long heuristic runs can be aborted between
		// bars without leaving shared state behind.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		opts := eligibleStock(catalog, r.Item.ProfileType)
		placed := false
		for _, s := range opts {
			if s.UsableLength(kerf) >= r.Item.Length {
				arena.place(arena.open(s), r, r.Item.Length)
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		// Nominal length fits nowhere; fall back to the tolerance band on
		// the longest eligible bar.
		if r.Item.Tolerance > 0 {
			bestOpt := -1
			for i, s := range opts {
				if s.UsableLength(kerf) >= r.Item.MinLength() {
					if bestOpt < 0 || s.UsableLength(kerf) > opts[bestOpt].UsableLength(kerf) {
						bestOpt = i
					}
				}
			}
			if bestOpt >= 0 {
				s := opts[bestOpt]
				arena.place(arena.open(s), r, s.UsableLength(kerf))
				continue
			}
		}

		if !failed[r.Item.ID] {
			failed[r.Item.ID] = true
			errs = append(errs, &model.ItemTooLongError{
				ItemID:      r.Item.ID,
				ProfileType: r.Item.ProfileType,
				Length:      r.Item.Length,
			})
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return arena.finish(), nil
}

// PackFFD runs first-fit decreasing over the items.
func PackFFD(ctx context.Context, items []model.CutItem, catalog []model.StockOption, kerf float64) ([]model.Cut, error) {
	reqs := expandRequests(items)
	sortDecreasing(reqs)
	return packSequence(ctx, reqs, catalog, kerf, true)
}

// PackBFD runs best-fit decreasing: identical to FFD except that among
// the open cuts that fit, the one leaving the smallest remainder wins.
func PackBFD(ctx context.Context, items []model.CutItem, catalog []model.StockOption, kerf float64) ([]model.Cut, error) {
	reqs := expandRequests(items)
	sortDecreasing(reqs)
	return packSequence(ctx, reqs, catalog, kerf, false)
}
