package engine

import (
	"context"
	"fmt"

	"github.com/alucut/alucut/internal/model"
)

// poolSource records where the units of a pooled virtual item came from,
// so segments can be attributed back to their work orders afterwards.
type poolSource struct {
	ItemID    string
	WorkOrder string
	Quantity  int
}

// poolKey identifies items that are interchangeable for cutting: same
// profile, same length, same tolerance band.
func poolKey(it model.CutItem) string {
	return fmt.Sprintf("%s|%.3f|%.3f", it.ProfileType, it.Length, it.Tolerance)
}

// PoolItems merges compatible items across work orders into single
// virtual demands, enlarging the pool a packer can optimize over. The
// returned map preserves per-unit provenance keyed by virtual item ID.
func PoolItems(items []model.CutItem) ([]model.CutItem, map[string][]poolSource) {
	var pooled []model.CutItem
	index := make(map[string]int)            // pool key -> position in pooled
	sources := make(map[string][]poolSource) // virtual ID -> provenance

	for _, it := range items {
		key := poolKey(it)
		pos, ok := index[key]
		if !ok {
			virtual := it
			virtual.ID = "pool-" + it.ID
			virtual.WorkOrder = ""
			index[key] = len(pooled)
			pooled = append(pooled, virtual)
			pos = index[key]
		} else {
			pooled[pos].Quantity += it.Quantity
			if it.Priority < pooled[pos].Priority {
				pooled[pos].Priority = it.Priority
			}
		}
		sources[pooled[pos].ID] = append(sources[pooled[pos].ID], poolSource{
			ItemID:    it.ID,
			WorkOrder: it.WorkOrder,
			Quantity:  it.Quantity,
		})
	}
	return pooled, sources
}

// ReattributeSegments rewrites pooled segment references back to the
// originating items, consuming provenance quantities in input order so
// per-work-order reporting stays correct.
func ReattributeSegments(cuts []model.Cut, sources map[string][]poolSource) []model.Cut {
	// Cursor per virtual item into its provenance list.
	cursor := make(map[string]int)
	taken := make(map[string]int) // units already drawn from the current source

	out := make([]model.Cut, len(cuts))
	for ci, c := range cuts {
		segs := make([]model.Segment, len(c.Segments))
		copy(segs, c.Segments)
		for si := range segs {
			srcs, ok := sources[segs[si].ItemID]
			if !ok {
				continue
			}
			id := segs[si].ItemID
			for cursor[id] < len(srcs) && taken[id] >= srcs[cursor[id]].Quantity {
				cursor[id]++
				taken[id] = 0
			}
			if cursor[id] < len(srcs) {
				src := srcs[cursor[id]]
				segs[si].ItemID = src.ItemID
				segs[si].WorkOrder = src.WorkOrder
				taken[id]++
			}
		}
		out[ci] = c
		out[ci].Segments = segs
	}
	return out
}

// RunPooling consolidates compatible items across work orders, packs the
// virtual demand with FFD, and re-attributes the resulting segments.
func RunPooling(ctx context.Context, items []model.CutItem, catalog []model.StockOption, kerf float64) ([]model.Cut, error) {
	pooled, sources := PoolItems(items)
	cuts, err := PackFFD(ctx, pooled, catalog, kerf)
	if err != nil {
		return nil, err
	}
	return ReattributeSegments(cuts, sources), nil
}
