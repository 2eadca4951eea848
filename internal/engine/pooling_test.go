package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alucut/alucut/internal/model"
)

func orderItem(id, order, profile string, length float64, qty int) model.CutItem {
	it := testItem(id, profile, length, qty)
	it.WorkOrder = order
	return it
}

func TestPoolItems_MergesCompatibleItems(t *testing.T) {
	items := []model.CutItem{
		orderItem("a", "WO-1", "40x40", 1000, 3),
		orderItem("b", "WO-2", "40x40", 1000, 2),
		orderItem("c", "WO-1", "40x40", 800, 1),
	}

	pooled, sources := PoolItems(items)
	require.Len(t, pooled, 2)

	assert.Equal(t, "pool-a", pooled[0].ID)
	assert.Equal(t, 5, pooled[0].Quantity)
	assert.Empty(t, pooled[0].WorkOrder)
	assert.Equal(t, "pool-c", pooled[1].ID)
	assert.Equal(t, 1, pooled[1].Quantity)

	require.Len(t, sources["pool-a"], 2)
	assert.Equal(t, "WO-1", sources["pool-a"][0].WorkOrder)
	assert.Equal(t, "WO-2", sources["pool-a"][1].WorkOrder)
}

func TestPoolItems_DifferentToleranceNotMerged(t *testing.T) {
	a := orderItem("a", "WO-1", "40x40", 1000, 1)
	b := orderItem("b", "WO-2", "40x40", 1000, 1)
	b.Tolerance = 5

	pooled, _ := PoolItems([]model.CutItem{a, b})
	assert.Len(t, pooled, 2)
}

func TestRunPooling_SegmentsAttributedBackToOrders(t *testing.T) {
	items := []model.CutItem{
		orderItem("a", "WO-1", "40x40", 1000, 3),
		orderItem("b", "WO-2", "40x40", 1000, 2),
	}
	catalog := []model.StockOption{testStock("s1", "40x40", 6000, 1)}

	cuts, err := RunPooling(context.Background(), items, catalog, 5.0)
	require.NoError(t, err)

	perOrder := make(map[string]int)
	perItem := make(map[string]int)
	for _, c := range cuts {
		for _, seg := range c.Segments {
			perOrder[seg.WorkOrder]++
			perItem[seg.ItemID]++
		}
	}

	// Pooling may reorder where each piece lands, but every work order
	// still receives exactly its requested quantity.
	assert.Equal(t, 3, perOrder["WO-1"])
	assert.Equal(t, 2, perOrder["WO-2"])
	assert.Equal(t, 3, perItem["a"])
	assert.Equal(t, 2, perItem["b"])
}

func TestRunPooling_UsesFewerOrEqualBars(t *testing.T) {
	// Two orders whose pieces individually leave large remainders but
	// interleave cleanly once pooled.
	items := []model.CutItem{
		orderItem("a", "WO-1", "40x40", 2100, 2),
		orderItem("b", "WO-2", "40x40", 2100, 2),
		orderItem("c", "WO-1", "40x40", 1700, 2),
		orderItem("d", "WO-2", "40x40", 1700, 2),
	}
	catalog := []model.StockOption{testStock("s1", "40x40", 6000, 1)}

	pooledCuts, err := RunPooling(context.Background(), items, catalog, 5.0)
	require.NoError(t, err)

	plainCuts, err := PackFFD(context.Background(), items, catalog, 5.0)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(pooledCuts), len(plainCuts))
	assert.Equal(t, totalSegments(plainCuts), totalSegments(pooledCuts))
}

func TestReattributeSegments_LeavesUnknownIDs(t *testing.T) {
	cuts := []model.Cut{{
		Stock:    testStock("s1", "40x40", 6000, 1),
		Segments: []model.Segment{{ItemID: "direct", Length: 1000}},
	}}

	out := ReattributeSegments(cuts, map[string][]poolSource{})
	require.Len(t, out, 1)
	assert.Equal(t, "direct", out[0].Segments[0].ItemID)
}
