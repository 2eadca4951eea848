package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alucut/alucut/internal/model"
)

func testItem(id, profile string, length float64, qty int) model.CutItem {
	return model.CutItem{ID: id, ProfileType: profile, Length: length, Quantity: qty}
}

func testStock(id, profile string, length float64, priority int) model.StockOption {
	return model.StockOption{ID: id, ProfileType: profile, StockLength: length, Priority: priority}
}

func totalSegments(cuts []model.Cut) int {
	n := 0
	for _, c := range cuts {
		n += len(c.Segments)
	}
	return n
}

func TestPackFFD_ThreePiecesOneBar(t *testing.T) {
	items := []model.CutItem{testItem("a", "40x40", 1000, 3)}
	catalog := []model.StockOption{testStock("s1", "40x40", 3100, 1)}

	cuts, err := PackFFD(context.Background(), items, catalog, 5.0)
	require.NoError(t, err)
	require.Len(t, cuts, 1)

	cut := cuts[0]
	assert.Len(t, cut.Segments, 3)
	assert.InDelta(t, 3000.0, cut.UsedLength, 1e-9)
	assert.InDelta(t, 15.0, cut.KerfLoss, 1e-9)
	assert.InDelta(t, 85.0, cut.RemainingLength, 1e-9)
}

func TestPackFFD_SegmentPositionsAccountForKerf(t *testing.T) {
	items := []model.CutItem{testItem("a", "40x40", 1000, 3)}
	catalog := []model.StockOption{testStock("s1", "40x40", 3100, 1)}

	cuts, err := PackFFD(context.Background(), items, catalog, 5.0)
	require.NoError(t, err)
	require.Len(t, cuts, 1)

	segs := cuts[0].Segments
	require.Len(t, segs, 3)
	assert.InDelta(t, 0.0, segs[0].Position, 1e-9)
	assert.InDelta(t, 1000.0, segs[0].EndPosition, 1e-9)
	assert.InDelta(t, 1005.0, segs[1].Position, 1e-9)
	assert.InDelta(t, 2010.0, segs[2].Position, 1e-9)
	assert.Equal(t, 1, segs[0].SequenceNumber)
	assert.Equal(t, 3, segs[2].SequenceNumber)
}

func TestPackFFD_ItemLongerThanAnyStock(t *testing.T) {
	items := []model.CutItem{testItem("long", "40x40", 7000, 1)}
	catalog := []model.StockOption{testStock("s1", "40x40", 6000, 1)}

	_, err := PackFFD(context.Background(), items, catalog, 5.0)
	require.Error(t, err)

	var tooLong *model.ItemTooLongError
	require.True(t, errors.As(err, &tooLong))
	assert.Equal(t, "long", tooLong.ItemID)
	assert.Equal(t, 7000.0, tooLong.Length)
}

func TestPackFFD_QuantityConservation(t *testing.T) {
	items := []model.CutItem{
		testItem("a", "40x40", 1200, 4),
		testItem("b", "40x40", 800, 7),
		testItem("c", "40x40", 350, 11),
	}
	catalog := []model.StockOption{testStock("s1", "40x40", 6000, 1)}

	cuts, err := PackFFD(context.Background(), items, catalog, 5.0)
	require.NoError(t, err)
	assert.Equal(t, 22, totalSegments(cuts))

	// Every bar respects its physical length.
	for _, c := range cuts {
		assert.GreaterOrEqual(t, c.RemainingLength, 0.0)
		assert.InDelta(t, c.Stock.StockLength, c.UsedLength+c.KerfLoss+c.RemainingLength, 1e-9)
	}
}

func TestPackFFD_Deterministic(t *testing.T) {
	items := []model.CutItem{
		testItem("a", "40x40", 1200, 4),
		testItem("b", "40x40", 800, 7),
		testItem("c", "40x40", 350, 11),
	}
	catalog := []model.StockOption{
		testStock("s1", "40x40", 6000, 1),
		testStock("s2", "40x40", 4000, 2),
	}

	first, err := PackFFD(context.Background(), items, catalog, 5.0)
	require.NoError(t, err)
	second, err := PackFFD(context.Background(), items, catalog, 5.0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPackBFD_PrefersTightestBin(t *testing.T) {
	// Two open bars after the long pieces: BFD should drop the 500 piece
	// into the bar where it leaves the smaller remainder.
	items := []model.CutItem{
		testItem("a", "40x40", 1800, 1),
		testItem("b", "40x40", 1400, 1),
		testItem("c", "40x40", 500, 1),
	}
	catalog := []model.StockOption{testStock("s1", "40x40", 2000, 1)}

	cuts, err := PackBFD(context.Background(), items, catalog, 0)
	require.NoError(t, err)
	require.Len(t, cuts, 2)

	// 1800 and 1400 each open a bar; 500 fits only next to 1400.
	assert.Len(t, cuts[0].Segments, 1)
	assert.Len(t, cuts[1].Segments, 2)
	assert.InDelta(t, 1900.0, cuts[1].UsedLength, 1e-9)
}

func TestPackBFD_TieBreaksByCreationOrder(t *testing.T) {
	// Both open bars leave identical slack for the last piece; the earlier
	// bar must win.
	items := []model.CutItem{
		testItem("a", "40x40", 1500, 2),
		testItem("b", "40x40", 400, 1),
	}
	catalog := []model.StockOption{testStock("s1", "40x40", 2000, 1)}

	cuts, err := PackBFD(context.Background(), items, catalog, 0)
	require.NoError(t, err)
	require.Len(t, cuts, 2)
	assert.Len(t, cuts[0].Segments, 2)
	assert.Len(t, cuts[1].Segments, 1)
}

func TestPackFFD_ToleranceSqueeze(t *testing.T) {
	// Nominal 3000 does not fit a 3000 bar once the kerf is charged, but
	// the 10mm tolerance band does.
	items := []model.CutItem{{
		ID: "sq", ProfileType: "40x40", Length: 3000, Quantity: 1, Tolerance: 10,
	}}
	catalog := []model.StockOption{testStock("s1", "40x40", 3000, 1)}

	cuts, err := PackFFD(context.Background(), items, catalog, 5.0)
	require.NoError(t, err)
	require.Len(t, cuts, 1)
	require.Len(t, cuts[0].Segments, 1)

	seg := cuts[0].Segments[0]
	assert.True(t, seg.Squeezed)
	assert.InDelta(t, 2995.0, seg.Length, 1e-9)
	assert.GreaterOrEqual(t, seg.Length, 2990.0)
}

func TestPackFFD_SqueezeBelowToleranceFails(t *testing.T) {
	items := []model.CutItem{{
		ID: "sq", ProfileType: "40x40", Length: 3000, Quantity: 1, Tolerance: 2,
	}}
	catalog := []model.StockOption{testStock("s1", "40x40", 3000, 1)}

	_, err := PackFFD(context.Background(), items, catalog, 5.0)
	var tooLong *model.ItemTooLongError
	require.True(t, errors.As(err, &tooLong))
}

func TestPackFFD_StockPriorityWins(t *testing.T) {
	items := []model.CutItem{testItem("a", "40x40", 1000, 1)}
	catalog := []model.StockOption{
		testStock("cheap", "40x40", 6000, 2),
		testStock("preferred", "40x40", 4000, 1),
	}

	cuts, err := PackFFD(context.Background(), items, catalog, 5.0)
	require.NoError(t, err)
	require.Len(t, cuts, 1)
	assert.Equal(t, "preferred", cuts[0].Stock.ID)
}

func TestPackFFD_ProfilesNeverShareBars(t *testing.T) {
	items := []model.CutItem{
		testItem("a", "40x40", 500, 2),
		testItem("b", "80x40", 500, 2),
	}
	catalog := []model.StockOption{
		testStock("s1", "40x40", 6000, 1),
		testStock("s2", "80x40", 6000, 1),
	}

	cuts, err := PackFFD(context.Background(), items, catalog, 5.0)
	require.NoError(t, err)
	require.Len(t, cuts, 2)
	for _, c := range cuts {
		for _, seg := range c.Segments {
			var want string
			if seg.ItemID == "a" {
				want = "40x40"
			} else {
				want = "80x40"
			}
			assert.Equal(t, want, c.Stock.ProfileType)
		}
	}
}

func TestPackFFD_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []model.CutItem{testItem("a", "40x40", 1000, 3)}
	catalog := []model.StockOption{testStock("s1", "40x40", 3100, 1)}

	_, err := PackFFD(ctx, items, catalog, 5.0)
	assert.ErrorIs(t, err, context.Canceled)
}
