package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alucut/alucut/internal/model"
)

func TestAnalyze_AssemblesResult(t *testing.T) {
	a := NewAnalyzer(DefaultWasteConfig(), DefaultCostRates())

	cuts := []model.Cut{
		{
			Stock:           model.StockOption{ProfileType: "40x40", StockLength: 3100},
			Segments:        []model.Segment{{Length: 1000}, {Length: 1000}, {Length: 1000}},
			UsedLength:      3000,
			KerfLoss:        15,
			RemainingLength: 85,
		},
	}

	res := a.Analyze(cuts, model.AlgorithmFFD, 3*time.Millisecond, nil)

	assert.Equal(t, model.AlgorithmFFD, res.Algorithm)
	assert.Equal(t, 1, res.BarCount())
	assert.Equal(t, 3, res.SegmentCount())
	assert.InDelta(t, 3100.0, res.TotalStockLength, 1e-9)
	assert.InDelta(t, 100.0, res.TotalWaste, 1e-9)
	assert.InDelta(t, 3000.0/3100.0, res.Efficiency, 1e-9)
	assert.Equal(t, model.WasteSmall, res.Cuts[0].WasteCategory)
	assert.Equal(t, 1, res.WasteByCategory[model.WasteSmall])
	assert.False(t, res.Cost.Total.IsZero())
	assert.NotEmpty(t, res.Quality.Grade)
	assert.Equal(t, 3*time.Millisecond, res.ExecutionTime)
	assert.Nil(t, res.Telemetry)
}

func TestAnalyze_EmptyCuts(t *testing.T) {
	a := NewAnalyzer(DefaultWasteConfig(), DefaultCostRates())
	res := a.Analyze(nil, model.AlgorithmFFD, 0, nil)

	assert.Zero(t, res.TotalStockLength)
	assert.Zero(t, res.Efficiency)
	assert.Zero(t, res.WastePercentage)
	assert.Equal(t, 0, res.BarCount())
}

func TestRecommend_ReclaimableRemainder(t *testing.T) {
	a := NewAnalyzer(DefaultWasteConfig(), DefaultCostRates())
	cuts := []model.Cut{{
		Stock:           model.StockOption{ProfileType: "40x40", StockLength: 6000},
		Segments:        []model.Segment{{Length: 5500}},
		UsedLength:      5500,
		RemainingLength: 450,
	}}

	res := a.Analyze(cuts, model.AlgorithmGenetic, 0, nil)

	var reclaim *model.Recommendation
	for i := range res.Recommendations {
		if res.Recommendations[i].Type == "reclaim" {
			reclaim = &res.Recommendations[i]
		}
	}
	require.NotNil(t, reclaim, "expected a reclaim recommendation")
	assert.Equal(t, "info", reclaim.Severity)
	assert.False(t, reclaim.PotentialSavings.IsZero())
}

func TestRecommend_ExcessiveWasteAndAlgorithmHint(t *testing.T) {
	a := NewAnalyzer(DefaultWasteConfig(), DefaultCostRates())
	cuts := []model.Cut{{
		Stock:           model.StockOption{ProfileType: "40x40", StockLength: 6000},
		Segments:        []model.Segment{{Length: 2000}},
		UsedLength:      2000,
		RemainingLength: 3995,
	}}

	res := a.Analyze(cuts, model.AlgorithmFFD, 0, nil)

	types := make(map[string]bool)
	for _, r := range res.Recommendations {
		types[r.Type] = true
	}
	assert.True(t, types["stock_length"], "excessive remainder should flag stock lengths")
	assert.True(t, types["algorithm"], "low efficiency on a heuristic should suggest search")
}

func TestRecommend_SqueezedPieces(t *testing.T) {
	a := NewAnalyzer(DefaultWasteConfig(), DefaultCostRates())
	cuts := []model.Cut{{
		Stock:           model.StockOption{ProfileType: "40x40", StockLength: 3000},
		Segments:        []model.Segment{{Length: 2995, Squeezed: true}},
		UsedLength:      2995,
		RemainingLength: 0,
	}}

	res := a.Analyze(cuts, model.AlgorithmFFD, 0, nil)

	found := false
	for _, r := range res.Recommendations {
		if r.Type == "tolerance" {
			found = true
			assert.Equal(t, "warning", r.Severity)
		}
	}
	assert.True(t, found)
}

func TestRecommend_CleanRunIsQuiet(t *testing.T) {
	a := NewAnalyzer(DefaultWasteConfig(), DefaultCostRates())
	cuts := []model.Cut{{
		Stock:           model.StockOption{ProfileType: "40x40", StockLength: 6000},
		Segments:        []model.Segment{{Length: 2980}, {Length: 2980}},
		UsedLength:      5960,
		KerfLoss:        10,
		RemainingLength: 30,
	}}

	res := a.Analyze(cuts, model.AlgorithmFFD, 0, nil)
	assert.Empty(t, res.Recommendations)
}
