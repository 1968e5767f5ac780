package rolling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/models"
)

func linearSeries(n int) []float64 {
	series := make([]float64, n)
	for i := range series {
		series[i] = float64(i + 1)
	}
	return series
}

// TestGridOrders_CartesianProduct tests grid expansion
func TestGridOrders_CartesianProduct(t *testing.T) {
	orders := GridOrders([]int{0, 1}, []int{0}, []int{0, 1, 2})

	require.Len(t, orders, 6)
	assert.Equal(t, models.ARIMAOrder{P: 0, D: 0, Q: 0}, orders[0])
	assert.Equal(t, models.ARIMAOrder{P: 1, D: 0, Q: 2}, orders[5])
}

// TestSearchARIMA_RanksByMSE tests that candidates come back sorted ascending
// and the trend-following order wins on a linear series
func TestSearchARIMA_RanksByMSE(t *testing.T) {
	series := linearSeries(40)
	orders := []models.ARIMAOrder{
		{P: 0, D: 0, Q: 0},
		{P: 0, D: 1, Q: 0},
	}

	candidates, err := SearchARIMA(context.Background(), series, orders, ARIMASearchOptions{Asset: "BTCUSDT"})
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, models.ARIMAOrder{P: 0, D: 1, Q: 0}, candidates[0].Order)
	assert.InDelta(t, 0.0, candidates[0].MSE, 1e-9, "(0,1,0) extends a linear trend exactly")
	assert.Less(t, candidates[0].MSE, candidates[1].MSE)
}

// TestSearchARIMA_SkipsFailingCandidate tests that an order too rich for the
// series is dropped without aborting the sweep
func TestSearchARIMA_SkipsFailingCandidate(t *testing.T) {
	series := linearSeries(40)
	orders := []models.ARIMAOrder{
		{P: 0, D: 1, Q: 0},
		{P: 9, D: 0, Q: 9}, // needs more history than the sweep provides
		{P: 0, D: 0, Q: 0},
	}

	candidates, err := SearchARIMA(context.Background(), series, orders, ARIMASearchOptions{Asset: "BTCUSDT"})
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	for _, candidate := range candidates {
		assert.NotEqual(t, models.ARIMAOrder{P: 9, D: 0, Q: 9}, candidate.Order)
	}
}

// TestSearchARIMA_CancelledContextAbortsSweep tests that an interrupt is
// never swallowed by the per-candidate skip
func TestSearchARIMA_CancelledContextAbortsSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	candidates, err := SearchARIMA(ctx, linearSeries(40),
		[]models.ARIMAOrder{{P: 0, D: 1, Q: 0}}, ARIMASearchOptions{Asset: "BTCUSDT"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, candidates)
}

// TestSearchARIMA_SeriesTooShort tests the minimum-length guard
func TestSearchARIMA_SeriesTooShort(t *testing.T) {
	_, err := SearchARIMA(context.Background(), linearSeries(3),
		[]models.ARIMAOrder{{P: 0, D: 0, Q: 0}}, ARIMASearchOptions{Asset: "BTCUSDT"})
	assert.Error(t, err)
}
