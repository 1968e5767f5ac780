package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/types"
)

// rampCandles builds n daily candles starting Monday 2024-01-01 with
// close[t] = 100 + t and a fixed 2% high / 2% low band.
func rampCandles(n int) []types.OHLCV {
	candles := make([]types.OHLCV, n)
	for t := 0; t < n; t++ {
		c := 100.0 + float64(t)
		candles[t] = types.OHLCV{
			Timestamp: day(t),
			Open:      c,
			High:      c * 1.02,
			Low:       c * 0.98,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

// TestAddFeatures_RequiresMinimumCandles tests the lower bound on input length
func TestAddFeatures_RequiresMinimumCandles(t *testing.T) {
	_, err := AddFeatures(rampCandles(8))
	assert.Error(t, err)

	frame, err := AddFeatures(rampCandles(9))
	require.NoError(t, err)
	assert.Equal(t, 1, frame.Len())
}

// TestAddFeatures_DropsUnresolvedEdgeRows tests that only rows with all lags
// and forward targets resolved survive
func TestAddFeatures_DropsUnresolvedEdgeRows(t *testing.T) {
	frame, err := AddFeatures(rampCandles(12))
	require.NoError(t, err)

	// rows 0..6 lack lag 7, the last row lacks forward targets
	require.Equal(t, 4, frame.Len())
	assert.True(t, frame.Timestamp(0).Equal(day(7)))
	assert.True(t, frame.Timestamp(3).Equal(day(10)))
}

// TestAddFeatures_ForwardTargets tests the forward-looking target math
func TestAddFeatures_ForwardTargets(t *testing.T) {
	frame, err := AddFeatures(rampCandles(12))
	require.NoError(t, err)

	// first surviving row is candle t=7: close 107, next close 108
	close, err := frame.Value(0, ColClose)
	require.NoError(t, err)
	assert.Equal(t, 107.0, close)

	fwdRet, err := frame.Value(0, ColFwdRet)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fwdRet, 1e-12)

	fwdPct, err := frame.Value(0, ColFwdPctChg)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/107.0, fwdPct, 1e-12)

	fwdLog, err := frame.Value(0, ColFwdLogRet)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(108.0/107.0), fwdLog, 1e-12)

	fwdPos, err := frame.Value(0, ColFwdClosePositive)
	require.NoError(t, err)
	assert.Equal(t, 1.0, fwdPos)
}

// TestAddFeatures_LagAndRangeFeatures tests pct_chg, lagged log returns, rr
// and the Parkinson sigma lags
func TestAddFeatures_LagAndRangeFeatures(t *testing.T) {
	frame, err := AddFeatures(rampCandles(12))
	require.NoError(t, err)

	pctChg, err := frame.Value(0, "pct_chg")
	require.NoError(t, err)
	assert.InDelta(t, 107.0/106.0-1, pctChg, 1e-12)

	lag3, err := frame.Value(0, "log_ret_lag_3")
	require.NoError(t, err)
	assert.InDelta(t, math.Log(107.0/104.0), lag3, 1e-12)

	// previous candle spans [0.98c, 1.02c], so rr = 2*0.04c/2c
	rr, err := frame.Value(0, "rr")
	require.NoError(t, err)
	assert.InDelta(t, 0.04, rr, 1e-12)

	wantSigma := math.Log(1.02/0.98) / (2 * math.Sqrt(math.Log(2)))
	sigma, err := frame.Value(0, "sigma_lag_1")
	require.NoError(t, err)
	assert.InDelta(t, wantSigma, sigma, 1e-12)
}

// TestAddFeatures_DayDummies tests the Monday-reference day-of-week encoding
func TestAddFeatures_DayDummies(t *testing.T) {
	frame, err := AddFeatures(rampCandles(12))
	require.NoError(t, err)

	// 2024-01-01 is a Monday, so row 0 (day 7) is a Monday again
	require.Equal(t, time.Monday, frame.Timestamp(0).Weekday())
	for _, name := range dayNames {
		v, err := frame.Value(0, "day_"+name)
		require.NoError(t, err)
		assert.Equal(t, 0.0, v, "Monday rows carry no dummy")
	}

	// row 1 (day 8) is a Tuesday
	require.Equal(t, time.Tuesday, frame.Timestamp(1).Weekday())
	tue, err := frame.Value(1, "day_tuesday")
	require.NoError(t, err)
	assert.Equal(t, 1.0, tue)
	wed, err := frame.Value(1, "day_wednesday")
	require.NoError(t, err)
	assert.Equal(t, 0.0, wed)
}

// TestFeatureColumns_DisjointFromTargets tests that targets never leak into
// the model input set
func TestFeatureColumns_DisjointFromTargets(t *testing.T) {
	features := FeatureColumns()
	for _, target := range TargetColumns {
		assert.NotContains(t, features, target)
	}
	assert.NotContains(t, features, ColClose)

	// every scaled column is a feature column
	for _, col := range ScaledFeatureColumns() {
		assert.Contains(t, features, col)
	}
}
