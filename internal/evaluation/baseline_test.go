package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/dataset"
)

func labeledFrame(t *testing.T, startDay int, closes, fwdRets, labels []float64) *dataset.Frame {
	t.Helper()
	frame := dataset.NewFrame([]string{
		dataset.ColClose, dataset.ColFwdRet, dataset.ColFwdPctChg, dataset.ColFwdClosePositive,
	})
	for i := range closes {
		require.NoError(t, frame.AppendRow(day(startDay+i), []float64{
			closes[i], fwdRets[i], fwdRets[i] / closes[i], labels[i],
		}))
	}
	return frame
}

// TestBuyAndHoldRow_AveragesForwardReturns tests the no-model baseline
func TestBuyAndHoldRow_AveragesForwardReturns(t *testing.T) {
	validate := labeledFrame(t, 0,
		[]float64{100, 100, 100},
		[]float64{4, -2, 1},
		[]float64{1, 0, 1})

	row, err := BuyAndHoldRow("BTCUSDT", RegimeConventional, validate)
	require.NoError(t, err)

	assert.Equal(t, "baseline_hold", row.Model)
	assert.InDelta(t, 1.0, row.AvgTrade, 1e-12)
	assert.InDelta(t, 0.01, row.PctAvgTrade, 1e-12)
	assert.False(t, row.HasRMSE())
	assert.False(t, row.HasAccuracy())
}

// TestMajorityClassResult_PositiveMajority tests the always-long baseline
// when the training labels lean positive
func TestMajorityClassResult_PositiveMajority(t *testing.T) {
	train := labeledFrame(t, 0,
		[]float64{100, 100, 100, 100},
		[]float64{1, 1, -1, 1},
		[]float64{1, 1, 0, 1})
	validate := labeledFrame(t, 4,
		[]float64{100, 100},
		[]float64{3, -1},
		[]float64{1, 0})

	result, row, err := MajorityClassResult("BTCUSDT", RegimeConventional, train, validate)
	require.NoError(t, err)

	assert.Equal(t, "baseline_majority", result.Model)
	require.Len(t, result.Rows, 2)
	assert.True(t, result.Rows[0].GoLong)
	assert.True(t, result.Rows[1].GoLong)
	assert.InDelta(t, 1.0, result.AvgTrade, 1e-12)

	assert.InDelta(t, 0.75, row.TrainAccuracy, 1e-12)
	assert.InDelta(t, 0.5, row.ValidateAccuracy, 1e-12)
	assert.True(t, row.HasAccuracy())
	assert.False(t, row.HasRMSE())
}

// TestMajorityClassResult_NegativeMajority tests the always-short baseline
func TestMajorityClassResult_NegativeMajority(t *testing.T) {
	train := labeledFrame(t, 0,
		[]float64{100, 100, 100, 100},
		[]float64{-1, -1, 1, -1},
		[]float64{0, 0, 1, 0})
	validate := labeledFrame(t, 4,
		[]float64{100, 100},
		[]float64{2, -4},
		[]float64{1, 0})

	result, row, err := MajorityClassResult("BTCUSDT", RegimeConventional, train, validate)
	require.NoError(t, err)

	assert.False(t, result.Rows[0].GoLong)
	// short both steps: -2 then +4
	assert.InDelta(t, 1.0, result.AvgTrade, 1e-12)
	assert.InDelta(t, 0.75, row.TrainAccuracy, 1e-12)
}

// TestMajorityClassResult_ExactTiePicksPositive tests the even-split case
func TestMajorityClassResult_ExactTiePicksPositive(t *testing.T) {
	train := labeledFrame(t, 0,
		[]float64{100, 100},
		[]float64{1, -1},
		[]float64{1, 0})
	validate := labeledFrame(t, 2,
		[]float64{100},
		[]float64{5},
		[]float64{1})

	result, _, err := MajorityClassResult("BTCUSDT", RegimeConventional, train, validate)
	require.NoError(t, err)
	assert.True(t, result.Rows[0].GoLong, "ties resolve to the positive class")
}
