package rolling

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/dataset"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/models"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/types"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// syntheticSplit builds a seeded random-walk candle series and turns it into
// a 60/20/20 feature split.
func syntheticSplit(t *testing.T, n int, seed int64) *dataset.Split {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))

	candles := make([]types.OHLCV, n)
	price := 100.0
	for i := range candles {
		open := price
		price *= 1 + rng.NormFloat64()*0.02
		high := math.Max(open, price) * (1 + 0.005 + 0.01*rng.Float64())
		low := math.Min(open, price) * (1 - 0.005 - 0.01*rng.Float64())
		candles[i] = types.OHLCV{
			Timestamp: day(i),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     price,
			Volume:    1000,
		}
	}

	frame, err := dataset.AddFeatures(candles)
	require.NoError(t, err)

	split, err := dataset.SplitByFraction(frame, 0.6, 0.2)
	require.NoError(t, err)
	return split
}

// probeModel records every fit it receives and predicts a constant.
type probeModel struct {
	kind     models.Kind
	pred     float64
	fitSizes []int
	lastY    []float64
}

func (m *probeModel) Name() string      { return "probe" }
func (m *probeModel) Kind() models.Kind { return m.kind }

func (m *probeModel) Fit(X [][]float64, y []float64) error {
	m.fitSizes = append(m.fitSizes, len(X))
	m.lastY = append(m.lastY, y[len(y)-1])
	return nil
}

func (m *probeModel) Predict(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i := range out {
		out[i] = m.pred
	}
	return out, nil
}

// TestRun_WindowKeepsTrainLength tests that every refit sees exactly |Train|
// rows for the whole walk
func TestRun_WindowKeepsTrainLength(t *testing.T) {
	split := syntheticSplit(t, 80, 7)
	probe := &probeModel{kind: models.KindRegression, pred: 0.01}

	result, err := Run(context.Background(), split, probe, Options{Asset: "BTCUSDT"})
	require.NoError(t, err)

	require.Len(t, probe.fitSizes, split.Validate.Len())
	for _, size := range probe.fitSizes {
		assert.Equal(t, split.Train.Len(), size)
	}
	assert.Len(t, result.Records, split.Validate.Len())
}

// TestRun_ValidateTargetEntersWindowAfterPrediction tests the no-look-ahead
// invariant: at step i the newest window target is validate row i-1's, never
// row i's own
func TestRun_ValidateTargetEntersWindowAfterPrediction(t *testing.T) {
	split := syntheticSplit(t, 80, 7)
	probe := &probeModel{kind: models.KindRegression, pred: 0.01}

	_, err := Run(context.Background(), split, probe, Options{Asset: "BTCUSDT"})
	require.NoError(t, err)

	trainY, err := split.Train.Column(dataset.ColFwdLogRet)
	require.NoError(t, err)
	validateY, err := split.Validate.Column(dataset.ColFwdLogRet)
	require.NoError(t, err)

	require.Len(t, probe.lastY, split.Validate.Len())
	assert.Equal(t, trainY[len(trainY)-1], probe.lastY[0])
	for i := 1; i < len(probe.lastY); i++ {
		assert.Equal(t, validateY[i-1], probe.lastY[i], "step %d must see only already-predicted targets", i)
	}
}

// TestRun_RecordsAlignWithValidateRows tests record timestamps and actuals
func TestRun_RecordsAlignWithValidateRows(t *testing.T) {
	split := syntheticSplit(t, 80, 7)
	probe := &probeModel{kind: models.KindRegression, pred: 0.01}

	result, err := Run(context.Background(), split, probe, Options{Asset: "BTCUSDT"})
	require.NoError(t, err)

	validateY, err := split.Validate.Column(dataset.ColFwdLogRet)
	require.NoError(t, err)

	for i, rec := range result.Records {
		assert.True(t, rec.Timestamp.Equal(split.Validate.Timestamp(i)))
		assert.Equal(t, validateY[i], rec.Actual)
		assert.Equal(t, 0.01, rec.Predicted)
	}
	assert.False(t, math.IsNaN(result.TrainMetric))
	assert.False(t, math.IsNaN(result.ValidateMetric))
}

// TestRun_EmptyValidateSegmentErrors tests that a split with no validate rows
// is rejected instead of producing NaN metrics
func TestRun_EmptyValidateSegmentErrors(t *testing.T) {
	split := syntheticSplit(t, 80, 7)
	split.Validate = split.Validate.Slice(0, 0)
	probe := &probeModel{kind: models.KindRegression, pred: 0.01}

	_, err := Run(context.Background(), split, probe, Options{Asset: "BTCUSDT"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate segment is empty")
}

// TestRun_CancelledContextAborts tests that cancellation is fatal for the run
func TestRun_CancelledContextAborts(t *testing.T) {
	split := syntheticSplit(t, 80, 7)
	probe := &probeModel{kind: models.KindRegression}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, split, probe, Options{Asset: "BTCUSDT"})
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRun_RealModelIsDeterministic tests that two identical runs produce
// identical prediction sequences
func TestRun_RealModelIsDeterministic(t *testing.T) {
	split := syntheticSplit(t, 80, 7)

	first, err := Run(context.Background(), split, models.NewRidgeRegression(1.0), Options{Asset: "BTCUSDT"})
	require.NoError(t, err)
	second, err := Run(context.Background(), split, models.NewRidgeRegression(1.0), Options{Asset: "BTCUSDT"})
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.TrainMetric, second.TrainMetric)
	assert.Equal(t, first.ValidateMetric, second.ValidateMetric)
}

// TestRunResult_Finalize tests conversion into a trade table and a rolling
// leaderboard row
func TestRunResult_Finalize(t *testing.T) {
	split := syntheticSplit(t, 80, 7)
	probe := &probeModel{kind: models.KindRegression, pred: 0.01}

	result, err := Run(context.Background(), split, probe, Options{Asset: "BTCUSDT"})
	require.NoError(t, err)

	modelResult, row, err := result.Finalize(split.Validate)
	require.NoError(t, err)

	assert.Equal(t, "probe", modelResult.Model)
	assert.Equal(t, "rolling", modelResult.Regime)
	assert.Len(t, modelResult.Rows, split.Validate.Len())
	for _, trade := range modelResult.Rows {
		assert.True(t, trade.GoLong, "constant positive prediction is always long")
	}

	assert.Equal(t, "rolling", row.Regime)
	assert.True(t, row.HasRMSE())
	assert.Equal(t, result.TrainMetric, row.TrainRMSE)
	assert.Equal(t, result.ValidateMetric, row.ValidateRMSE)
}
