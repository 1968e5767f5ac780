package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// planeData generates rows on y = 2*x1 - 3*x2 + 1.
func planeData() ([][]float64, []float64) {
	X := [][]float64{
		{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 1}, {1, 2}, {3, 2},
	}
	y := make([]float64, len(X))
	for i, row := range X {
		y[i] = 2*row[0] - 3*row[1] + 1
	}
	return X, y
}

// TestLinearRegression_RecoversCoefficients tests exact recovery on noiseless data
func TestLinearRegression_RecoversCoefficients(t *testing.T) {
	X, y := planeData()

	model := NewLinearRegression()
	require.NoError(t, model.Fit(X, y))

	weights := model.FeatureWeights()
	require.Len(t, weights, 2)
	assert.InDelta(t, 2.0, weights[0], 1e-9)
	assert.InDelta(t, -3.0, weights[1], 1e-9)

	pred, err := model.Predict([][]float64{{5, 4}})
	require.NoError(t, err)
	assert.InDelta(t, 2*5-3*4+1, pred[0], 1e-9)
}

// TestLinearRegression_PredictBeforeFit tests the not-fitted guard
func TestLinearRegression_PredictBeforeFit(t *testing.T) {
	model := NewLinearRegression()

	_, err := model.Predict([][]float64{{1, 2}})
	assert.True(t, errors.Is(err, ErrNotFitted))
}

// TestLinearRegression_SingularMatrix tests that duplicated columns are rejected
func TestLinearRegression_SingularMatrix(t *testing.T) {
	X := [][]float64{{1, 1}, {2, 2}, {3, 3}, {4, 4}}
	y := []float64{1, 2, 3, 4}

	model := NewLinearRegression()
	err := model.Fit(X, y)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSingularMatrix))
}

// TestLinearRegression_Metadata tests name and kind tags
func TestLinearRegression_Metadata(t *testing.T) {
	model := NewLinearRegression()
	assert.Equal(t, "LinearRegression", model.Name())
	assert.Equal(t, KindRegression, model.Kind())
	assert.Equal(t, "regression", model.Kind().String())
}

// TestRidgeRegression_ShrinksCoefficients tests that the penalty pulls
// coefficients toward zero relative to OLS
func TestRidgeRegression_ShrinksCoefficients(t *testing.T) {
	X, y := planeData()

	ols := NewLinearRegression()
	require.NoError(t, ols.Fit(X, y))

	ridge := NewRidgeRegression(10.0)
	require.NoError(t, ridge.Fit(X, y))

	olsNorm := l1(ols.FeatureWeights())
	ridgeNorm := l1(ridge.FeatureWeights())
	assert.Less(t, ridgeNorm, olsNorm)
	assert.Greater(t, ridgeNorm, 0.0)

	assert.Equal(t, "Ridge_a10", ridge.Name())
}

// TestRidgeRegression_ZeroAlphaMatchesOLS tests the alpha=0 degenerate case
func TestRidgeRegression_ZeroAlphaMatchesOLS(t *testing.T) {
	X, y := planeData()

	ols := NewLinearRegression()
	require.NoError(t, ols.Fit(X, y))
	ridge := NewRidgeRegression(0)
	require.NoError(t, ridge.Fit(X, y))

	olsW := ols.FeatureWeights()
	ridgeW := ridge.FeatureWeights()
	for j := range olsW {
		assert.InDelta(t, olsW[j], ridgeW[j], 1e-9)
	}
}

// TestLassoRegression_ZeroesIrrelevantFeature tests the sparsity property on
// a feature orthogonal to the target
func TestLassoRegression_ZeroesIrrelevantFeature(t *testing.T) {
	// zero-mean columns: y depends on x1 only, x2 is orthogonal noise
	X := [][]float64{
		{-3, 1}, {-1, -1}, {1, -1}, {3, 1},
	}
	y := make([]float64, len(X))
	for i, row := range X {
		y[i] = 5*row[0] + 10
	}

	model := NewLassoRegression(0.001)
	require.NoError(t, model.Fit(X, y))

	weights := model.FeatureWeights()
	require.Len(t, weights, 2)
	assert.InDelta(t, 5.0, weights[0], 1e-2)
	assert.Equal(t, 0.0, weights[1])

	pred, err := model.Predict([][]float64{{1, 0}})
	require.NoError(t, err)
	assert.InDelta(t, 15.0, pred[0], 1e-1)

	assert.Equal(t, "Lasso_a0.001", model.Name())
}

// TestLassoRegression_LargePenaltyKillsAllCoefficients tests that a heavy
// penalty leaves only the intercept
func TestLassoRegression_LargePenaltyKillsAllCoefficients(t *testing.T) {
	X := [][]float64{{-1, 0}, {0, 1}, {1, -1}, {0, 0}}
	y := []float64{1, 2, 3, 2}

	model := NewLassoRegression(1000)
	require.NoError(t, model.Fit(X, y))

	for _, w := range model.FeatureWeights() {
		assert.Equal(t, 0.0, w)
	}

	pred, err := model.Predict([][]float64{{7, 7}})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, pred[0], 1e-12, "intercept is the target mean")
}

// TestLassoRegression_PredictBeforeFit tests the not-fitted guard
func TestLassoRegression_PredictBeforeFit(t *testing.T) {
	model := NewLassoRegression(0.1)

	_, err := model.Predict([][]float64{{1, 2}})
	assert.True(t, errors.Is(err, ErrNotFitted))
}

// TestLinearPredict_FeatureCountMismatch tests prediction shape validation
func TestLinearPredict_FeatureCountMismatch(t *testing.T) {
	X, y := planeData()
	model := NewLinearRegression()
	require.NoError(t, model.Fit(X, y))

	_, err := model.Predict([][]float64{{1, 2, 3}})
	assert.Error(t, err)
}

func l1(weights []float64) float64 {
	sum := 0.0
	for _, w := range weights {
		sum += math.Abs(w)
	}
	return sum
}
