package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fittedKNN(t *testing.T, k int) *KNNClassifier {
	t.Helper()
	X := [][]float64{{0}, {1}, {2}, {10}}
	y := []float64{0, 0, 1, 1}

	model := NewKNNClassifier(k)
	require.NoError(t, model.Fit(X, y))
	return model
}

// TestKNNClassifier_MajorityVote tests the plain majority decision
func TestKNNClassifier_MajorityVote(t *testing.T) {
	model := fittedKNN(t, 3)

	pred, err := model.Predict([][]float64{{0.1}, {9}})
	require.NoError(t, err)

	// {0.1}: neighbors 0, 1, 2 vote 0, 0, 1
	assert.Equal(t, 0.0, pred[0])
	// {9}: neighbors 10, 2, 1 vote 1, 1, 0
	assert.Equal(t, 1.0, pred[1])
}

// TestKNNClassifier_TieFallsToNearestNeighbor tests the even-k tie break
func TestKNNClassifier_TieFallsToNearestNeighbor(t *testing.T) {
	model := fittedKNN(t, 2)

	// {1.5} is equidistant from train rows 1 (label 0) and 2 (label 1);
	// the stable sort keeps row 1 first, so its label wins the tie
	pred, err := model.Predict([][]float64{{1.5}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, pred[0])
}

// TestKNNClassifier_CapsNeighborsAtTrainSize tests k larger than the train set
func TestKNNClassifier_CapsNeighborsAtTrainSize(t *testing.T) {
	model := fittedKNN(t, 50)

	pred, err := model.Predict([][]float64{{5}})
	require.NoError(t, err)
	// all four rows vote: 2 zeros vs 2 ones, nearest neighbor ({2}, label 1) breaks the tie
	assert.Equal(t, 1.0, pred[0])
}

// TestKNNClassifier_PredictBeforeFit tests the not-fitted guard
func TestKNNClassifier_PredictBeforeFit(t *testing.T) {
	model := NewKNNClassifier(3)

	_, err := model.Predict([][]float64{{1}})
	assert.True(t, errors.Is(err, ErrNotFitted))
}

// TestKNNClassifier_InvalidNeighborCount tests the k < 1 guard
func TestKNNClassifier_InvalidNeighborCount(t *testing.T) {
	model := NewKNNClassifier(0)
	assert.Error(t, model.Fit([][]float64{{1}}, []float64{1}))
}

// TestKNNClassifier_Metadata tests name and kind tags
func TestKNNClassifier_Metadata(t *testing.T) {
	model := NewKNNClassifier(5)
	assert.Equal(t, "KNeighborsClassifier_k5", model.Name())
	assert.Equal(t, KindClassification, model.Kind())
}
