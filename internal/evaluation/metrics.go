package evaluation

import (
	"fmt"
	"math"
)

// RMSE returns the root mean squared error between actual and predicted
// values.
func RMSE(actual, predicted []float64) (float64, error) {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0, fmt.Errorf("rmse: bad shapes: %d actual, %d predicted", len(actual), len(predicted))
	}

	sum := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual))), nil
}

// Accuracy returns the fraction of predictions matching the actual 0/1
// labels. Predictions are thresholded at > 0 so both hard labels and signed
// scores work.
func Accuracy(actual, predicted []float64) (float64, error) {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0, fmt.Errorf("accuracy: bad shapes: %d actual, %d predicted", len(actual), len(predicted))
	}

	correct := 0
	for i := range actual {
		if (actual[i] > 0) == (predicted[i] > 0) {
			correct++
		}
	}
	return float64(correct) / float64(len(actual)), nil
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
