package preprocess

import (
	"errors"
	"fmt"
	"math"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/dataset"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/models"
)

// ErrRankingUnsupported is returned when the estimator exposes no
// per-feature importance signal. Callers fall back to the full feature set.
var ErrRankingUnsupported = errors.New("estimator does not expose feature weights")

// SelectTopFeatures performs recursive feature elimination: fit the
// estimator on the current feature subset, drop the feature with the
// smallest coefficient magnitude, repeat until n features remain. Fitting
// uses the training frame only; the returned subset is applied identically
// to validate/test by the caller.
func SelectTopFeatures(estimator models.Model, train *dataset.Frame, target string, features []string, n int) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("feature count must be >= 1, got %d", n)
	}
	if n >= len(features) {
		out := make([]string, len(features))
		copy(out, features)
		return out, nil
	}

	ranker, ok := estimator.(models.FeatureRanker)
	if !ok {
		return nil, fmt.Errorf("%s: %w", estimator.Name(), ErrRankingUnsupported)
	}

	y, err := train.Column(target)
	if err != nil {
		return nil, fmt.Errorf("feature selection: %w", err)
	}

	current := make([]string, len(features))
	copy(current, features)

	for len(current) > n {
		X, err := train.Matrix(current)
		if err != nil {
			return nil, fmt.Errorf("feature selection: %w", err)
		}
		if err := estimator.Fit(X, y); err != nil {
			return nil, fmt.Errorf("feature selection fit: %w", err)
		}

		weights := ranker.FeatureWeights()
		if len(weights) != len(current) {
			return nil, fmt.Errorf("feature selection: estimator returned %d weights for %d features", len(weights), len(current))
		}

		weakest := 0
		for j := 1; j < len(weights); j++ {
			if math.Abs(weights[j]) < math.Abs(weights[weakest]) {
				weakest = j
			}
		}
		current = append(current[:weakest], current[weakest+1:]...)
	}

	return current, nil
}
