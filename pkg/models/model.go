package models

import "errors"

// Kind declares how a model's predictions are scored and traded on.
type Kind int

const (
	// KindRegression models predict the continuous forward log return.
	KindRegression Kind = iota
	// KindClassification models predict the binary forward-positive label
	// as 0/1.
	KindClassification
)

func (k Kind) String() string {
	switch k {
	case KindRegression:
		return "regression"
	case KindClassification:
		return "classification"
	default:
		return "unknown"
	}
}

// Model is the uniform fit/predict capability the evaluation engine works
// against. Implementations carry an explicit name; the engine never derives
// names from type inspection.
type Model interface {
	Name() string
	Kind() Kind

	// Fit trains the model on feature matrix X and target vector y.
	Fit(X [][]float64, y []float64) error

	// Predict returns one prediction per row of X.
	Predict(X [][]float64) ([]float64, error)
}

// FeatureRanker is implemented by models whose fitted state exposes a
// per-feature importance signal usable for recursive feature elimination.
type FeatureRanker interface {
	// FeatureWeights returns one weight per input feature of the last Fit.
	// Magnitude is the ranking signal.
	FeatureWeights() []float64
}

// Forecaster is the expanding-history time-series variant: it is refit from
// scratch on the full history at every step and predicts a single next value.
type Forecaster interface {
	Name() string

	// ForecastOne fits on the entire history and returns the one-step-ahead
	// forecast.
	ForecastOne(history []float64) (float64, error)
}

// Factory builds a fresh, unfitted model instance. Rolling runs use it so
// each (asset, model) run owns private model state.
type Factory func() Model

var (
	// ErrNotFitted is returned by Predict before a successful Fit.
	ErrNotFitted = errors.New("model is not fitted")

	// ErrSingularMatrix is returned when a linear system has no stable
	// solution for the given inputs.
	ErrSingularMatrix = errors.New("singular design matrix")
)
