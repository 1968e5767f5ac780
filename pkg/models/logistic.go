package models

import (
	"fmt"
	"math"
)

// LogisticRegression is a binary classifier fit by batch gradient descent
// with L2 regularization. Targets are 0/1; predictions are 0/1 at a 0.5
// probability threshold.
type LogisticRegression struct {
	name         string
	c            float64 // inverse regularization strength
	learningRate float64
	maxIter      int
	tol          float64

	coef      []float64
	intercept float64
	fitted    bool
}

// NewLogisticRegression creates a logistic classifier. c is the inverse
// regularization strength (larger c, weaker penalty).
func NewLogisticRegression(c float64) *LogisticRegression {
	return &LogisticRegression{
		name:         fmt.Sprintf("LogisticRegression_C%g", c),
		c:            c,
		learningRate: 0.1,
		maxIter:      500,
		tol:          1e-6,
	}
}

func (m *LogisticRegression) Name() string { return m.name }
func (m *LogisticRegression) Kind() Kind   { return KindClassification }

func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || len(y) != n {
		return fmt.Errorf("%s fit: bad shapes: %d rows, %d targets", m.name, n, len(y))
	}
	p := len(X[0])

	coef := make([]float64, p)
	intercept := 0.0
	lambda := 1.0 / (m.c * float64(n))

	grad := make([]float64, p)
	for iter := 0; iter < m.maxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < n; i++ {
			row := X[i]
			if len(row) != p {
				return fmt.Errorf("%s fit: ragged feature matrix at row %d", m.name, i)
			}
			z := intercept
			for j, x := range row {
				z += coef[j] * x
			}
			err := sigmoid(z) - y[i]
			for j, x := range row {
				grad[j] += err * x
			}
			gradIntercept += err
		}

		maxStep := 0.0
		for j := 0; j < p; j++ {
			step := m.learningRate * (grad[j]/float64(n) + lambda*coef[j])
			coef[j] -= step
			if math.Abs(step) > maxStep {
				maxStep = math.Abs(step)
			}
		}
		step := m.learningRate * gradIntercept / float64(n)
		intercept -= step
		if math.Abs(step) > maxStep {
			maxStep = math.Abs(step)
		}

		if maxStep < m.tol {
			break
		}
	}

	m.coef = coef
	m.intercept = intercept
	m.fitted = true
	return nil
}

func (m *LogisticRegression) Predict(X [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}

	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.coef) {
			return nil, fmt.Errorf("row %d has %d features, model has %d", i, len(row), len(m.coef))
		}
		z := m.intercept
		for j, x := range row {
			z += m.coef[j] * x
		}
		if sigmoid(z) >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

func (m *LogisticRegression) FeatureWeights() []float64 {
	out := make([]float64, len(m.coef))
	copy(out, m.coef)
	return out
}

func sigmoid(z float64) float64 {
	// clamp to keep exp in range
	if z > 35 {
		return 1
	}
	if z < -35 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}
