package models

import (
	"fmt"
	"math"
)

// LinearRegression is an ordinary least squares regressor with intercept,
// solved through the normal equations.
type LinearRegression struct {
	name      string
	coef      []float64
	intercept float64
	fitted    bool
}

// NewLinearRegression creates an OLS regressor.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{name: "LinearRegression"}
}

func (m *LinearRegression) Name() string { return m.name }
func (m *LinearRegression) Kind() Kind   { return KindRegression }

func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	coef, intercept, err := solveLeastSquares(X, y, 0)
	if err != nil {
		return fmt.Errorf("%s fit: %w", m.name, err)
	}
	m.coef = coef
	m.intercept = intercept
	m.fitted = true
	return nil
}

func (m *LinearRegression) Predict(X [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	return linearPredict(X, m.coef, m.intercept)
}

// FeatureWeights returns the fitted coefficients (intercept excluded).
func (m *LinearRegression) FeatureWeights() []float64 {
	out := make([]float64, len(m.coef))
	copy(out, m.coef)
	return out
}

// RidgeRegression is least squares with L2 regularization on the
// coefficients (intercept unpenalized).
type RidgeRegression struct {
	name      string
	alpha     float64
	coef      []float64
	intercept float64
	fitted    bool
}

// NewRidgeRegression creates a ridge regressor with penalty alpha.
func NewRidgeRegression(alpha float64) *RidgeRegression {
	return &RidgeRegression{name: fmt.Sprintf("Ridge_a%g", alpha), alpha: alpha}
}

func (m *RidgeRegression) Name() string { return m.name }
func (m *RidgeRegression) Kind() Kind   { return KindRegression }

func (m *RidgeRegression) Fit(X [][]float64, y []float64) error {
	coef, intercept, err := solveLeastSquares(X, y, m.alpha)
	if err != nil {
		return fmt.Errorf("%s fit: %w", m.name, err)
	}
	m.coef = coef
	m.intercept = intercept
	m.fitted = true
	return nil
}

func (m *RidgeRegression) Predict(X [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	return linearPredict(X, m.coef, m.intercept)
}

func (m *RidgeRegression) FeatureWeights() []float64 {
	out := make([]float64, len(m.coef))
	copy(out, m.coef)
	return out
}

// LassoRegression is least squares with L1 regularization, fit by cyclic
// coordinate descent. Inputs are expected to be standardized.
type LassoRegression struct {
	name      string
	alpha     float64
	maxIter   int
	tol       float64
	coef      []float64
	intercept float64
	fitted    bool
}

// NewLassoRegression creates a lasso regressor with penalty alpha.
func NewLassoRegression(alpha float64) *LassoRegression {
	return &LassoRegression{
		name:    fmt.Sprintf("Lasso_a%g", alpha),
		alpha:   alpha,
		maxIter: 1000,
		tol:     1e-7,
	}
}

func (m *LassoRegression) Name() string { return m.name }
func (m *LassoRegression) Kind() Kind   { return KindRegression }

func (m *LassoRegression) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || len(y) != n {
		return fmt.Errorf("%s fit: bad shapes: %d rows, %d targets", m.name, n, len(y))
	}
	p := len(X[0])

	// center the target so the intercept drops out of the descent
	yMean := mean(y)
	r := make([]float64, n)
	for i := range r {
		r[i] = y[i] - yMean
	}

	coef := make([]float64, p)
	colNorm := make([]float64, p)
	for j := 0; j < p; j++ {
		for i := 0; i < n; i++ {
			colNorm[j] += X[i][j] * X[i][j]
		}
	}

	lambda := m.alpha * float64(n)
	for iter := 0; iter < m.maxIter; iter++ {
		maxDelta := 0.0
		for j := 0; j < p; j++ {
			if colNorm[j] == 0 {
				continue
			}

			// partial residual correlation with coordinate j
			rho := 0.0
			for i := 0; i < n; i++ {
				rho += X[i][j] * (r[i] + X[i][j]*coef[j])
			}

			updated := softThreshold(rho, lambda) / colNorm[j]
			delta := updated - coef[j]
			if delta != 0 {
				for i := 0; i < n; i++ {
					r[i] -= X[i][j] * delta
				}
				coef[j] = updated
			}
			if math.Abs(delta) > maxDelta {
				maxDelta = math.Abs(delta)
			}
		}
		if maxDelta < m.tol {
			break
		}
	}

	m.coef = coef
	m.intercept = yMean
	m.fitted = true
	return nil
}

func (m *LassoRegression) Predict(X [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	return linearPredict(X, m.coef, m.intercept)
}

func (m *LassoRegression) FeatureWeights() []float64 {
	out := make([]float64, len(m.coef))
	copy(out, m.coef)
	return out
}

func softThreshold(x, lambda float64) float64 {
	switch {
	case x > lambda:
		return x - lambda
	case x < -lambda:
		return x + lambda
	default:
		return 0
	}
}

// solveLeastSquares solves (X'X + alpha*I) beta = X'y with an intercept
// column, returning the feature coefficients and the intercept separately.
func solveLeastSquares(X [][]float64, y []float64, alpha float64) ([]float64, float64, error) {
	n := len(X)
	if n == 0 || len(y) != n {
		return nil, 0, fmt.Errorf("bad shapes: %d rows, %d targets", n, len(y))
	}
	p := len(X[0])
	d := p + 1 // intercept last

	// normal equations: A = X'X (+ alpha on feature diagonal), b = X'y
	A := make([][]float64, d)
	for i := range A {
		A[i] = make([]float64, d)
	}
	b := make([]float64, d)

	for i := 0; i < n; i++ {
		row := X[i]
		if len(row) != p {
			return nil, 0, fmt.Errorf("ragged feature matrix at row %d", i)
		}
		for j := 0; j < p; j++ {
			for k := j; k < p; k++ {
				A[j][k] += row[j] * row[k]
			}
			A[j][p] += row[j]
			b[j] += row[j] * y[i]
		}
		b[p] += y[i]
	}
	A[p][p] = float64(n)

	// mirror the upper triangle and apply the ridge penalty
	for j := 0; j < d; j++ {
		for k := 0; k < j; k++ {
			A[j][k] = A[k][j]
		}
	}
	for j := 0; j < p; j++ {
		A[j][j] += alpha
	}

	beta, err := solveLinearSystem(A, b)
	if err != nil {
		return nil, 0, err
	}
	return beta[:p], beta[p], nil
}

// solveLinearSystem solves A x = b by Gaussian elimination with partial
// pivoting. A and b are modified in place.
func solveLinearSystem(A [][]float64, b []float64) ([]float64, error) {
	d := len(A)
	for col := 0; col < d; col++ {
		pivot := col
		for r := col + 1; r < d; r++ {
			if math.Abs(A[r][col]) > math.Abs(A[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(A[pivot][col]) < 1e-12 {
			return nil, ErrSingularMatrix
		}
		A[col], A[pivot] = A[pivot], A[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < d; r++ {
			factor := A[r][col] / A[col][col]
			if factor == 0 {
				continue
			}
			for c := col; c < d; c++ {
				A[r][c] -= factor * A[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	x := make([]float64, d)
	for r := d - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < d; c++ {
			sum -= A[r][c] * x[c]
		}
		x[r] = sum / A[r][r]
	}
	return x, nil
}

func linearPredict(X [][]float64, coef []float64, intercept float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(coef) {
			return nil, fmt.Errorf("row %d has %d features, model has %d", i, len(row), len(coef))
		}
		v := intercept
		for j, x := range row {
			v += coef[j] * x
		}
		out[i] = v
	}
	return out, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
