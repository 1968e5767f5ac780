package models

import (
	"fmt"
)

// ARIMAOrder is the (p, d, q) hyperparameter triple of an ARIMA model.
type ARIMAOrder struct {
	P int // autoregressive lags
	D int // differencing passes
	Q int // moving-average lags
}

func (o ARIMAOrder) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// ARIMA is an expanding-history one-step forecaster. Every call to
// ForecastOne refits from scratch on the full history: the model owns an
// ever-growing history, not a fixed window.
//
// Estimation is two-stage conditional least squares (Hannan-Rissanen): a
// long autoregression approximates the innovations, then the AR and MA
// coefficients are estimated jointly by OLS on lagged values and lagged
// innovation estimates.
type ARIMA struct {
	name  string
	order ARIMAOrder
}

// NewARIMA creates an ARIMA(p,d,q) forecaster.
func NewARIMA(order ARIMAOrder) *ARIMA {
	return &ARIMA{name: "ARIMA" + order.String(), order: order}
}

func (m *ARIMA) Name() string { return m.name }

// Order returns the model's (p,d,q) triple.
func (m *ARIMA) Order() ARIMAOrder { return m.order }

// ForecastOne fits on history and returns the forecast for the next step.
func (m *ARIMA) ForecastOne(history []float64) (float64, error) {
	p, d, q := m.order.P, m.order.D, m.order.Q
	if p < 0 || d < 0 || q < 0 {
		return 0, fmt.Errorf("%s: negative order", m.name)
	}

	w := difference(history, d)

	minLen := p + q + d + 2
	if q > 0 {
		minLen += longAROrder(p, q)
	}
	if len(w) < minLen || len(w) <= p+q {
		return 0, fmt.Errorf("%s: history too short (%d values)", m.name, len(history))
	}

	var next float64
	var err error
	if q == 0 {
		next, err = forecastAR(w, p)
	} else {
		next, err = forecastARMA(w, p, q)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", m.name, err)
	}

	return integrate(history, d, next), nil
}

// difference applies d passes of first differencing.
func difference(x []float64, d int) []float64 {
	w := make([]float64, len(x))
	copy(w, x)
	for pass := 0; pass < d; pass++ {
		if len(w) < 2 {
			return nil
		}
		next := make([]float64, len(w)-1)
		for i := 1; i < len(w); i++ {
			next[i-1] = w[i] - w[i-1]
		}
		w = next
	}
	return w
}

// integrate maps a forecast of the d-times differenced series back to the
// level of the original series.
func integrate(history []float64, d int, forecast float64) float64 {
	// collect the trailing value of each difference level
	levels := make([]float64, 0, d)
	w := make([]float64, len(history))
	copy(w, history)
	for pass := 0; pass < d; pass++ {
		levels = append(levels, w[len(w)-1])
		next := make([]float64, len(w)-1)
		for i := 1; i < len(w); i++ {
			next[i-1] = w[i] - w[i-1]
		}
		w = next
	}

	out := forecast
	for i := d - 1; i >= 0; i-- {
		out += levels[i]
	}
	return out
}

// forecastAR fits w_t = c + sum(phi_i * w_{t-i}) by OLS and predicts the
// next value. p == 0 degenerates to the series mean.
func forecastAR(w []float64, p int) (float64, error) {
	if p == 0 {
		return mean(w), nil
	}

	n := len(w) - p
	X := make([][]float64, n)
	y := make([]float64, n)
	for t := p; t < len(w); t++ {
		row := make([]float64, p)
		for i := 1; i <= p; i++ {
			row[i-1] = w[t-i]
		}
		X[t-p] = row
		y[t-p] = w[t]
	}

	coef, intercept, err := solveLeastSquares(X, y, 0)
	if err != nil {
		return 0, err
	}

	next := intercept
	for i := 1; i <= p; i++ {
		next += coef[i-1] * w[len(w)-i]
	}
	return next, nil
}

// forecastARMA estimates AR and MA coefficients jointly after approximating
// the innovations with a long autoregression, then predicts the next value.
func forecastARMA(w []float64, p, q int) (float64, error) {
	m := longAROrder(p, q)

	// stage 1: innovations from a long AR fit
	resid, err := arResiduals(w, m)
	if err != nil {
		return 0, err
	}

	// stage 2: w_t on lags of w and lags of the estimated innovations
	start := m + maxInt(p, q)
	n := len(w) - start
	if n <= p+q+1 {
		return 0, fmt.Errorf("history too short for ARMA(%d,%d) stage", p, q)
	}

	X := make([][]float64, n)
	y := make([]float64, n)
	for t := start; t < len(w); t++ {
		row := make([]float64, p+q)
		for i := 1; i <= p; i++ {
			row[i-1] = w[t-i]
		}
		for j := 1; j <= q; j++ {
			row[p+j-1] = resid[t-j]
		}
		X[t-start] = row
		y[t-start] = w[t]
	}

	coef, intercept, err := solveLeastSquares(X, y, 0)
	if err != nil {
		return 0, err
	}

	next := intercept
	for i := 1; i <= p; i++ {
		next += coef[i-1] * w[len(w)-i]
	}
	for j := 1; j <= q; j++ {
		next += coef[p+j-1] * resid[len(w)-j]
	}
	return next, nil
}

// arResiduals fits AR(m) and returns the in-sample residual series, aligned
// with w (the first m entries are zero).
func arResiduals(w []float64, m int) ([]float64, error) {
	n := len(w) - m
	if n <= m+1 {
		return nil, fmt.Errorf("history too short for AR(%d) innovations", m)
	}

	X := make([][]float64, n)
	y := make([]float64, n)
	for t := m; t < len(w); t++ {
		row := make([]float64, m)
		for i := 1; i <= m; i++ {
			row[i-1] = w[t-i]
		}
		X[t-m] = row
		y[t-m] = w[t]
	}

	coef, intercept, err := solveLeastSquares(X, y, 0)
	if err != nil {
		return nil, err
	}

	resid := make([]float64, len(w))
	for t := m; t < len(w); t++ {
		pred := intercept
		for i := 1; i <= m; i++ {
			pred += coef[i-1] * w[t-i]
		}
		resid[t] = w[t] - pred
	}
	return resid, nil
}

func longAROrder(p, q int) int {
	m := p + q + 3
	if m < 5 {
		m = 5
	}
	return m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
