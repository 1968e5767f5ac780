package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestARIMA_MeanModel tests (0,0,0): the forecast is the history mean
func TestARIMA_MeanModel(t *testing.T) {
	model := NewARIMA(ARIMAOrder{P: 0, D: 0, Q: 0})

	forecast, err := model.ForecastOne([]float64{2, 4, 6, 8})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, forecast, 1e-12)
}

// TestARIMA_RandomWalkWithDrift tests (0,1,0) on a linear series: the
// differenced series is constant, so the forecast extends the trend exactly
func TestARIMA_RandomWalkWithDrift(t *testing.T) {
	series := make([]float64, 30)
	for i := range series {
		series[i] = float64(i + 1)
	}

	model := NewARIMA(ARIMAOrder{P: 0, D: 1, Q: 0})
	forecast, err := model.ForecastOne(series)
	require.NoError(t, err)
	assert.InDelta(t, 31.0, forecast, 1e-9)
}

// TestARIMA_AutoregressiveFit tests (1,0,0) on an exact AR(1) series
func TestARIMA_AutoregressiveFit(t *testing.T) {
	// x_t = 0.5*x_{t-1} + 2, converging toward 4
	series := make([]float64, 25)
	series[0] = 10
	for i := 1; i < len(series); i++ {
		series[i] = 0.5*series[i-1] + 2
	}

	model := NewARIMA(ARIMAOrder{P: 1, D: 0, Q: 0})
	forecast, err := model.ForecastOne(series)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*series[len(series)-1]+2, forecast, 1e-6)
}

// TestARIMA_MovingAverageStage tests that the (p,q>0) two-stage path produces
// a finite forecast on a rich series
func TestARIMA_MovingAverageStage(t *testing.T) {
	series := make([]float64, 120)
	for i := range series {
		ti := float64(i)
		series[i] = math.Sin(0.7*ti) + 0.6*math.Sin(1.9*ti) + 0.3*math.Sin(3.1*ti) + 0.05*ti
	}

	model := NewARIMA(ARIMAOrder{P: 1, D: 1, Q: 1})
	forecast, err := model.ForecastOne(series)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(forecast))
	assert.False(t, math.IsInf(forecast, 0))
}

// TestARIMA_HistoryTooShort tests the minimum-history guard
func TestARIMA_HistoryTooShort(t *testing.T) {
	model := NewARIMA(ARIMAOrder{P: 5, D: 0, Q: 0})

	_, err := model.ForecastOne([]float64{1, 2, 3, 4})
	assert.Error(t, err)
}

// TestARIMA_NegativeOrder tests order validation
func TestARIMA_NegativeOrder(t *testing.T) {
	model := NewARIMA(ARIMAOrder{P: -1, D: 0, Q: 0})

	_, err := model.ForecastOne([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	assert.Error(t, err)
}

// TestARIMAOrder_String tests the (p,d,q) display form
func TestARIMAOrder_String(t *testing.T) {
	order := ARIMAOrder{P: 2, D: 1, Q: 0}
	assert.Equal(t, "(2,1,0)", order.String())
	assert.Equal(t, "ARIMA(2,1,0)", NewARIMA(order).Name())
	assert.Equal(t, order, NewARIMA(order).Order())
}
