package preprocess

import (
	"fmt"
	"math"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/dataset"
)

// StandardScaler standardizes the marked columns to zero mean and unit
// variance. Statistics are fit on the training segment only and reused
// verbatim for validate/test so no out-of-sample information leaks into the
// transform.
type StandardScaler struct {
	columns []string
	mean    []float64
	std     []float64
	fitted  bool
}

// NewStandardScaler creates a scaler for the given columns. Columns not
// listed pass through Transform unchanged.
func NewStandardScaler(columns []string) *StandardScaler {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &StandardScaler{columns: cols}
}

// Fit computes per-column mean and standard deviation from the frame.
func (s *StandardScaler) Fit(frame *dataset.Frame) error {
	if frame.Len() == 0 {
		return fmt.Errorf("cannot fit scaler on empty frame")
	}

	s.mean = make([]float64, len(s.columns))
	s.std = make([]float64, len(s.columns))

	for k, col := range s.columns {
		values, err := frame.Column(col)
		if err != nil {
			return fmt.Errorf("fit scaler: %w", err)
		}

		m := 0.0
		for _, v := range values {
			m += v
		}
		m /= float64(len(values))

		variance := 0.0
		for _, v := range values {
			diff := v - m
			variance += diff * diff
		}
		variance /= float64(len(values))

		std := math.Sqrt(variance)
		if std == 0 {
			// constant column: pass through centered only
			std = 1
		}

		s.mean[k] = m
		s.std[k] = std
	}

	s.fitted = true
	return nil
}

// Transform returns a copy of the frame with the scaler's columns
// standardized using the fitted statistics. The input frame is not modified.
func (s *StandardScaler) Transform(frame *dataset.Frame) (*dataset.Frame, error) {
	if !s.fitted {
		return nil, fmt.Errorf("scaler is not fitted")
	}

	out := frame.Copy()
	for k, col := range s.columns {
		values, err := out.Column(col)
		if err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
		for i := range values {
			values[i] = (values[i] - s.mean[k]) / s.std[k]
		}
		if err := out.SetColumn(col, values); err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
	}
	return out, nil
}

// FitTransform fits on the frame and returns its transformed copy.
func (s *StandardScaler) FitTransform(frame *dataset.Frame) (*dataset.Frame, error) {
	if err := s.Fit(frame); err != nil {
		return nil, err
	}
	return s.Transform(frame)
}

// Mean returns the fitted mean for the named column.
func (s *StandardScaler) Mean(column string) (float64, bool) {
	for k, col := range s.columns {
		if col == column {
			return s.mean[k], s.fitted
		}
	}
	return 0, false
}

// Std returns the fitted standard deviation for the named column.
func (s *StandardScaler) Std(column string) (float64, bool) {
	for k, col := range s.columns {
		if col == column {
			return s.std[k], s.fitted
		}
	}
	return 0, false
}

// ScaleSplit fits a scaler on the split's train segment and returns
// transformed copies of all three segments sharing the train statistics.
func ScaleSplit(split *dataset.Split, columns []string) (*dataset.Split, *StandardScaler, error) {
	scaler := NewStandardScaler(columns)

	train, err := scaler.FitTransform(split.Train)
	if err != nil {
		return nil, nil, fmt.Errorf("scale train: %w", err)
	}
	validate, err := scaler.Transform(split.Validate)
	if err != nil {
		return nil, nil, fmt.Errorf("scale validate: %w", err)
	}
	test, err := scaler.Transform(split.Test)
	if err != nil {
		return nil, nil, fmt.Errorf("scale test: %w", err)
	}

	return &dataset.Split{Train: train, Validate: validate, Test: test}, scaler, nil
}
