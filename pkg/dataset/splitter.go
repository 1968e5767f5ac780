package dataset

import "fmt"

// Split is a chronologically ordered train/validate/test partition of a
// frame. Segments are contiguous and non-overlapping: train ends strictly
// before validate begins, validate strictly before test. Immutable once
// created.
type Split struct {
	Train    *Frame
	Validate *Frame
	Test     *Frame
}

// SplitByFraction splits a frame into train/validate/test by row fractions,
// preserving chronological order. No shuffling.
func SplitByFraction(frame *Frame, trainFraction, validateFraction float64) (*Split, error) {
	if trainFraction <= 0 || validateFraction <= 0 || trainFraction+validateFraction >= 1 {
		return nil, fmt.Errorf("invalid split fractions: train=%.2f validate=%.2f", trainFraction, validateFraction)
	}

	n := frame.Len()
	trainSize := int(float64(n) * trainFraction)
	validateSize := int(float64(n) * validateFraction)

	if trainSize < 1 || validateSize < 1 || trainSize+validateSize >= n {
		return nil, fmt.Errorf("not enough rows to split: %d rows, train=%d validate=%d", n, trainSize, validateSize)
	}

	validateEnd := trainSize + validateSize
	return &Split{
		Train:    frame.Slice(0, trainSize),
		Validate: frame.Slice(trainSize, validateEnd),
		Test:     frame.Slice(validateEnd, n),
	}, nil
}
