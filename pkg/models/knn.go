package models

import (
	"fmt"
	"math"
	"sort"
)

// KNNClassifier predicts the majority 0/1 label among the k nearest training
// rows by Euclidean distance. It exposes no feature-importance signal, so
// recursive feature elimination cannot use it.
type KNNClassifier struct {
	name      string
	neighbors int

	trainX [][]float64
	trainY []float64
	fitted bool
}

// NewKNNClassifier creates a k-nearest-neighbors classifier.
func NewKNNClassifier(neighbors int) *KNNClassifier {
	return &KNNClassifier{
		name:      fmt.Sprintf("KNeighborsClassifier_k%d", neighbors),
		neighbors: neighbors,
	}
}

func (m *KNNClassifier) Name() string { return m.name }
func (m *KNNClassifier) Kind() Kind   { return KindClassification }

func (m *KNNClassifier) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(y) != len(X) {
		return fmt.Errorf("%s fit: bad shapes: %d rows, %d targets", m.name, len(X), len(y))
	}
	if m.neighbors < 1 {
		return fmt.Errorf("%s fit: neighbors must be >= 1", m.name)
	}

	m.trainX = make([][]float64, len(X))
	for i, row := range X {
		cp := make([]float64, len(row))
		copy(cp, row)
		m.trainX[i] = cp
	}
	m.trainY = make([]float64, len(y))
	copy(m.trainY, y)
	m.fitted = true
	return nil
}

func (m *KNNClassifier) Predict(X [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}

	k := m.neighbors
	if k > len(m.trainX) {
		k = len(m.trainX)
	}

	out := make([]float64, len(X))
	type neighbor struct {
		dist  float64
		index int
	}
	for i, row := range X {
		if len(row) != len(m.trainX[0]) {
			return nil, fmt.Errorf("row %d has %d features, model has %d", i, len(row), len(m.trainX[0]))
		}

		nbrs := make([]neighbor, len(m.trainX))
		for t, tr := range m.trainX {
			d := 0.0
			for j := range tr {
				diff := row[j] - tr[j]
				d += diff * diff
			}
			nbrs[t] = neighbor{dist: math.Sqrt(d), index: t}
		}
		// stable order keeps predictions deterministic on distance ties
		sort.SliceStable(nbrs, func(a, b int) bool { return nbrs[a].dist < nbrs[b].dist })

		positive := 0
		for _, nb := range nbrs[:k] {
			if m.trainY[nb.index] > 0 {
				positive++
			}
		}
		switch {
		case 2*positive > k:
			out[i] = 1
		case 2*positive < k:
			out[i] = 0
		default:
			// exact tie: side with the single nearest neighbor
			out[i] = m.trainY[nbrs[0].index]
		}
	}
	return out, nil
}
