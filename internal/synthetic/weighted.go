package synthetic

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

var ErrInvalidWeights = errors.New("invalid weights")

// Weighted is a categorical distribution over a fixed set of values.
// Weights are relative; they do not need to sum to 1.
type Weighted[T any] struct {
	values     []T
	cumulative []float64
	total      float64
	// lastPositive indexes the last value with a non-zero weight.
	lastPositive int
}

func NewWeighted[T any](values []T, weights []float64) (*Weighted[T], error) {
	if len(values) == 0 || len(values) != len(weights) {
		return nil, fmt.Errorf("%w: %d values, %d weights", ErrInvalidWeights, len(values), len(weights))
	}

	cumulative := make([]float64, len(weights))

	var total float64

	lastPositive := 0

	for indx, weight := range weights {
		if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			return nil, fmt.Errorf("%w: weight %v at position %d", ErrInvalidWeights, weight, indx)
		}

		if weight > 0 {
			lastPositive = indx
		}

		total += weight
		cumulative[indx] = total
	}

	if total <= 0 || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: total weight must be positive", ErrInvalidWeights)
	}

	valuesCopy := make([]T, len(values))
	copy(valuesCopy, values)

	return &Weighted[T]{
		values:       valuesCopy,
		cumulative:   cumulative,
		total:        total,
		lastPositive: lastPositive,
	}, nil
}

// Draw consumes exactly one Float64 from rng.
func (w *Weighted[T]) Draw(rng *rand.Rand) T {
	target := rng.Float64() * w.total

	for indx, bound := range w.cumulative {
		if target < bound {
			return w.values[indx]
		}
	}

	return w.values[w.lastPositive]
}
