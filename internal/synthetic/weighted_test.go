package synthetic

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWeightedValidation(t *testing.T) {
	cases := map[string]struct {
		values  []string
		weights []float64
	}{
		"empty":      {values: nil, weights: nil},
		"length":     {values: []string{"a", "b"}, weights: []float64{1}},
		"negative":   {values: []string{"a", "b"}, weights: []float64{2, -1}},
		"zero total": {values: []string{"a", "b"}, weights: []float64{0, 0}},
		"nan":        {values: []string{"a", "b"}, weights: []float64{1, math.NaN()}},
		"infinite":   {values: []string{"a", "b"}, weights: []float64{math.Inf(1), 1}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewWeighted(tc.values, tc.weights)
			require.ErrorIs(t, err, ErrInvalidWeights)
		})
	}
}

func TestWeightedNormalizesRelativeWeights(t *testing.T) {
	weighted, err := NewWeighted([]string{"a", "b", "never"}, []float64{3, 1, 0})
	require.NoError(t, err)

	rng := rand.New(NewStream(42))
	counts := map[string]int{}

	for range 20000 {
		counts[weighted.Draw(rng)]++
	}

	require.Zero(t, counts["never"])
	require.InDelta(t, 0.75, float64(counts["a"])/20000, 0.02)
}

// fixedSource returns the same word forever.
type fixedSource uint64

func (f fixedSource) Uint64() uint64 { return uint64(f) }

func TestWeightedDrawConsumesOneFloat64(t *testing.T) {
	weighted, err := NewWeighted([]string{"a", "b", "c"}, []float64{0.5, 0.3, 0.2})
	require.NoError(t, err)

	for _, seed := range []int64{0, 1, 4321} {
		drawn := rand.New(NewStream(seed))
		parallel := rand.New(NewStream(seed))

		for range 100 {
			weighted.Draw(drawn)
			parallel.Float64()

			require.Equal(t, parallel.Uint64(), drawn.Uint64())
		}
	}
}

func TestWeightedTopEdgeSkipsZeroWeightTail(t *testing.T) {
	weighted, err := NewWeighted([]string{"a", "b", "never", "nope"}, []float64{3, 1, 0, 0})
	require.NoError(t, err)
	require.Equal(t, 1, weighted.lastPositive)

	// The largest Float64 the stream can yield.
	rng := rand.New(fixedSource(math.MaxUint64))
	require.Equal(t, "b", weighted.Draw(rng))
}

func TestWeightedFallbackReturnsLastPositiveValue(t *testing.T) {
	weighted, err := NewWeighted([]string{"a", "b", "never"}, []float64{3, 1, 0})
	require.NoError(t, err)

	// Bounds below the target force the post-loop fallback.
	weighted.cumulative = []float64{0, 0, 0}

	require.Equal(t, "b", weighted.Draw(rand.New(NewStream(7))))
}
