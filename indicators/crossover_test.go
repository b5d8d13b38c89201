package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrossoverTransitions(t *testing.T) {
	t.Parallel()

	fast := []float64{1, 3, 3, 1, 1}
	slow := []float64{2, 2, 2, 2, 2}

	out := Crossover(fast, slow)

	assert.Equal(t, []int8{0, +1, 0, -1, 0}, out)
}

func TestCrossoverNaNWarmup(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	fast := []float64{nan, nan, 3, 1}
	slow := []float64{nan, 2, 2, 2}

	out := Crossover(fast, slow)

	// No transition can be detected until both columns have two
	// consecutive real values.
	assert.Equal(t, []int8{0, 0, 0, -1}, out)
}

func TestCrossoverTouchIsNotACross(t *testing.T) {
	t.Parallel()

	fast := []float64{1, 2, 1}
	slow := []float64{2, 2, 2}

	out := Crossover(fast, slow)

	assert.Equal(t, []int8{0, 0, 0}, out)
}
