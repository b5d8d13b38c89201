package indicators

import "math"

// Crossover detects fast/slow MA crossings.
//
// Returns a column with +1 on the bar where fast transitions from <=slow
// to >slow, -1 on the reverse transition, 0 otherwise. Bars where either
// MA is NaN (warm-up) yield 0.
func Crossover(fast, slow []float64) []int8 {
	out := make([]int8, len(fast))

	for i := 1; i < len(fast); i++ {
		if math.IsNaN(fast[i]) || math.IsNaN(slow[i]) ||
			math.IsNaN(fast[i-1]) || math.IsNaN(slow[i-1]) {
			continue
		}

		above := fast[i] > slow[i]
		wasAbove := fast[i-1] > slow[i-1]

		switch {
		case above && !wasAbove:
			out[i] = +1
		case !above && wasAbove:
			out[i] = -1
		}
	}
	return out
}
