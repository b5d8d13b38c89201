// Package indicators provides column-oriented technical indicators.
//
// Each function takes price columns and returns a slice of the same length.
// Rows inside the warm-up window are NaN; callers must treat NaN as
// "indicator not ready" and skip signal evaluation for that bar.
package indicators

import "math"

// SMA returns the simple moving average of values over period.
func SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA returns the exponential moving average of values over period.
// The first ready value is seeded with the SMA of the warm-up window.
func EMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	mult := 2.0 / float64(period+1)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	prev := sum / float64(period)
	out[period-1] = prev

	for i := period; i < len(values); i++ {
		prev = (values[i]-prev)*mult + prev
		out[i] = prev
	}
	return out
}

// RSI returns the Wilder relative strength index of values over period,
// in the range [0, 100].
func RSI(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD returns the MACD line, signal line, and histogram for values.
func MACD(values []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	n := len(values)
	macd = nanSlice(n)
	sig = nanSlice(n)
	hist = nanSlice(n)

	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)

	// MACD line exists wherever both EMAs do.
	lineStart := -1
	for i := 0; i < n; i++ {
		if !math.IsNaN(fastEMA[i]) && !math.IsNaN(slowEMA[i]) {
			macd[i] = fastEMA[i] - slowEMA[i]
			if lineStart == -1 {
				lineStart = i
			}
		}
	}
	if lineStart == -1 || n-lineStart < signal {
		return macd, sig, hist
	}

	sigTail := EMA(macd[lineStart:], signal)
	for i, v := range sigTail {
		sig[lineStart+i] = v
		if !math.IsNaN(v) {
			hist[lineStart+i] = macd[lineStart+i] - v
		}
	}
	return macd, sig, hist
}

// Bollinger returns the upper, middle, and lower Bollinger Bands for
// values over period with stdDev standard deviations.
func Bollinger(values []float64, period int, stdDev float64) (upper, middle, lower []float64) {
	n := len(values)
	upper = nanSlice(n)
	lower = nanSlice(n)
	middle = SMA(values, period)

	if period <= 1 || n < period {
		return upper, middle, lower
	}

	for i := period - 1; i < n; i++ {
		mean := middle[i]
		var sq float64
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			sq += d * d
		}
		sd := math.Sqrt(sq / float64(period))
		upper[i] = mean + stdDev*sd
		lower[i] = mean - stdDev*sd
	}
	return upper, middle, lower
}

// ATR returns the Wilder average true range over period.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if period <= 0 || n <= period {
		return out
	}

	tr := make([]float64, n)
	tr[0] = highs[0] - lows[0]
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	prev := sum / float64(period)
	out[period] = prev

	for i := period + 1; i < n; i++ {
		prev = (prev*float64(period-1) + tr[i]) / float64(period)
		out[i] = prev
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
