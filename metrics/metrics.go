// Package metrics derives risk-adjusted performance statistics from a
// closed-trade ledger and an equity curve. Everything here is a pure
// function; the simulation engine assembles these into a results record.
package metrics

import (
	"math"
	"time"
)

// annualization assumes 252 trading days.
const tradingDaysPerYear = 252

// WinRate returns winning trades as a percentage of all trades, 0 with no
// trades. A trade wins when pnl > 0.
func WinRate(pnls []float64) float64 {
	if len(pnls) == 0 {
		return 0
	}
	wins := 0
	for _, p := range pnls {
		if p > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(pnls)) * 100
}

// ProfitFactor returns gross profit over gross loss. +Inf when there are
// winners and no losing pnl; 0 with no trades.
func ProfitFactor(pnls []float64) float64 {
	if len(pnls) == 0 {
		return 0
	}

	var grossProfit, grossLoss float64
	for _, p := range pnls {
		if p > 0 {
			grossProfit += p
		} else {
			grossLoss -= p
		}
	}

	if grossLoss == 0 {
		if grossProfit > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return grossProfit / grossLoss
}

// AvgWin returns the mean pnl of winning trades, 0 when there are none.
func AvgWin(pnls []float64) float64 {
	var sum float64
	n := 0
	for _, p := range pnls {
		if p > 0 {
			sum += p
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// AvgLoss returns the mean pnl of losing trades (a value <= 0), 0 when
// there are none. Zero-pnl trades count as losses.
func AvgLoss(pnls []float64) float64 {
	var sum float64
	n := 0
	for _, p := range pnls {
		if p <= 0 {
			sum += p
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Returns computes per-bar simple returns of the equity curve.
func Returns(equity []float64) []float64 {
	if len(equity) < 2 {
		return nil
	}
	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		out = append(out, (equity[i]-equity[i-1])/equity[i-1])
	}
	return out
}

// Sharpe returns the annualized Sharpe ratio of the equity curve, 0 when
// the curve has fewer than 2 points or returns have zero deviation.
func Sharpe(equity []float64) float64 {
	r := Returns(equity)
	if len(r) == 0 {
		return 0
	}

	m := mean(r)
	sd := stddev(r, m)
	if sd == 0 {
		return 0
	}
	return m / sd * math.Sqrt(tradingDaysPerYear)
}

// Sortino is Sharpe with only downside deviation in the denominator.
// +Inf when there are no negative returns and the mean return is
// positive; 0 otherwise.
func Sortino(equity []float64) float64 {
	r := Returns(equity)
	if len(r) == 0 {
		return 0
	}

	m := mean(r)

	var downside []float64
	for _, v := range r {
		if v < 0 {
			downside = append(downside, v)
		}
	}
	if len(downside) == 0 {
		if m > 0 {
			return math.Inf(1)
		}
		return 0
	}

	sd := stddev(downside, mean(downside))
	if sd == 0 {
		if m > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return m / sd * math.Sqrt(tradingDaysPerYear)
}

// MaxDrawdown returns the worst percentage decline of equity from its
// running peak. Always <= 0.
func MaxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0]
	worst := 0.0
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		dd := (e - peak) / peak * 100
		if dd < worst {
			worst = dd
		}
	}
	return worst
}

// OverDrawdown divides numerator by |maxDrawdown|. Used for both Calmar
// (total return %) and recovery factor (total pnl). +Inf when drawdown is
// zero and the numerator is positive; 0 when both are zero or worse.
func OverDrawdown(numerator, maxDrawdown float64) float64 {
	dd := math.Abs(maxDrawdown)
	if dd == 0 {
		if numerator > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return numerator / dd
}

// Expectancy returns the probability-weighted average profit per trade.
func Expectancy(pnls []float64) float64 {
	if len(pnls) == 0 {
		return 0
	}

	winFrac := WinRate(pnls) / 100
	avgWin := AvgWin(pnls)
	avgLoss := math.Abs(AvgLoss(pnls))

	return winFrac*avgWin - (1-winFrac)*avgLoss
}

// AvgDurationHours returns the mean trade duration in hours.
func AvgDurationHours(durations []time.Duration) float64 {
	if len(durations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return total.Hours() / float64(len(durations))
}

// LargestWin returns the best single-trade pnl, 0 with no trades.
func LargestWin(pnls []float64) float64 {
	best := 0.0
	for _, p := range pnls {
		if p > best {
			best = p
		}
	}
	return best
}

// LargestLoss returns the worst single-trade pnl, 0 with no trades.
func LargestLoss(pnls []float64) float64 {
	worst := 0.0
	for _, p := range pnls {
		if p < worst {
			worst = p
		}
	}
	return worst
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stddev is the population standard deviation.
func stddev(vals []float64, m float64) float64 {
	var sq float64
	for _, v := range vals {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals)))
}
