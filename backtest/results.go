package backtest

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rustyeddy/backtester/metrics"
)

// Results is the summary record of a completed run.
type Results struct {
	InitialCapital     float64
	FinalEquity        float64
	TotalReturnPercent float64
	TotalPnL           float64

	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64
	AvgWin        float64
	AvgLoss       float64
	LargestWin    float64
	LargestLoss   float64

	ProfitFactor   float64
	SharpeRatio    float64
	SortinoRatio   float64
	MaxDrawdown    float64
	CalmarRatio    float64
	RecoveryFactor float64
	Expectancy     float64

	TotalFees           float64
	AvgTradeDurationHrs float64

	Trades      []Trade
	EquityCurve []float64
	Timestamps  []time.Time
}

func (e *Engine) results() *Results {
	r := &Results{
		InitialCapital: e.cfg.InitialCapital,
		FinalEquity:    e.equity,
		Trades:         e.trades,
		EquityCurve:    e.equityCur,
		Timestamps:     e.times,
	}

	r.TotalReturnPercent = (e.equity - e.cfg.InitialCapital) / e.cfg.InitialCapital * 100

	pnls := make([]float64, len(e.trades))
	durations := make([]time.Duration, len(e.trades))
	for i, t := range e.trades {
		pnls[i] = t.PnL
		durations[i] = t.ExitTime.Sub(t.EntryTime)
		r.TotalPnL += t.PnL
		r.TotalFees += t.TotalFees
		if t.PnL > 0 {
			r.WinningTrades++
		} else {
			r.LosingTrades++
		}
	}

	r.TotalTrades = len(e.trades)
	r.WinRate = metrics.WinRate(pnls)
	r.AvgWin = metrics.AvgWin(pnls)
	r.AvgLoss = metrics.AvgLoss(pnls)
	r.LargestWin = metrics.LargestWin(pnls)
	r.LargestLoss = metrics.LargestLoss(pnls)
	r.ProfitFactor = metrics.ProfitFactor(pnls)
	r.SharpeRatio = metrics.Sharpe(e.equityCur)
	r.SortinoRatio = metrics.Sortino(e.equityCur)
	r.MaxDrawdown = metrics.MaxDrawdown(e.equityCur)
	r.CalmarRatio = metrics.OverDrawdown(r.TotalReturnPercent, r.MaxDrawdown)
	r.RecoveryFactor = metrics.OverDrawdown(r.TotalPnL, r.MaxDrawdown)
	r.Expectancy = metrics.Expectancy(pnls)
	r.AvgTradeDurationHrs = metrics.AvgDurationHours(durations)

	return r
}

// Summary renders a human-readable performance report.
func (r *Results) Summary() string {
	var b strings.Builder
	line := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "%s\nBACKTEST PERFORMANCE SUMMARY\n%s\n\n", line, line)

	fmt.Fprintf(&b, "Capital & Returns:\n")
	fmt.Fprintf(&b, "  Initial Capital:    $%.2f\n", r.InitialCapital)
	fmt.Fprintf(&b, "  Final Equity:       $%.2f\n", r.FinalEquity)
	fmt.Fprintf(&b, "  Total Return:       %+.2f%%\n", r.TotalReturnPercent)
	fmt.Fprintf(&b, "  Total P&L:          $%+.2f\n\n", r.TotalPnL)

	fmt.Fprintf(&b, "Trade Statistics:\n")
	fmt.Fprintf(&b, "  Total Trades:       %d\n", r.TotalTrades)
	fmt.Fprintf(&b, "  Winning Trades:     %d (%.1f%%)\n", r.WinningTrades, r.WinRate)
	fmt.Fprintf(&b, "  Losing Trades:      %d\n", r.LosingTrades)
	fmt.Fprintf(&b, "  Average Win:        $%.2f\n", r.AvgWin)
	fmt.Fprintf(&b, "  Average Loss:       $%.2f\n", r.AvgLoss)
	fmt.Fprintf(&b, "  Largest Win:        $%.2f\n", r.LargestWin)
	fmt.Fprintf(&b, "  Largest Loss:       $%.2f\n\n", r.LargestLoss)

	fmt.Fprintf(&b, "Performance Metrics:\n")
	fmt.Fprintf(&b, "  Profit Factor:      %s\n", ratio(r.ProfitFactor))
	fmt.Fprintf(&b, "  Sharpe Ratio:       %.2f\n", r.SharpeRatio)
	fmt.Fprintf(&b, "  Sortino Ratio:      %s\n", ratio(r.SortinoRatio))
	fmt.Fprintf(&b, "  Max Drawdown:       %.2f%%\n", r.MaxDrawdown)
	fmt.Fprintf(&b, "  Calmar Ratio:       %s\n", ratio(r.CalmarRatio))
	fmt.Fprintf(&b, "  Recovery Factor:    %s\n\n", ratio(r.RecoveryFactor))

	fmt.Fprintf(&b, "Costs:\n")
	fmt.Fprintf(&b, "  Total Fees:         $%.2f\n", r.TotalFees)
	fmt.Fprintf(&b, "  Expectancy:         $%.2f per trade\n", r.Expectancy)

	if r.AvgTradeDurationHrs > 0 {
		fmt.Fprintf(&b, "\nAverage Trade Duration: %.1f hours\n", r.AvgTradeDurationHrs)
	}

	fmt.Fprintf(&b, "%s\n", line)
	return b.String()
}

func ratio(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}
