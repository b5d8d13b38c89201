package strategies

import (
	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/market"
)

// Noop never signals. Baseline for verifying engine bookkeeping.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) Prepare(bars *market.BarSeries) error { return nil }

func (Noop) Signal(i int) market.Signal { return market.Hold }

func (Noop) ShouldEnter(i int) bool { return false }

func (Noop) ShouldExit(i int, pos *backtest.Position) bool { return false }

func (Noop) ValidateSignal(i int) bool { return false }

func (Noop) EntryReason(i int) string { return "" }

func (Noop) ExitReason(i int) string { return "" }
