package backtest

import (
	"time"

	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/risk"
)

// Position is an open position. The engine is its sole owner and mutates
// it every bar while open; closing it produces exactly one Trade.
type Position struct {
	Symbol       string
	Side         market.Side
	EntryPrice   float64
	Quantity     float64
	StopLoss     float64
	TakeProfit   float64
	HighestPrice float64
	EntryTime    time.Time
	EntryFees    float64
	EntryReason  string
}

// Trade is a closed, immutable ledger entry.
//
// Invariant (long side): PnL == (ExitPrice-EntryPrice)*Quantity - TotalFees.
type Trade struct {
	Symbol      string
	EntryPrice  float64
	ExitPrice   float64
	Quantity    float64
	EntryTime   time.Time
	ExitTime    time.Time
	PnL         float64
	PnLPercent  float64
	TotalFees   float64
	ExitReason  risk.ExitReason
	EntryReason string
}

// Strategy maps a prepared bar series to per-bar signals. Prepare is
// called once per run before the bar loop; the per-bar methods look up
// precomputed columns by bar index.
type Strategy interface {
	Name() string

	// Prepare computes indicator columns and signals for the whole series.
	Prepare(bars *market.BarSeries) error

	// Signal returns the discrete signal for bar i.
	Signal(i int) market.Signal

	// ShouldEnter reports whether a long entry is signalled at bar i.
	ShouldEnter(i int) bool

	// ShouldExit reports whether the open position should be closed on a
	// strategy signal at bar i.
	ShouldExit(i int, pos *Position) bool

	// ValidateSignal is false while any required indicator is still in its
	// warm-up window at bar i.
	ValidateSignal(i int) bool

	// EntryReason and ExitReason are human-readable audit strings for the
	// signal at bar i.
	EntryReason(i int) string
	ExitReason(i int) string
}
