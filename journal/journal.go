// Package journal persists simulation output: closed trades, per-bar
// equity snapshots, and run summaries. The engine writes through the
// Journal interface and never reads back; queries are a reporting concern.
package journal

import (
	"time"
)

// TradeRecord is one closed trade as persisted. TradeID and RunID are
// stamped by the sink so the simulation core stays deterministic.
type TradeRecord struct {
	TradeID     string
	RunID       string
	Symbol      string
	EntryPrice  float64
	ExitPrice   float64
	Quantity    float64
	EntryTime   time.Time
	ExitTime    time.Time
	PnL         float64
	PnLPercent  float64
	Fees        float64
	ExitReason  string
	EntryReason string
}

// EquitySnapshot is one equity-curve point.
type EquitySnapshot struct {
	RunID   string
	Time    time.Time
	Balance float64
	Equity  float64
}

// RunRecord summarises one completed backtest run.
type RunRecord struct {
	RunID          string
	Symbol         string
	Strategy       string
	Start          time.Time
	End            time.Time
	InitialCapital float64
	FinalEquity    float64
	TotalReturnPct float64
	TotalTrades    int
	WinRate        float64
	MaxDrawdown    float64
	CreatedAt      time.Time
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything. Used when the caller wants no persistence.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
