// Package risk implements stop/target math, portfolio-level risk gates,
// and position sizing for the simulation engine.
package risk

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/backtester/market"
)

// ExitReason records why a position was closed.
type ExitReason string

const (
	ExitSignal     ExitReason = "signal"
	ExitStopLoss   ExitReason = "stop_loss"
	ExitTakeProfit ExitReason = "take_profit"
	ExitForced     ExitReason = "forced_close"
)

// Params is an immutable risk configuration. Percent fields are whole
// percentages (2.0 means 2%), matching the config file.
type Params struct {
	StopLossPercent         float64
	TakeProfitPercent       float64
	TrailingStopPercent     float64
	UseTrailingStop         bool
	MaxConcurrentPositions  int
	MaxPositionSizePercent  float64
	DailyLossLimitPercent   float64
	CircuitBreakerEnabled   bool
	CircuitBreakerThreshold float64
}

// DefaultParams mirrors the config defaults.
func DefaultParams() Params {
	return Params{
		StopLossPercent:         2.0,
		TakeProfitPercent:       4.0,
		TrailingStopPercent:     1.5,
		UseTrailingStop:         true,
		MaxConcurrentPositions:  3,
		MaxPositionSizePercent:  10,
		DailyLossLimitPercent:   5.0,
		CircuitBreakerEnabled:   true,
		CircuitBreakerThreshold: 10,
	}
}

// Manager enforces risk rules across a run. It is stateful: it tracks
// realized PnL per calendar day and a manual-reset circuit breaker.
// A single engine owns and drives one Manager; it is not safe for
// concurrent use.
type Manager struct {
	params  Params
	capital float64

	dailyPnL      float64
	dailyPnLDate  time.Time // UTC midnight of the day being tracked
	breakerActive bool

	log *slog.Logger
}

func NewManager(params Params, initialCapital float64, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{params: params, capital: initialCapital, log: log}
}

// StopLoss returns the initial stop price for an entry: below entry for a
// long, above for a short.
func (m *Manager) StopLoss(entry float64, side market.Side) float64 {
	pct := m.params.StopLossPercent / 100
	if side == market.Long {
		return entry * (1 - pct)
	}
	return entry * (1 + pct)
}

// TakeProfit returns the target price for an entry.
func (m *Manager) TakeProfit(entry float64, side market.Side) float64 {
	pct := m.params.TakeProfitPercent / 100
	if side == market.Long {
		return entry * (1 + pct)
	}
	return entry * (1 - pct)
}

// UpdateTrailingStop ratchets the stop toward the current price. The stop
// never moves against the position: max(current, candidate) for a long,
// min for a short. Returns currentStop unchanged when trailing is off.
func (m *Manager) UpdateTrailingStop(currentPrice, currentStop float64, side market.Side) float64 {
	if !m.params.UseTrailingStop {
		return currentStop
	}

	pct := m.params.TrailingStopPercent / 100
	if side == market.Long {
		candidate := currentPrice * (1 - pct)
		if candidate > currentStop {
			return candidate
		}
		return currentStop
	}

	candidate := currentPrice * (1 + pct)
	if candidate < currentStop {
		return candidate
	}
	return currentStop
}

// ShouldClose decides whether price has hit the stop or the target.
// Stop-loss wins the tie-break if both thresholds would fire on one bar.
func (m *Manager) ShouldClose(currentPrice, stopLoss, takeProfit float64, side market.Side) (bool, ExitReason) {
	if side == market.Long {
		if currentPrice <= stopLoss {
			return true, ExitStopLoss
		}
		if currentPrice >= takeProfit {
			return true, ExitTakeProfit
		}
		return false, ""
	}

	if currentPrice >= stopLoss {
		return true, ExitStopLoss
	}
	if currentPrice <= takeProfit {
		return true, ExitTakeProfit
	}
	return false, ""
}

// CanOpen checks the portfolio-level gates for a proposed entry and
// returns the first failing reason.
func (m *Manager) CanOpen(openPositions int, balance, proposedSize float64) (bool, string) {
	if openPositions >= m.params.MaxConcurrentPositions {
		return false, fmt.Sprintf("max concurrent positions reached (%d)", openPositions)
	}
	if m.dailyLossLimitExceeded() {
		return false, fmt.Sprintf("daily loss limit exceeded (%.2f)", m.dailyPnL)
	}
	if m.breakerActive {
		return false, "circuit breaker active"
	}
	if proposedSize > balance {
		return false, "insufficient balance"
	}
	return true, "ok"
}

// UpdateDailyPnL accumulates realized pnl under the bar's UTC calendar
// date. Bar time, not wall clock, so replays stay deterministic.
func (m *Manager) UpdateDailyPnL(barTime time.Time, pnl float64) {
	day := barTime.UTC().Truncate(24 * time.Hour)
	if !day.Equal(m.dailyPnLDate) {
		m.dailyPnL = 0
		m.dailyPnLDate = day
	}
	m.dailyPnL += pnl
}

// DailyPnL returns realized pnl accumulated for the current tracked day.
func (m *Manager) DailyPnL() float64 { return m.dailyPnL }

func (m *Manager) dailyLossLimitExceeded() bool {
	limit := m.params.DailyLossLimitPercent / 100 * m.capital
	if limit < 0 {
		limit = -limit
	}
	return m.dailyPnL < -limit
}

// CheckCircuitBreaker trips the breaker on an excessive single-bar move.
// The breaker has no automatic reset; call ResetCircuitBreaker to clear.
func (m *Manager) CheckCircuitBreaker(priceChangePercent float64) bool {
	if !m.params.CircuitBreakerEnabled {
		return false
	}

	change := priceChangePercent
	if change < 0 {
		change = -change
	}
	if change > m.params.CircuitBreakerThreshold {
		if !m.breakerActive {
			m.log.Warn("circuit breaker triggered", "price_change_percent", priceChangePercent)
		}
		m.breakerActive = true
		return true
	}
	return false
}

func (m *Manager) CircuitBreakerActive() bool { return m.breakerActive }

func (m *Manager) ResetCircuitBreaker() {
	m.breakerActive = false
	m.log.Info("circuit breaker reset")
}
