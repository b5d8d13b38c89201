package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/backtester/market"
)

func newTestManager(t *testing.T, params Params, capital float64) *Manager {
	t.Helper()
	return NewManager(params, capital, nil)
}

func TestStopLossLong(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, DefaultParams(), 10000)

	assert.InDelta(t, 98.0, m.StopLoss(100, market.Long), 1e-9)
	assert.InDelta(t, 102.0, m.StopLoss(100, market.Short), 1e-9)
}

func TestTakeProfit(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, DefaultParams(), 10000)

	assert.InDelta(t, 104.0, m.TakeProfit(100, market.Long), 1e-9)
	assert.InDelta(t, 96.0, m.TakeProfit(100, market.Short), 1e-9)
}

func TestTrailingStopRatchetsUpOnly(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, DefaultParams(), 10000)

	stop := 98.0

	// Price rises: stop follows at 1.5% below.
	stop = m.UpdateTrailingStop(110, stop, market.Long)
	assert.InDelta(t, 110*0.985, stop, 1e-9)

	// Price falls back: stop must not move down.
	prev := stop
	stop = m.UpdateTrailingStop(100, stop, market.Long)
	assert.Equal(t, prev, stop)
}

func TestTrailingStopShortRatchetsDownOnly(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, DefaultParams(), 10000)

	stop := 102.0

	stop = m.UpdateTrailingStop(90, stop, market.Short)
	assert.InDelta(t, 90*1.015, stop, 1e-9)

	prev := stop
	stop = m.UpdateTrailingStop(100, stop, market.Short)
	assert.Equal(t, prev, stop)
}

func TestTrailingStopDisabled(t *testing.T) {
	t.Parallel()

	params := DefaultParams()
	params.UseTrailingStop = false
	m := newTestManager(t, params, 10000)

	assert.Equal(t, 98.0, m.UpdateTrailingStop(200, 98.0, market.Long))
}

func TestShouldCloseStopAndTarget(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, DefaultParams(), 10000)

	hit, reason := m.ShouldClose(97.9, 98, 104, market.Long)
	assert.True(t, hit)
	assert.Equal(t, ExitStopLoss, reason)

	hit, reason = m.ShouldClose(104.1, 98, 104, market.Long)
	assert.True(t, hit)
	assert.Equal(t, ExitTakeProfit, reason)

	hit, _ = m.ShouldClose(100, 98, 104, market.Long)
	assert.False(t, hit)
}

func TestShouldCloseStopWinsTieBreak(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, DefaultParams(), 10000)

	// Degenerate bar where both thresholds fire at once.
	hit, reason := m.ShouldClose(100, 100, 100, market.Long)
	assert.True(t, hit)
	assert.Equal(t, ExitStopLoss, reason)
}

func TestShouldCloseShort(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, DefaultParams(), 10000)

	hit, reason := m.ShouldClose(102.5, 102, 96, market.Short)
	assert.True(t, hit)
	assert.Equal(t, ExitStopLoss, reason)

	hit, reason = m.ShouldClose(95.5, 102, 96, market.Short)
	assert.True(t, hit)
	assert.Equal(t, ExitTakeProfit, reason)
}

func TestCanOpenMaxConcurrentPositions(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, DefaultParams(), 10000)

	ok, _ := m.CanOpen(2, 10000, 500)
	assert.True(t, ok)

	ok, reason := m.CanOpen(3, 10000, 500)
	assert.False(t, ok)
	assert.Contains(t, reason, "max concurrent positions")
}

func TestCanOpenDailyLossLimit(t *testing.T) {
	t.Parallel()

	// 5% of 10000 capital = 500 allowed daily loss.
	m := newTestManager(t, DefaultParams(), 10000)
	day := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	m.UpdateDailyPnL(day, -400)
	ok, _ := m.CanOpen(0, 10000, 500)
	assert.True(t, ok)

	m.UpdateDailyPnL(day.Add(time.Hour), -200)
	assert.InDelta(t, -600.0, m.DailyPnL(), 1e-9)

	ok, reason := m.CanOpen(0, 10000, 500)
	assert.False(t, ok)
	assert.Contains(t, reason, "daily loss limit")
}

func TestDailyPnLResetsOnNewDay(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, DefaultParams(), 10000)

	day1 := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC)

	m.UpdateDailyPnL(day1, -600)
	ok, _ := m.CanOpen(0, 10000, 500)
	assert.False(t, ok)

	m.UpdateDailyPnL(day2, -100)
	assert.InDelta(t, -100.0, m.DailyPnL(), 1e-9)

	ok, _ = m.CanOpen(0, 10000, 500)
	assert.True(t, ok)
}

func TestCanOpenInsufficientBalance(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, DefaultParams(), 10000)

	ok, reason := m.CanOpen(0, 100, 500)
	assert.False(t, ok)
	assert.Equal(t, "insufficient balance", reason)
}

func TestCircuitBreakerTripAndReset(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, DefaultParams(), 10000)

	assert.False(t, m.CheckCircuitBreaker(5))
	assert.False(t, m.CircuitBreakerActive())

	assert.True(t, m.CheckCircuitBreaker(-12))
	assert.True(t, m.CircuitBreakerActive())

	ok, reason := m.CanOpen(0, 10000, 500)
	assert.False(t, ok)
	assert.Equal(t, "circuit breaker active", reason)

	// No automatic reset: a calm bar leaves the breaker tripped.
	assert.False(t, m.CheckCircuitBreaker(1))
	assert.True(t, m.CircuitBreakerActive())

	m.ResetCircuitBreaker()
	assert.False(t, m.CircuitBreakerActive())

	ok, _ = m.CanOpen(0, 10000, 500)
	assert.True(t, ok)
}

func TestCircuitBreakerDisabled(t *testing.T) {
	t.Parallel()

	params := DefaultParams()
	params.CircuitBreakerEnabled = false
	m := newTestManager(t, params, 10000)

	assert.False(t, m.CheckCircuitBreaker(50))
	assert.False(t, m.CircuitBreakerActive())
}
