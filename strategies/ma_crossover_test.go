package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/backtester/market"
)

func seriesFromCloses(t *testing.T, closes ...float64) *market.BarSeries {
	t.Helper()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time:   t0.Add(time.Duration(i) * time.Hour),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}

	bs, err := market.NewBarSeries("TEST/USDT", bars)
	assert.NoError(t, err)
	return bs
}

func TestNewMACrossoverValidation(t *testing.T) {
	t.Parallel()

	_, err := NewMACrossover(MACrossoverConfig{FastPeriod: 0, SlowPeriod: 10})
	assert.Error(t, err)

	_, err = NewMACrossover(MACrossoverConfig{FastPeriod: 10, SlowPeriod: 10})
	assert.Error(t, err)

	_, err = NewMACrossover(MACrossoverConfig{FastPeriod: 30, SlowPeriod: 10})
	assert.Error(t, err)

	s, err := NewMACrossover(MACrossoverDefaults())
	assert.NoError(t, err)
	assert.Equal(t, "ma-crossover", s.Name())
}

func TestMACrossoverSignals(t *testing.T) {
	t.Parallel()

	s, err := NewMACrossover(MACrossoverConfig{FastPeriod: 2, SlowPeriod: 3})
	assert.NoError(t, err)

	// Downtrend, sharp reversal up, then a collapse back down.
	bars := seriesFromCloses(t, 10, 9, 8, 7, 10, 14, 8, 7)
	assert.NoError(t, s.Prepare(bars))

	// Fast SMA crosses above slow on the reversal bar.
	assert.Equal(t, market.Buy, s.Signal(4))
	assert.True(t, s.ShouldEnter(4))

	// Holds while fast stays above.
	assert.Equal(t, market.Hold, s.Signal(5))
	assert.False(t, s.ShouldEnter(5))

	// Crosses back below on the collapse.
	assert.Equal(t, market.Sell, s.Signal(7))
	assert.True(t, s.ShouldExit(7, nil))
}

func TestMACrossoverValidateSignalWarmup(t *testing.T) {
	t.Parallel()

	s, err := NewMACrossover(MACrossoverConfig{FastPeriod: 2, SlowPeriod: 3})
	assert.NoError(t, err)

	bars := seriesFromCloses(t, 10, 9, 8, 7, 10, 14)
	assert.NoError(t, s.Prepare(bars))

	assert.False(t, s.ValidateSignal(0))
	assert.False(t, s.ValidateSignal(1))
	assert.True(t, s.ValidateSignal(2))
}

func TestMACrossoverValidateSignalWaitsForFilters(t *testing.T) {
	t.Parallel()

	cfg := MACrossoverConfig{
		FastPeriod:    2,
		SlowPeriod:    3,
		UseRSIFilter:  true,
		RSIPeriod:     5,
		RSIOverbought: 70,
		RSIOversold:   30,
	}
	s, err := NewMACrossover(cfg)
	assert.NoError(t, err)

	bars := seriesFromCloses(t, 10, 9, 8, 7, 10, 14, 13, 12)
	assert.NoError(t, s.Prepare(bars))

	// Both MAs are ready at bar 2 but the RSI needs 5 diffs.
	assert.False(t, s.ValidateSignal(2))
	assert.False(t, s.ValidateSignal(4))
	assert.True(t, s.ValidateSignal(5))
}

func TestMACrossoverRSIFilterVetoesBuy(t *testing.T) {
	t.Parallel()

	cfg := MACrossoverConfig{
		FastPeriod:    2,
		SlowPeriod:    3,
		UseRSIFilter:  true,
		RSIPeriod:     2,
		RSIOverbought: 70,
		RSIOversold:   30,
	}
	s, err := NewMACrossover(cfg)
	assert.NoError(t, err)

	// The reversal bar that produces the buy cross also pushes the RSI to
	// 75, above the overbought cutoff.
	bars := seriesFromCloses(t, 10, 9, 8, 7, 10, 14)
	assert.NoError(t, s.Prepare(bars))

	assert.Equal(t, market.Hold, s.Signal(4))
	assert.False(t, s.ShouldEnter(4))
}

func TestMACrossoverFilterNeverCreatesSignals(t *testing.T) {
	t.Parallel()

	cfg := MACrossoverConfig{
		FastPeriod:    2,
		SlowPeriod:    3,
		UseRSIFilter:  true,
		RSIPeriod:     2,
		RSIOverbought: 70,
		RSIOversold:   30,
	}
	filtered, err := NewMACrossover(cfg)
	assert.NoError(t, err)

	plain, err := NewMACrossover(MACrossoverConfig{FastPeriod: 2, SlowPeriod: 3})
	assert.NoError(t, err)

	bars := seriesFromCloses(t, 10, 9, 8, 7, 10, 14, 8, 7, 9, 12)
	assert.NoError(t, filtered.Prepare(bars))
	assert.NoError(t, plain.Prepare(bars))

	for i := 0; i < bars.Len(); i++ {
		if plain.Signal(i) == market.Hold {
			assert.Equal(t, market.Hold, filtered.Signal(i), "bar %d", i)
		}
	}
}

func TestMACrossoverReasons(t *testing.T) {
	t.Parallel()

	s, err := NewMACrossover(MACrossoverConfig{FastPeriod: 2, SlowPeriod: 3})
	assert.NoError(t, err)

	bars := seriesFromCloses(t, 10, 9, 8, 7, 10, 14)
	assert.NoError(t, s.Prepare(bars))

	assert.Contains(t, s.EntryReason(4), "crossed above")
	assert.Contains(t, s.ExitReason(4), "crossed below")
}

func TestNoop(t *testing.T) {
	t.Parallel()

	var s Noop
	bars := seriesFromCloses(t, 10, 11, 12)

	assert.Equal(t, "noop", s.Name())
	assert.NoError(t, s.Prepare(bars))
	for i := 0; i < bars.Len(); i++ {
		assert.Equal(t, market.Hold, s.Signal(i))
		assert.False(t, s.ShouldEnter(i))
		assert.False(t, s.ShouldExit(i, nil))
		assert.False(t, s.ValidateSignal(i))
	}
}

func TestByName(t *testing.T) {
	t.Parallel()

	s, err := ByName("noop", MACrossoverDefaults())
	assert.NoError(t, err)
	assert.Equal(t, "noop", s.Name())

	s, err = ByName("MA-Crossover", MACrossoverDefaults())
	assert.NoError(t, err)
	assert.Equal(t, "ma-crossover", s.Name())

	_, err = ByName("momentum", MACrossoverDefaults())
	assert.Error(t, err)
}
