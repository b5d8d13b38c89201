package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func hourlyBars(n int, startClose float64) []Bar {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]Bar, n)
	for i := range bars {
		c := startClose + float64(i)
		bars[i] = Bar{
			Time:   t0.Add(time.Duration(i) * time.Hour),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestNewBarSeriesValid(t *testing.T) {
	t.Parallel()

	bs, err := NewBarSeries("BTC/USDT", hourlyBars(5, 100))
	assert.NoError(t, err)
	assert.Equal(t, 5, bs.Len())
	assert.Equal(t, 100.0, bs.At(0).Close)
}

func TestNewBarSeriesEmpty(t *testing.T) {
	t.Parallel()

	_, err := NewBarSeries("BTC/USDT", nil)
	assert.Error(t, err)
}

func TestNewBarSeriesUnsorted(t *testing.T) {
	t.Parallel()

	bars := hourlyBars(3, 100)
	bars[1].Time, bars[2].Time = bars[2].Time, bars[1].Time

	_, err := NewBarSeries("BTC/USDT", bars)
	assert.Error(t, err)
}

func TestNewBarSeriesDuplicateTimestamp(t *testing.T) {
	t.Parallel()

	bars := hourlyBars(3, 100)
	bars[2].Time = bars[1].Time

	_, err := NewBarSeries("BTC/USDT", bars)
	assert.Error(t, err)
}

func TestClosesIsACopy(t *testing.T) {
	t.Parallel()

	bs, err := NewBarSeries("BTC/USDT", hourlyBars(3, 100))
	assert.NoError(t, err)

	closes := bs.Closes()
	assert.Equal(t, []float64{100, 101, 102}, closes)

	closes[0] = -1
	assert.Equal(t, 100.0, bs.At(0).Close)
}

func TestHighsLows(t *testing.T) {
	t.Parallel()

	bs, err := NewBarSeries("BTC/USDT", hourlyBars(2, 100))
	assert.NoError(t, err)

	assert.Equal(t, []float64{101, 102}, bs.Highs())
	assert.Equal(t, []float64{99, 100}, bs.Lows())
}

func TestSideString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "buy", Long.String())
	assert.Equal(t, "sell", Short.String())
}

func TestSignalString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "buy", Buy.String())
	assert.Equal(t, "sell", Sell.String())
	assert.Equal(t, "hold", Hold.String())
}
