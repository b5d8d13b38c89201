package market

import (
	"fmt"
	"time"
)

// Side: +1 long, -1 short
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	switch s {
	case Long:
		return "buy"
	case Short:
		return "sell"
	default:
		return fmt.Sprintf("Side(%d)", int8(s))
	}
}

// Signal is the per-bar strategy output.
type Signal int8

const (
	Sell Signal = -1
	Hold Signal = 0
	Buy  Signal = +1
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case Hold:
		return "hold"
	default:
		return fmt.Sprintf("Signal(%d)", int8(s))
	}
}

// Bar is one OHLCV sample for a fixed interval. Immutable once loaded.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// BarSeries is an ordered bar sequence, ascending by timestamp.
type BarSeries struct {
	Symbol string
	Bars   []Bar
}

func NewBarSeries(symbol string, bars []Bar) (*BarSeries, error) {
	bs := &BarSeries{Symbol: symbol, Bars: bars}
	if err := bs.Validate(); err != nil {
		return nil, err
	}
	return bs, nil
}

func (bs *BarSeries) Len() int { return len(bs.Bars) }

func (bs *BarSeries) At(i int) Bar { return bs.Bars[i] }

// Closes returns the close column. The slice is freshly allocated so
// indicator code can't mutate the bars.
func (bs *BarSeries) Closes() []float64 {
	out := make([]float64, len(bs.Bars))
	for i, b := range bs.Bars {
		out[i] = b.Close
	}
	return out
}

func (bs *BarSeries) Highs() []float64 {
	out := make([]float64, len(bs.Bars))
	for i, b := range bs.Bars {
		out[i] = b.High
	}
	return out
}

func (bs *BarSeries) Lows() []float64 {
	out := make([]float64, len(bs.Bars))
	for i, b := range bs.Bars {
		out[i] = b.Low
	}
	return out
}

// Validate checks the series is non-empty and strictly ascending in time.
func (bs *BarSeries) Validate() error {
	if len(bs.Bars) == 0 {
		return fmt.Errorf("bar series %q is empty", bs.Symbol)
	}
	for i := 1; i < len(bs.Bars); i++ {
		if !bs.Bars[i].Time.After(bs.Bars[i-1].Time) {
			return fmt.Errorf("bar series %q not sorted ascending at index %d (%s !> %s)",
				bs.Symbol, i, bs.Bars[i].Time.Format(time.RFC3339), bs.Bars[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}
