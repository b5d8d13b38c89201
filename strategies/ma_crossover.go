package strategies

import (
	"fmt"
	"math"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/indicators"
	"github.com/rustyeddy/backtester/market"
)

// MACrossover trades a fast/slow SMA crossover with optional veto-only
// filters. A filter may demote an active signal to hold; it never turns a
// hold into a signal.
//   - RSI: overbought vetoes buys, oversold vetoes sells
//   - MACD: bearish (line <= signal) vetoes buys, bullish vetoes sells
//   - Bollinger: close above the upper band vetoes buys, below the lower
//     band vetoes sells
type MACrossover struct {
	MACrossoverConfig

	fastMA  []float64
	slowMA  []float64
	rsi     []float64
	macd    []float64
	macdSig []float64
	bbUpper []float64
	bbLower []float64
	signals []market.Signal
}

type MACrossoverConfig struct {
	FastPeriod int `json:"fast_period" yaml:"fast_period"`
	SlowPeriod int `json:"slow_period" yaml:"slow_period"`

	UseRSIFilter  bool    `json:"use_rsi_filter" yaml:"use_rsi_filter"`
	RSIPeriod     int     `json:"rsi_period" yaml:"rsi_period"`
	RSIOverbought float64 `json:"rsi_overbought" yaml:"rsi_overbought"`
	RSIOversold   float64 `json:"rsi_oversold" yaml:"rsi_oversold"`

	UseMACDFilter bool `json:"use_macd_filter" yaml:"use_macd_filter"`
	MACDFast      int  `json:"macd_fast" yaml:"macd_fast"`
	MACDSlow      int  `json:"macd_slow" yaml:"macd_slow"`
	MACDSignal    int  `json:"macd_signal" yaml:"macd_signal"`

	UseBBFilter bool    `json:"use_bb_filter" yaml:"use_bb_filter"`
	BBPeriod    int     `json:"bb_period" yaml:"bb_period"`
	BBStd       float64 `json:"bb_std" yaml:"bb_std"`
}

func MACrossoverDefaults() MACrossoverConfig {
	return MACrossoverConfig{
		FastPeriod:    10,
		SlowPeriod:    30,
		RSIPeriod:     14,
		RSIOverbought: 70,
		RSIOversold:   30,
		MACDFast:      12,
		MACDSlow:      26,
		MACDSignal:    9,
		BBPeriod:      20,
		BBStd:         2.0,
	}
}

func NewMACrossover(cfg MACrossoverConfig) (*MACrossover, error) {
	if cfg.FastPeriod <= 0 || cfg.SlowPeriod <= 0 {
		return nil, fmt.Errorf("ma-crossover: periods must be positive (fast=%d slow=%d)", cfg.FastPeriod, cfg.SlowPeriod)
	}
	if cfg.FastPeriod >= cfg.SlowPeriod {
		return nil, fmt.Errorf("ma-crossover: fast period %d must be below slow period %d", cfg.FastPeriod, cfg.SlowPeriod)
	}
	return &MACrossover{MACrossoverConfig: cfg}, nil
}

func (s *MACrossover) Name() string { return "ma-crossover" }

// Prepare computes the indicator columns and the per-bar signal column in
// one pass over the series.
func (s *MACrossover) Prepare(bars *market.BarSeries) error {
	closes := bars.Closes()

	s.fastMA = indicators.SMA(closes, s.FastPeriod)
	s.slowMA = indicators.SMA(closes, s.SlowPeriod)

	if s.UseRSIFilter {
		s.rsi = indicators.RSI(closes, s.RSIPeriod)
	}
	if s.UseMACDFilter {
		s.macd, s.macdSig, _ = indicators.MACD(closes, s.MACDFast, s.MACDSlow, s.MACDSignal)
	}
	if s.UseBBFilter {
		s.bbUpper, _, s.bbLower = indicators.Bollinger(closes, s.BBPeriod, s.BBStd)
	}

	cross := indicators.Crossover(s.fastMA, s.slowMA)

	s.signals = make([]market.Signal, len(closes))
	for i := range closes {
		sig := market.Signal(cross[i])
		s.signals[i] = s.applyFilters(i, closes[i], sig)
	}
	return nil
}

func (s *MACrossover) applyFilters(i int, close float64, sig market.Signal) market.Signal {
	if sig == market.Hold {
		return sig
	}

	if s.UseRSIFilter {
		if sig == market.Buy && s.rsi[i] > s.RSIOverbought {
			return market.Hold
		}
		if sig == market.Sell && s.rsi[i] < s.RSIOversold {
			return market.Hold
		}
	}

	if s.UseMACDFilter {
		if sig == market.Buy && s.macd[i] <= s.macdSig[i] {
			return market.Hold
		}
		if sig == market.Sell && s.macd[i] >= s.macdSig[i] {
			return market.Hold
		}
	}

	if s.UseBBFilter {
		if sig == market.Buy && close > s.bbUpper[i] {
			return market.Hold
		}
		if sig == market.Sell && close < s.bbLower[i] {
			return market.Hold
		}
	}

	return sig
}

func (s *MACrossover) Signal(i int) market.Signal { return s.signals[i] }

func (s *MACrossover) ShouldEnter(i int) bool { return s.signals[i] == market.Buy }

func (s *MACrossover) ShouldExit(i int, pos *backtest.Position) bool {
	return s.signals[i] == market.Sell
}

// ValidateSignal is false while any enabled indicator is inside its
// warm-up window at bar i.
func (s *MACrossover) ValidateSignal(i int) bool {
	if math.IsNaN(s.fastMA[i]) || math.IsNaN(s.slowMA[i]) {
		return false
	}
	if s.UseRSIFilter && math.IsNaN(s.rsi[i]) {
		return false
	}
	if s.UseMACDFilter && (math.IsNaN(s.macd[i]) || math.IsNaN(s.macdSig[i])) {
		return false
	}
	if s.UseBBFilter && (math.IsNaN(s.bbUpper[i]) || math.IsNaN(s.bbLower[i])) {
		return false
	}
	return true
}

func (s *MACrossover) EntryReason(i int) string {
	reason := fmt.Sprintf("fast MA (%d) crossed above slow MA (%d)", s.FastPeriod, s.SlowPeriod)
	if s.UseRSIFilter && !math.IsNaN(s.rsi[i]) {
		reason += fmt.Sprintf(", RSI=%.1f", s.rsi[i])
	}
	if s.UseMACDFilter {
		reason += ", MACD bullish"
	}
	if s.UseBBFilter {
		reason += ", price within bands"
	}
	return reason
}

func (s *MACrossover) ExitReason(i int) string {
	reason := fmt.Sprintf("fast MA (%d) crossed below slow MA (%d)", s.FastPeriod, s.SlowPeriod)
	if s.UseRSIFilter && !math.IsNaN(s.rsi[i]) {
		reason += fmt.Sprintf(", RSI=%.1f", s.rsi[i])
	}
	if s.UseMACDFilter {
		reason += ", MACD bearish"
	}
	return reason
}
