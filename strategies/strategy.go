// Package strategies holds the concrete signal-producing strategies that
// plug into the backtest engine.
package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/backtester/backtest"
)

// ByName builds a strategy from its configuration name.
func ByName(name string, cfg MACrossoverConfig) (backtest.Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "ma-crossover", "ma_crossover", "macrossover":
		return NewMACrossover(cfg)

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, ma-crossover)", name)
	}
}
