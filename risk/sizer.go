package risk

import (
	"fmt"
	"math"
)

// SizingMethod selects how entry notional is computed.
type SizingMethod string

const (
	SizeFixed      SizingMethod = "fixed"
	SizeVolatility SizingMethod = "volatility"
)

// ParseSizingMethod validates a config string. Unknown methods are a
// configuration error, not a silent fallback.
func ParseSizingMethod(s string) (SizingMethod, error) {
	switch SizingMethod(s) {
	case SizeFixed, SizeVolatility:
		return SizingMethod(s), nil
	default:
		return "", fmt.Errorf("unknown position sizing method %q (supported: fixed, volatility)", s)
	}
}

// MinNotional is the smallest position notional worth opening.
const MinNotional = 10.0

// Sizer converts account balance and risk parameters into a position
// notional in quote currency.
type Sizer struct {
	method         SizingMethod
	riskPercent    float64 // whole percent of balance per trade
	maxPositionPct float64
}

func NewSizer(method SizingMethod, riskPercent, maxPositionPercent float64) *Sizer {
	return &Sizer{
		method:         method,
		riskPercent:    riskPercent,
		maxPositionPct: maxPositionPercent,
	}
}

// Size computes the notional for an entry at entryPrice with stopPrice as
// the planned stop. stopPrice <= 0 means no stop is known yet.
func (s *Sizer) Size(balance, entryPrice, stopPrice float64) (float64, error) {
	if balance <= 0 || entryPrice <= 0 {
		return 0, nil
	}

	switch s.method {
	case SizeFixed:
		return s.fixed(balance), nil
	case SizeVolatility:
		return s.volatilityBased(balance, entryPrice, stopPrice), nil
	default:
		return 0, fmt.Errorf("unknown position sizing method %q", s.method)
	}
}

func (s *Sizer) fixed(balance float64) float64 {
	return balance * s.riskPercent / 100
}

// volatilityBased sizes by risk amount over per-unit stop distance,
// falling back to fixed sizing when no usable stop exists.
func (s *Sizer) volatilityBased(balance, entryPrice, stopPrice float64) float64 {
	if stopPrice <= 0 {
		return s.fixed(balance)
	}

	perUnit := math.Abs(entryPrice - stopPrice)
	if perUnit == 0 {
		return s.fixed(balance)
	}

	riskAmount := balance * s.riskPercent / 100
	return riskAmount / perUnit
}

// Validate rejects sizes that are non-positive, above the per-position
// balance cap, or below the minimum notional. Returns the failing reason.
func (s *Sizer) Validate(size, balance float64) (bool, string) {
	if size <= 0 {
		return false, fmt.Sprintf("position size must be positive: %.2f", size)
	}

	maxSize := balance * s.maxPositionPct / 100
	if size > maxSize {
		return false, fmt.Sprintf("position size %.2f exceeds maximum %.2f", size, maxSize)
	}

	if size < MinNotional {
		return false, fmt.Sprintf("position size %.2f below minimum notional %.2f", size, MinNotional)
	}

	return true, "ok"
}
