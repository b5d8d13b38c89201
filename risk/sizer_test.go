package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSizingMethod(t *testing.T) {
	t.Parallel()

	m, err := ParseSizingMethod("fixed")
	assert.NoError(t, err)
	assert.Equal(t, SizeFixed, m)

	m, err = ParseSizingMethod("volatility")
	assert.NoError(t, err)
	assert.Equal(t, SizeVolatility, m)

	_, err = ParseSizingMethod("kelly")
	assert.Error(t, err)
}

func TestSizeFixed(t *testing.T) {
	t.Parallel()

	s := NewSizer(SizeFixed, 10, 10)

	size, err := s.Size(10000, 100, 98)
	assert.NoError(t, err)
	assert.InDelta(t, 1000.0, size, 1e-9)
}

func TestSizeVolatility(t *testing.T) {
	t.Parallel()

	s := NewSizer(SizeVolatility, 10, 10)

	// Risk amount 1000 over a 2.0 per-unit stop distance.
	size, err := s.Size(10000, 100, 98)
	assert.NoError(t, err)
	assert.InDelta(t, 500.0, size, 1e-9)
}

func TestSizeVolatilityFallsBackWithoutStop(t *testing.T) {
	t.Parallel()

	s := NewSizer(SizeVolatility, 10, 10)

	size, err := s.Size(10000, 100, 0)
	assert.NoError(t, err)
	assert.InDelta(t, 1000.0, size, 1e-9)

	// Zero stop distance is equally unusable.
	size, err = s.Size(10000, 100, 100)
	assert.NoError(t, err)
	assert.InDelta(t, 1000.0, size, 1e-9)
}

func TestSizeUnknownMethod(t *testing.T) {
	t.Parallel()

	s := NewSizer(SizingMethod("kelly"), 10, 10)

	_, err := s.Size(10000, 100, 98)
	assert.Error(t, err)
}

func TestSizeDegenerateInputs(t *testing.T) {
	t.Parallel()

	s := NewSizer(SizeFixed, 10, 10)

	size, err := s.Size(0, 100, 98)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, size)

	size, err = s.Size(10000, 0, 98)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, size)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	s := NewSizer(SizeFixed, 10, 10)

	ok, _ := s.Validate(500, 10000)
	assert.True(t, ok)

	ok, reason := s.Validate(0, 10000)
	assert.False(t, ok)
	assert.Contains(t, reason, "positive")

	// Cap is 10% of balance.
	ok, reason = s.Validate(1500, 10000)
	assert.False(t, ok)
	assert.Contains(t, reason, "maximum")

	ok, reason = s.Validate(5, 10000)
	assert.False(t, ok)
	assert.Contains(t, reason, "minimum notional")
}
