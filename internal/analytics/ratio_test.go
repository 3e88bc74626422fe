package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafePercent_ZeroDenominatorIsAbsent(t *testing.T) {
	for _, numerator := range []float64{-50, -1, 0, 1, 3.14, 1e12} {
		assert.Nil(t, SafePercent(numerator, 0, 2))
	}
}

func TestSafePercent_Scales(t *testing.T) {
	got := SafePercent(80, 225, 2)
	require.NotNil(t, got)
	assert.Equal(t, 35.56, *got)

	got = SafePercent(1, 3, 2)
	require.NotNil(t, got)
	assert.Equal(t, 33.33, *got)

	// A true zero rate stays a present zero, not an absent value.
	got = SafePercent(0, 10, 2)
	require.NotNil(t, got)
	assert.Equal(t, 0.0, *got)
}

func TestSafeRatio(t *testing.T) {
	assert.Nil(t, SafeRatio(100, 0))

	got := SafeRatio(10, 4)
	require.NotNil(t, got)
	assert.Equal(t, 2.5, *got)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 35.56, Round(35.5555, 2))
	assert.Equal(t, 35.6, Round(35.5555, 1))
	assert.Equal(t, 36.0, Round(35.5555, 0))
	assert.Equal(t, -2.35, Round2(-2.345000001))
}
