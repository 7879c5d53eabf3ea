package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHannEndpoints(t *testing.T) {
	periodic := NewHann(8, false)
	symmetric := NewHann(8, true)

	assert.InDelta(t, 0.0, periodic.coefficients[0], 1e-12)
	// Periodic windows never reach zero at the right edge
	assert.Greater(t, periodic.coefficients[7], 0.0)

	assert.InDelta(t, 0.0, symmetric.coefficients[0], 1e-12)
	assert.InDelta(t, 0.0, symmetric.coefficients[7], 1e-12)
}

func TestHannApply(t *testing.T) {
	h := NewHann(4, false)

	signal := []float64{1, 1, 1, 1}
	windowed := h.Apply(signal)
	require.NotNil(t, windowed)

	assert.InDelta(t, 0.0, windowed[0], 1e-12)
	assert.InDelta(t, 1.0, windowed[2], 1e-12)
	assert.Equal(t, []float64{1, 1, 1, 1}, signal)

	assert.Nil(t, h.Apply([]float64{1, 2}))
}

func TestHannApplyInPlace(t *testing.T) {
	h := NewHann(4, false)

	signal := []float64{2, 2, 2, 2}
	require.NoError(t, h.ApplyInPlace(signal))
	assert.InDelta(t, 2.0, signal[2], 1e-12)

	assert.Error(t, h.ApplyInPlace([]float64{1}))
	assert.Equal(t, 4, h.GetSize())
}
