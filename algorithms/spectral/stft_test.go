package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/melodia/algorithms/windowing"
)

func TestComputeCenteredFrameCount(t *testing.T) {
	s := NewSTFT()

	signal := make([]float64, 5120)
	res, err := s.ComputeCentered(signal, 2048, 512, 16000, nil)
	require.NoError(t, err)

	// Centered framing pads by windowSize/2 on each side
	assert.Equal(t, 11, res.TimeFrames)
	assert.Equal(t, 1025, res.FreqBins)
	assert.Len(t, res.Power, 11)
	assert.Len(t, res.Power[0], 1025)
}

func TestComputeCenteredSinePeak(t *testing.T) {
	s := NewSTFT()

	// 1 kHz at 16 kHz lands exactly on bin 128 for a 2048-point FFT
	signal := make([]float64, 5120)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / 16000)
	}

	res, err := s.ComputeCentered(signal, 2048, 512, 16000, windowing.NewHann(2048, false))
	require.NoError(t, err)

	mid := res.Power[res.TimeFrames/2]
	peak := 0
	for i := range mid {
		if mid[i] > mid[peak] {
			peak = i
		}
	}
	assert.Equal(t, 128, peak)
}

func TestComputeCenteredRejectsBadInput(t *testing.T) {
	s := NewSTFT()

	_, err := s.ComputeCentered(nil, 2048, 512, 16000, nil)
	assert.Error(t, err)

	_, err = s.ComputeCentered([]float64{1}, 0, 512, 16000, nil)
	assert.Error(t, err)

	_, err = s.ComputeCentered([]float64{1}, 2048, 0, 16000, nil)
	assert.Error(t, err)
}

func TestReflectPad(t *testing.T) {
	assert.Equal(t,
		[]float64{3, 2, 1, 2, 3, 4, 3, 2},
		reflectPad([]float64{1, 2, 3, 4}, 2))

	// Too short to mirror: zero padding
	assert.Equal(t, []float64{0, 5, 0}, reflectPad([]float64{5}, 1))
}
