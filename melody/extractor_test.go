package melody

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq float64, seconds float64, sampleRate int) []float64 {
	n := int(seconds * float64(sampleRate))
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestExtractRejectsBadInput(t *testing.T) {
	e := NewExtractor(nil)

	_, err := e.Extract(nil, 22050)
	assert.Error(t, err)

	_, err = e.Extract([]float64{0.1}, 0)
	assert.Error(t, err)
}

func TestExtractRejectsSilence(t *testing.T) {
	e := NewExtractor(nil)

	_, err := e.Extract(make([]float64, 22050), 22050)
	assert.Error(t, err)
}

func TestExtractTone(t *testing.T) {
	e := NewExtractor(nil)

	m, err := e.Extract(sine(220, 1.0, 22050), 22050)
	require.NoError(t, err)

	assert.NotEmpty(t, m.Frames)
	assert.InDelta(t, 1.0, m.Duration, 0.1)

	// Adaptive threshold: frame density over quarter-second subdivisions
	expected := float64(len(m.Frames)) / (m.Duration * 4.0)
	assert.InDelta(t, expected, m.MinFramesPerNote, 1e-9)

	for _, v := range m.Frames {
		bin := math.Floor(v)
		assert.GreaterOrEqual(t, bin, 0.0)
		assert.Less(t, bin, 5.0)
		assert.Less(t, v-bin, 1.0)
	}
}

func TestExtractToneIsVoiced(t *testing.T) {
	e := NewExtractor(nil)

	m, err := e.Extract(sine(220, 1.0, 22050), 22050)
	require.NoError(t, err)

	voiced := 0
	for _, v := range m.Frames {
		if v != 0 {
			voiced++
		}
	}
	// A loud steady tone should dominate nearly every frame
	assert.Greater(t, voiced, len(m.Frames)/2)
}

func TestExtractDistinguishesTones(t *testing.T) {
	e := NewExtractor(nil)

	low, err := e.Extract(sine(220, 1.0, 22050), 22050)
	require.NoError(t, err)
	high, err := e.Extract(sine(440, 1.0, 22050), 22050)
	require.NoError(t, err)

	assert.NotEqual(t, dominantBin(low.Frames), dominantBin(high.Frames))
}

// dominantBin returns the most common nonzero integer part
func dominantBin(frames []float64) int {
	counts := map[int]int{}
	for _, v := range frames {
		if v != 0 {
			counts[int(math.Floor(v))]++
		}
	}
	best, bestCount := -1, 0
	for bin, n := range counts {
		if n > bestCount {
			best, bestCount = bin, n
		}
	}
	return best
}
