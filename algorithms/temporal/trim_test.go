package temporal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tone(freq float64, n, sampleRate int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestTrimRemovesSurroundingSilence(t *testing.T) {
	const sr = 8000

	signal := make([]float64, 0, 2*sr)
	signal = append(signal, make([]float64, sr/2)...)
	signal = append(signal, tone(440, sr, sr)...)
	signal = append(signal, make([]float64, sr/2)...)

	trimmed := Trim(signal, 14)

	assert.Less(t, len(trimmed), len(signal))
	// Boundaries snap to hop-length frame edges, so allow up to a frame of
	// slack on either side
	assert.GreaterOrEqual(t, len(trimmed), sr)
	assert.LessOrEqual(t, len(trimmed), sr+2*TrimFrameLength)
}

func TestTrimKeepsLoudSignalIntact(t *testing.T) {
	signal := make([]float64, 8000)
	for i := range signal {
		signal[i] = 0.3
	}

	assert.Equal(t, signal, Trim(signal, 14))
}

func TestTrimAllQuiet(t *testing.T) {
	assert.Empty(t, Trim(make([]float64, 4096), 14))
	assert.Empty(t, Trim(nil, 14))
}

func TestTrimReturnsCopy(t *testing.T) {
	signal := tone(440, 4096, 8000)

	trimmed := Trim(signal, 14)
	if len(trimmed) == 0 {
		t.Fatal("expected audible signal to survive trimming")
	}

	trimmed[0] = 99
	assert.NotEqual(t, 99.0, signal[0])
}
