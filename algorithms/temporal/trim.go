package temporal

import (
	"math"

	"github.com/RyanBlaney/melodia/algorithms/common"
)

// Trim analysis framing. These mirror the analysis window of the spectral
// frontend so trim boundaries land on frame edges.
const (
	TrimFrameLength = 2048
	TrimHopLength   = 512
)

// Trim removes leading and trailing quiet regions from a signal. A frame is
// quiet when its RMS power is more than topDB decibels below the loudest
// frame. Returns a newly allocated slice; an all-quiet signal yields an empty
// one.
func Trim(signal []float64, topDB float64) []float64 {
	return TrimWithFrames(signal, topDB, TrimFrameLength, TrimHopLength)
}

// TrimWithFrames is Trim with explicit analysis framing.
func TrimWithFrames(signal []float64, topDB float64, frameLength, hopLength int) []float64 {
	if len(signal) == 0 {
		return []float64{}
	}

	if frameLength <= 0 || hopLength <= 0 {
		frameLength = TrimFrameLength
		hopLength = TrimHopLength
	}

	power := framePower(signal, frameLength, hopLength)
	if len(power) == 0 {
		return []float64{}
	}

	ref := 0.0
	for _, p := range power {
		if p > ref {
			ref = p
		}
	}

	if ref <= 0 {
		return []float64{}
	}

	// 10*log10 on power equals 20*log10 on amplitude
	threshold := -topDB
	first, last := -1, -1
	for i, p := range power {
		db := 10.0 * math.Log10(p/ref)
		if db > threshold {
			if first == -1 {
				first = i
			}
			last = i
		}
	}

	if first == -1 {
		return []float64{}
	}

	start := first * hopLength
	end := min(len(signal), (last+1)*hopLength)

	trimmed := make([]float64, end-start)
	copy(trimmed, signal[start:end])
	return trimmed
}

// framePower computes mean squared amplitude per frame. The final partial
// frame is included so trailing audio is never silently dropped.
func framePower(signal []float64, frameLength, hopLength int) []float64 {
	var power []float64

	squared := make([]float64, frameLength)
	for start := 0; start < len(signal); start += hopLength {
		end := min(len(signal), start+frameLength)

		for i, v := range signal[start:end] {
			squared[i] = v * v
		}
		power = append(power, common.Mean(squared[:end-start]))

		if end == len(signal) && start+hopLength >= len(signal) {
			break
		}
	}

	return power
}
