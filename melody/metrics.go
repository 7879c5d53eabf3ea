package melody

import (
	"math"

	"github.com/RyanBlaney/melodia/algorithms/common"
)

// Metrics derives the frame-level error signals and summary values from an
// aligned pair. All methods return newly allocated slices.
type Metrics struct {
	cfg *Config
}

// NewMetrics creates a metric calculator
func NewMetrics(cfg *Config) *Metrics {
	return &Metrics{cfg: cfg.normalized()}
}

// NormalizeMelody maps frame values to integer loudness magnitudes: the
// fractional part scaled to 0-99.
func NormalizeMelody(frames []float64) []int {
	out := make([]int, len(frames))
	for i, v := range frames {
		out[i] = int(common.Round(math.Mod(v, 1) * 100.0))
	}
	return out
}

// Loudness emits one 0/1 flag per candidate frame. For each aligned note the
// per-frame loudness means of both sides are compared; a relative deviation
// beyond the threshold flags the note's candidate frames as mismatches.
// Notes whose reference frames carry no energy are never flagged.
func (m *Metrics) Loudness(pair *AlignedPair, refNorm, candNorm []int) []int {
	var flags []int

	refCursor, candCursor := 0, 0
	for i := range pair.RefDurations {
		refDur := pair.RefDurations[i]
		candDur := pair.CandDurations[i]

		refSum := sumRange(refNorm, refCursor, refDur)
		candSum := sumRange(candNorm, candCursor, candDur)

		mismatch := false
		if refSum != 0 {
			refMean := float64(refSum) / float64(refDur)
			candMean := float64(candSum) / float64(candDur)
			mismatch = math.Abs(1.0-candMean/refMean) > m.cfg.LoudnessThreshold
		}

		flags = appendFlags(flags, candDur, mismatch)

		refCursor += refDur
		candCursor += candDur
	}

	return flags
}

// Rhythm emits one 0/1 flag per frame of the longer of each aligned note
// pair. Within tolerance the whole note passes; beyond it the overlapping
// frames pass and the surplus frames fail.
func (m *Metrics) Rhythm(pair *AlignedPair) []int {
	var flags []int

	for i := range pair.RefDurations {
		refDur := pair.RefDurations[i]
		candDur := pair.CandDurations[i]

		deviation := math.Abs(float64(refDur-candDur) / float64(refDur))
		if deviation <= m.cfg.RhythmThreshold {
			flags = appendFlags(flags, candDur, false)
		} else {
			flags = appendFlags(flags, min(refDur, candDur), false)
			diff := refDur - candDur
			if diff < 0 {
				diff = -diff
			}
			flags = appendFlags(flags, diff, true)
		}
	}

	return flags
}

// Frequency emits one 0/1 flag per candidate frame: a note fails when its
// dominant bins differ. Gap markers (bin 6) never equal a real bin, so every
// inserted gap counts as a pitch error for its single frame.
func (m *Metrics) Frequency(pair *AlignedPair) []int {
	var flags []int

	for i := range pair.RefBins {
		flags = appendFlags(flags, pair.CandDurations[i], pair.RefBins[i] != pair.CandBins[i])
	}

	return flags
}

// AverageVolume scales the candidate's normalized loudness by its own
// maximum, min-max style, rounded to two decimals. A flat zero sequence
// passes through unscaled.
func (m *Metrics) AverageVolume(candNorm []int) []float64 {
	out := make([]float64, len(candNorm))
	for i, v := range candNorm {
		out[i] = float64(v)
	}

	maxC := common.Max(out)
	if maxC == 0 {
		return out
	}

	for i := range out {
		out[i] = common.Round2(out[i] / maxC)
	}

	return out
}

// IntegralIndicator collapses rhythm and frequency error bits into one
// scalar: 1 minus the rounded mean error rate. The mean of 0/1 bits lies in
// [0,1], so the result does too; no clamping is applied.
func (m *Metrics) IntegralIndicator(rhythmFlags, frequencyFlags []int) float64 {
	total := len(rhythmFlags) + len(frequencyFlags)
	if total == 0 {
		return 1.0
	}

	bits := make([]int, 0, total)
	bits = append(bits, rhythmFlags...)
	bits = append(bits, frequencyFlags...)

	return 1.0 - common.Round2(common.MeanInt(bits))
}

// sumRange sums count elements of s starting at offset, ignoring the part of
// the range that runs past the end (padding regions).
func sumRange(s []int, offset, count int) int {
	sum := 0
	for i := offset; i < offset+count && i < len(s); i++ {
		sum += s[i]
	}
	return sum
}

func appendFlags(flags []int, count int, mismatch bool) []int {
	v := 0
	if mismatch {
		v = 1
	}
	for range count {
		flags = append(flags, v)
	}
	return flags
}
