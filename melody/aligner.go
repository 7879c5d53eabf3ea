package melody

import (
	"math"

	"github.com/RyanBlaney/melodia/logging"
)

// GapBin is the sentinel bin index inserted for a detected gap. It lies
// outside the real melodic sub-range (0-4), so a gap never matches a real
// note in the frequency metric.
const GapBin = 6

// GapDuration is the frame length assigned to an inserted gap marker
const GapDuration = 1

// AlignmentStrategy detects local misalignments between two note sequences.
// It reports gap positions only; applying them is the aligner's job.
// refGaps are positions where the reference is missing a note the candidate
// has, candGaps the symmetric case. Fractional parts are carried through and
// floored on application.
type AlignmentStrategy interface {
	Detect(ref, cand *NoteSequence) (refGaps, candGaps []float64, err error)
}

// AlignedPair holds both sides of a comparison after gap insertion and
// right-padding. All three array pairs have equal lengths within the pair.
type AlignedPair struct {
	RefFrames  []float64
	CandFrames []float64

	RefBins  []int
	CandBins []int

	RefDurations  []int
	CandDurations []int
}

// Aligner re-synchronizes two note sequences using a pluggable strategy
type Aligner struct {
	strategy AlignmentStrategy
	logger   logging.Logger
}

// NewAligner creates an aligner for the configured strategy (nil config or an
// unknown name selects the local heuristic)
func NewAligner(cfg *Config) *Aligner {
	cfg = cfg.normalized()

	var strategy AlignmentStrategy
	switch cfg.Alignment {
	case AlignmentDTW:
		strategy = NewDTWStrategy()
	default:
		strategy = NewLocalStrategy()
	}

	return &Aligner{
		strategy: strategy,
		logger:   cfg.logger().WithFields(logging.Fields{"component": "melody_aligner"}),
	}
}

// NewAlignerWithStrategy creates an aligner with an explicit strategy
func NewAlignerWithStrategy(strategy AlignmentStrategy, logger logging.Logger) *Aligner {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	return &Aligner{strategy: strategy, logger: logger}
}

// Align produces an equal-length pair from two note sequences and their
// frame-level melodies. Inputs are never mutated. A strategy failure degrades
// to padding-only alignment rather than aborting.
func (a *Aligner) Align(ref, cand *NoteSequence, refFrames, candFrames []float64) *AlignedPair {
	pair := &AlignedPair{
		RefFrames:     append([]float64(nil), refFrames...),
		CandFrames:    append([]float64(nil), candFrames...),
		RefBins:       append([]int(nil), ref.Bins...),
		CandBins:      append([]int(nil), cand.Bins...),
		RefDurations:  append([]int(nil), ref.Durations...),
		CandDurations: append([]int(nil), cand.Durations...),
	}

	refGaps, candGaps, err := a.strategy.Detect(ref, cand)
	if err != nil {
		a.logger.Warn("alignment strategy failed, padding only", logging.Fields{
			"error": err.Error(),
		})
		refGaps, candGaps = nil, nil
	}

	for _, pos := range refGaps {
		idx := int(math.Floor(pos))
		pair.RefDurations = insertInt(pair.RefDurations, idx, GapDuration)
		pair.RefBins = insertInt(pair.RefBins, idx, GapBin)
	}

	for _, pos := range candGaps {
		idx := int(math.Floor(pos))
		pair.CandDurations = insertInt(pair.CandDurations, idx, GapDuration)
		pair.CandBins = insertInt(pair.CandBins, idx, GapBin)
	}

	if len(refGaps) > 0 || len(candGaps) > 0 {
		a.logger.Debug("inserted gap markers", logging.Fields{
			"ref_gaps":  len(refGaps),
			"cand_gaps": len(candGaps),
		})
	}

	pair.RefFrames, pair.CandFrames = padFloats(pair.RefFrames, pair.CandFrames, 0.0)
	pair.RefBins, pair.CandBins = padInts(pair.RefBins, pair.CandBins, 0)
	pair.RefDurations, pair.CandDurations = padInts(pair.RefDurations, pair.CandDurations, GapDuration)

	return pair
}

// LocalStrategy is the default greedy heuristic: a single pass with a
// 3-event lookahead that spots one inserted or deleted note between otherwise
// matching sequences. It will not correct larger drift or overlapping
// misalignments.
type LocalStrategy struct{}

// NewLocalStrategy creates the default local strategy
func NewLocalStrategy() *LocalStrategy {
	return &LocalStrategy{}
}

// Detect implements AlignmentStrategy
func (s *LocalStrategy) Detect(ref, cand *NoteSequence) ([]float64, []float64, error) {
	if ref.Len() == cand.Len() {
		return nil, nil, nil
	}

	var refGaps, candGaps []float64

	limit := min(ref.Len(), cand.Len()) - 3
	for i := 0; i < limit; i++ {
		if cand.Values[i] == ref.Values[i] {
			continue
		}

		// Candidate has one extra note here: its next two events replay the
		// reference's current two.
		if floatsEqual(cand.Values[i+1:i+3], ref.Values[i:i+2]) {
			refGaps = append(refGaps, float64(i)+frac(cand.Values[i]))
		} else if floatsEqual(cand.Values[i:i+2], ref.Values[i+1:i+3]) {
			candGaps = append(candGaps, float64(i)+frac(ref.Values[i]))
		}
	}

	return refGaps, candGaps, nil
}

func frac(v float64) float64 {
	return v - math.Floor(v)
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// insertInt inserts v at idx, clamping idx into [0, len]
func insertInt(s []int, idx, v int) []int {
	if idx < 0 {
		idx = 0
	}
	if idx > len(s) {
		idx = len(s)
	}
	s = append(s, 0)
	copy(s[idx+1:], s[idx:])
	s[idx] = v
	return s
}

// padFloats right-pads the shorter slice with fill until lengths match
func padFloats(a, b []float64, fill float64) ([]float64, []float64) {
	for len(a) < len(b) {
		a = append(a, fill)
	}
	for len(b) < len(a) {
		b = append(b, fill)
	}
	return a, b
}

// padInts right-pads the shorter slice with fill until lengths match
func padInts(a, b []int, fill int) ([]int, []int) {
	for len(a) < len(b) {
		a = append(a, fill)
	}
	for len(b) < len(a) {
		b = append(b, fill)
	}
	return a, b
}
