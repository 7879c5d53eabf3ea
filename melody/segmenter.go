package melody

import (
	"math"
)

// NoteSequence holds run-length-encoded note events as parallel arrays.
// Values[i] packs Bins[i] + Durations[i]/100.
type NoteSequence struct {
	Values    []float64 `json:"values"`
	Bins      []int     `json:"bins"`
	Durations []int     `json:"durations"`
}

// Len returns the number of note events
func (s *NoteSequence) Len() int {
	return len(s.Values)
}

// Segmenter collapses per-frame melody values into note events
type Segmenter struct{}

// NewSegmenter creates a segmenter
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment scans consecutive frames and emits a note event whenever the
// dominant bin changes after a run at least minFramesPerNote long. Shorter
// runs are noise and are discarded, not merged forward. The scan compares
// frame i against i+1 up to the second-to-last frame, so the final run never
// emits; callers rely on that boundary behavior.
func (s *Segmenter) Segment(frames []float64, minFramesPerNote float64) *NoteSequence {
	seq := &NoteSequence{}

	counter := 0
	for i := 0; i+1 < len(frames); i++ {
		if math.Floor(frames[i]) == math.Floor(frames[i+1]) {
			counter++
			continue
		}

		if float64(counter) >= minFramesPerNote {
			bin := int(math.Floor(frames[i]))
			seq.Values = append(seq.Values, float64(bin)+float64(counter)/100.0)
			seq.Bins = append(seq.Bins, bin)
			seq.Durations = append(seq.Durations, counter)
		}
		counter = 0
	}

	return seq
}
