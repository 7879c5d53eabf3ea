package melody

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentEmitsRunOnBinChange(t *testing.T) {
	s := NewSegmenter()

	// Run of 1s ends at the 2; the 2 and the trailing 3 are too short to emit
	seq := s.Segment([]float64{1.0, 1.0, 2.0, 3.0}, 1)

	assert.Equal(t, []int{1}, seq.Bins)
	assert.Equal(t, []int{1}, seq.Durations)
	assert.Equal(t, []float64{1.01}, seq.Values)
}

func TestSegmentDiscardsShortRuns(t *testing.T) {
	s := NewSegmenter()

	// The lone 2 is noise between two held notes and must not emit or merge
	seq := s.Segment([]float64{1.0, 1.0, 1.0, 2.0, 5.0, 5.0, 5.0, 9.0}, 2)

	assert.Equal(t, []int{1, 5}, seq.Bins)
	assert.Equal(t, []int{2, 2}, seq.Durations)
}

func TestSegmentFinalRunNeverEmits(t *testing.T) {
	s := NewSegmenter()

	// The trailing run of 2s is long enough but the scan stops before it
	seq := s.Segment([]float64{1.0, 1.0, 1.0, 2.0, 2.0, 2.0, 2.0}, 2)

	assert.Equal(t, []int{1}, seq.Bins)
}

func TestSegmentFractionEncodesDuration(t *testing.T) {
	s := NewSegmenter()

	seq := s.Segment([]float64{3.5, 3.6, 3.4, 3.5, 3.5, 0.0, 0.0}, 3)

	assert.Equal(t, []float64{3.04}, seq.Values)
	assert.Equal(t, []int{4}, seq.Durations)
}

func TestSegmentEmptyAndSingleFrame(t *testing.T) {
	s := NewSegmenter()

	assert.Zero(t, s.Segment(nil, 1).Len())
	assert.Zero(t, s.Segment([]float64{1.0}, 0).Len())
}
