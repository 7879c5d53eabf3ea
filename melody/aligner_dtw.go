package melody

import (
	"fmt"

	"github.com/katalvlaran/lvlath/dtw"
)

// DTWStrategy aligns note sequences with full dynamic time warping over the
// packed note values. Unlike LocalStrategy it handles multiple and
// non-isolated insertions/deletions; off-diagonal steps of the optimal
// warping path become gap positions.
type DTWStrategy struct {
	opts *dtw.DTWOptions
}

// NewDTWStrategy creates a DTW strategy with full-matrix path recovery
func NewDTWStrategy() *DTWStrategy {
	return &DTWStrategy{
		opts: &dtw.DTWOptions{
			Window:     0, // No band constraint; note sequences are short
			ReturnPath: true,
			MemoryMode: dtw.FullMatrix,
		},
	}
}

// Detect implements AlignmentStrategy
func (s *DTWStrategy) Detect(ref, cand *NoteSequence) ([]float64, []float64, error) {
	if ref.Len() == cand.Len() {
		return nil, nil, nil
	}
	if ref.Len() == 0 || cand.Len() == 0 {
		// Nothing to warp against; padding alone handles this
		return nil, nil, nil
	}

	_, path, err := dtw.DTW(ref.Values, cand.Values, s.opts)
	if err != nil {
		return nil, nil, fmt.Errorf("dtw alignment: %w", err)
	}

	var refGaps, candGaps []float64

	for k := 1; k < len(path); k++ {
		di := path[k][0] - path[k-1][0]
		dj := path[k][1] - path[k-1][1]

		switch {
		case di == 0 && dj == 1:
			// Candidate advanced alone: surplus candidate note, the
			// reference needs a filler where the stall began.
			refGaps = append(refGaps, float64(path[k][1]-1))
		case di == 1 && dj == 0:
			candGaps = append(candGaps, float64(path[k][0]-1))
		}
	}

	return refGaps, candGaps, nil
}
