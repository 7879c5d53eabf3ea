package melody

import (
	"github.com/RyanBlaney/melodia/algorithms/common"
)

// Bucketizer reduces a frame-level 0/1 error signal to one majority-voted
// flag per fixed time window (a quarter second at the default time factor).
type Bucketizer struct {
	timeFactor float64
}

// NewBucketizer creates a bucketizer
func NewBucketizer(cfg *Config) *Bucketizer {
	return &Bucketizer{timeFactor: cfg.normalized().TimeFactor}
}

// Bucketize partitions flags into chunks sized from the recording's duration
// in seconds and votes each chunk down to 0 or 1. A strict majority of error
// bits is required for a 1. The trailing partial chunk is voted on its own
// length; a zero-duration recording yields an empty sequence.
func (b *Bucketizer) Bucketize(flags []int, seconds float64) []int {
	bucketFrames := int(common.Round(common.Round2(seconds) * b.timeFactor))
	if bucketFrames <= 0 {
		return []int{}
	}

	buckets := []int{}
	for start := 0; start < len(flags); start += bucketFrames {
		end := min(len(flags), start+bucketFrames)

		if common.MeanInt(flags[start:end]) > 0.5 {
			buckets = append(buckets, 1)
		} else {
			buckets = append(buckets, 0)
		}
	}

	return buckets
}
