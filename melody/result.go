package melody

// Result holds the outcome of one melody comparison. Bucket sequences carry
// one majority-voted 0/1 flag per quarter second of the candidate recording
// (at the default time factor); NormalizedVolume carries one value per
// candidate frame.
type Result struct {
	IntegralIndicator float64   `json:"integral_indicator"` // Overall similarity, 0.0-1.0
	RhythmBuckets     []int     `json:"rhythm_buckets"`
	PitchBuckets      []int     `json:"pitch_buckets"`
	LoudnessBuckets   []int     `json:"loudness_buckets"`
	NormalizedVolume  []float64 `json:"normalized_volume"`
}
