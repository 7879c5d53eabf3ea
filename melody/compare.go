package melody

import (
	"context"

	"github.com/RyanBlaney/melodia/logging"
	"github.com/RyanBlaney/melodia/transcode"
)

// Comparator is the public entry point of the engine. It wires the decoder
// collaborator and the pipeline stages together and guarantees the sentinel
// contract: callers see a full Result or nil, never an error or a panic.
// Each Compare call is pure and independent; heavy spectral work makes calls
// CPU-bound, so callers should run them on a worker pool, not a request loop.
type Comparator struct {
	cfg        *Config
	decoder    *transcode.Decoder
	extractor  *Extractor
	segmenter  *Segmenter
	aligner    *Aligner
	metrics    *Metrics
	bucketizer *Bucketizer
	logger     logging.Logger
}

// NewComparator creates a comparator (nil config uses defaults)
func NewComparator(cfg *Config) *Comparator {
	cfg = cfg.normalized()
	return &Comparator{
		cfg:        cfg,
		decoder:    transcode.NewDecoderWithLogger(nil, cfg.Logger),
		extractor:  NewExtractor(cfg),
		segmenter:  NewSegmenter(),
		aligner:    NewAligner(cfg),
		metrics:    NewMetrics(cfg),
		bucketizer: NewBucketizer(cfg),
		logger:     cfg.logger().WithFields(logging.Fields{"component": "melody_comparator"}),
	}
}

// Compare decodes two encoded recordings (reference first, candidate second),
// runs the comparison pipeline, and returns the metrics. Any failure in any
// stage is logged with its stage identity and collapsed to a nil sentinel.
func (c *Comparator) Compare(ctx context.Context, refData, candData []byte, refFormat, candFormat string) *Result {
	if len(refData) == 0 || len(candData) == 0 {
		c.logger.Error(nil, "comparison rejected", logging.Fields{
			"stage":  "input",
			"reason": "empty audio buffer",
		})
		return nil
	}

	ref, err := c.decoder.DecodeBytes(ctx, refData, refFormat)
	if err != nil {
		c.logger.Error(err, "comparison failed", logging.Fields{
			"stage": "decode",
			"side":  "reference",
		})
		return nil
	}

	cand, err := c.decoder.DecodeBytes(ctx, candData, candFormat)
	if err != nil {
		c.logger.Error(err, "comparison failed", logging.Fields{
			"stage": "decode",
			"side":  "candidate",
		})
		return nil
	}

	return c.ComparePCM(ref, cand)
}

// ComparePCM runs the pipeline on already-decoded audio. Same sentinel
// contract as Compare.
func (c *Comparator) ComparePCM(ref, cand *transcode.AudioData) *Result {
	if ref == nil || cand == nil {
		c.logger.Error(nil, "comparison rejected", logging.Fields{
			"stage":  "input",
			"reason": "nil audio data",
		})
		return nil
	}

	c.logger.Info("starting melody comparison")

	refMelody, err := c.extractor.Extract(ref.PCM, ref.SampleRate)
	if err != nil {
		c.logger.Error(err, "comparison failed", logging.Fields{
			"stage": "extract",
			"side":  "reference",
		})
		return nil
	}

	candMelody, err := c.extractor.Extract(cand.PCM, cand.SampleRate)
	if err != nil {
		c.logger.Error(err, "comparison failed", logging.Fields{
			"stage": "extract",
			"side":  "candidate",
		})
		return nil
	}

	refNotes := c.segmenter.Segment(refMelody.Frames, refMelody.MinFramesPerNote)
	candNotes := c.segmenter.Segment(candMelody.Frames, candMelody.MinFramesPerNote)

	pair := c.aligner.Align(refNotes, candNotes, refMelody.Frames, candMelody.Frames)

	result := c.score(pair, candMelody.Duration)

	c.logger.Info("melody comparison completed", logging.Fields{
		"integral_indicator": result.IntegralIndicator,
		"ref_notes":          refNotes.Len(),
		"cand_notes":         candNotes.Len(),
	})

	return result
}

// score computes all metrics from an aligned pair. candSeconds is the
// candidate's trimmed duration, which sets the bucket width.
func (c *Comparator) score(pair *AlignedPair, candSeconds float64) *Result {
	refNorm := NormalizeMelody(pair.RefFrames)
	candNorm := NormalizeMelody(pair.CandFrames)

	loudnessFlags := c.metrics.Loudness(pair, refNorm, candNorm)
	rhythmFlags := c.metrics.Rhythm(pair)
	frequencyFlags := c.metrics.Frequency(pair)

	return &Result{
		IntegralIndicator: c.metrics.IntegralIndicator(rhythmFlags, frequencyFlags),
		RhythmBuckets:     c.bucketizer.Bucketize(rhythmFlags, candSeconds),
		PitchBuckets:      c.bucketizer.Bucketize(frequencyFlags, candSeconds),
		LoudnessBuckets:   c.bucketizer.Bucketize(loudnessFlags, candSeconds),
		NormalizedVolume:  c.metrics.AverageVolume(candNorm),
	}
}
