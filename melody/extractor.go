package melody

import (
	"fmt"

	"github.com/RyanBlaney/melodia/algorithms/common"
	"github.com/RyanBlaney/melodia/algorithms/spectral"
	"github.com/RyanBlaney/melodia/algorithms/temporal"
	"github.com/RyanBlaney/melodia/logging"
)

// Melody is the compact melodic representation of one recording. Each frame
// value packs the dominant mel band of the melodic sub-range into its integer
// part and the rounded band level (dB) into its two-decimal fractional part;
// silent frames are exactly 0.
type Melody struct {
	Frames           []float64 `json:"frames"`
	MinFramesPerNote float64   `json:"min_frames_per_note"` // Adaptive minimum run length for a note
	Duration         float64   `json:"duration"`            // Trimmed duration in seconds
}

// Extractor turns a mono waveform into a Melody
type Extractor struct {
	cfg    *Config
	mel    *spectral.MelSpectrogram
	logger logging.Logger
}

// NewExtractor creates an extractor for the given config (nil uses defaults)
func NewExtractor(cfg *Config) *Extractor {
	cfg = cfg.normalized()
	return &Extractor{
		cfg:    cfg,
		mel:    spectral.NewMelSpectrogram(cfg.NumMelBands, cfg.WindowSize, cfg.HopSize),
		logger: cfg.logger().WithFields(logging.Fields{"component": "melody_extractor"}),
	}
}

// Extract trims near-silence off both ends, computes a mel power spectrogram
// in dB, and collapses the melodic sub-range of each frame into one value.
func (e *Extractor) Extract(pcm []float64, sampleRate int) (*Melody, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("empty waveform")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	trimmed := temporal.Trim(pcm, e.cfg.TrimDB)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("signal is silent after trimming")
	}

	melFrames, err := e.mel.Compute(trimmed, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("mel spectrogram: %w", err)
	}

	db := spectral.AmplitudeToDB(melFrames, spectral.DBAmin, spectral.DBTopDB)

	if len(db) == 0 {
		return nil, fmt.Errorf("spectrogram is empty")
	}

	low, high := e.cfg.BandLow, e.cfg.BandHigh
	if high > len(db[0]) {
		return nil, fmt.Errorf("spectrogram has %d bands, need %d", len(db[0]), high)
	}

	frames := make([]float64, len(db))
	voiced := 0
	for t, row := range db {
		bands := row[low:high]

		maxIdx, maxVal := 0, bands[0]
		silent := bands[0] < 0
		for i := 1; i < len(bands); i++ {
			if bands[i] >= 0 {
				silent = false
			}
			if bands[i] > maxVal {
				maxIdx, maxVal = i, bands[i]
			}
		}

		if silent {
			frames[t] = 0
			continue
		}

		frames[t] = float64(maxIdx) + common.Round(maxVal)/100.0
		voiced++
	}

	duration := float64(len(trimmed)) / float64(sampleRate)
	minFrames := float64(len(frames)) / (duration * e.cfg.TimeFactor)

	e.logger.Debug("melody extracted", logging.Fields{
		"frames":        len(frames),
		"voiced_frames": voiced,
		"duration_s":    duration,
	})

	return &Melody{
		Frames:           frames,
		MinFramesPerNote: minFrames,
		Duration:         duration,
	}, nil
}
