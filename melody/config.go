package melody

import (
	"github.com/RyanBlaney/melodia/logging"
)

// Alignment strategy names accepted by Config.Alignment
const (
	AlignmentLocal = "local"
	AlignmentDTW   = "dtw"
)

// Config holds the tunable constants of the comparison pipeline. The defaults
// are the values the scoring model was calibrated against; change them only
// together with the downstream score interpretation.
type Config struct {
	// Spectral frontend
	NumMelBands int `json:"num_mel_bands"` // Mel bands in the full spectrogram
	BandLow     int `json:"band_low"`      // First band of the melodic sub-range (inclusive)
	BandHigh    int `json:"band_high"`     // End of the melodic sub-range (exclusive)
	WindowSize  int `json:"window_size"`   // STFT window size
	HopSize     int `json:"hop_size"`      // STFT hop size

	// Temporal shaping
	TrimDB     float64 `json:"trim_db"`     // Silence trim threshold, dB below peak
	TimeFactor float64 `json:"time_factor"` // Buckets per second; also scales the minimum note length

	// Metric thresholds
	LoudnessThreshold float64 `json:"loudness_threshold"` // Relative deviation tolerated per note
	RhythmThreshold   float64 `json:"rhythm_threshold"`   // Relative duration deviation tolerated per note

	// Alignment method: "local" (default) or "dtw"
	Alignment string `json:"alignment"`

	// Logger receives stage-level diagnostics. Nil means silent.
	Logger logging.Logger `json:"-"`
}

// DefaultConfig returns the calibrated defaults
func DefaultConfig() *Config {
	return &Config{
		NumMelBands:       64,
		BandLow:           4,
		BandHigh:          9,
		WindowSize:        2048,
		HopSize:           512,
		TrimDB:            14.0,
		TimeFactor:        4.0,
		LoudnessThreshold: 0.25,
		RhythmThreshold:   0.25,
		Alignment:         AlignmentLocal,
	}
}

// normalized fills in zero values so a partially populated config behaves
// like the defaults for the fields it left out.
func (c *Config) normalized() *Config {
	if c == nil {
		return DefaultConfig()
	}

	out := *c
	def := DefaultConfig()

	if out.NumMelBands <= 0 {
		out.NumMelBands = def.NumMelBands
	}
	if out.BandHigh <= out.BandLow {
		out.BandLow = def.BandLow
		out.BandHigh = def.BandHigh
	}
	if out.WindowSize <= 0 {
		out.WindowSize = def.WindowSize
	}
	if out.HopSize <= 0 {
		out.HopSize = def.HopSize
	}
	if out.TrimDB <= 0 {
		out.TrimDB = def.TrimDB
	}
	if out.TimeFactor <= 0 {
		out.TimeFactor = def.TimeFactor
	}
	if out.LoudnessThreshold <= 0 {
		out.LoudnessThreshold = def.LoudnessThreshold
	}
	if out.RhythmThreshold <= 0 {
		out.RhythmThreshold = def.RhythmThreshold
	}
	if out.Alignment == "" {
		out.Alignment = def.Alignment
	}

	return &out
}

// logger returns the injected logger or a no-op one
func (c *Config) logger() logging.Logger {
	if c != nil && c.Logger != nil {
		return c.Logger
	}
	return &logging.NoOpLogger{}
}
