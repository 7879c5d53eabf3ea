package transcode

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/go-audio/wav"

	"github.com/RyanBlaney/melodia/logging"
)

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []float64     `json:"-"` // Mono PCM samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // Channel count of the source, before downmix
	Duration   time.Duration `json:"duration"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate"` // 0 keeps the source rate
	FFmpegPath       string        `json:"ffmpeg_path"`        // Path to ffmpeg binary
	Timeout          time.Duration `json:"timeout"`            // Timeout for ffmpeg operations
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 0,        // Keep native rate
		FFmpegPath:       "ffmpeg", // Assume in PATH
		Timeout:          30 * time.Second,
	}
}

// Decoder turns encoded audio bytes into mono PCM. WAV is parsed in-process;
// compressed containers (mp3, webm, ogg, ...) go through FFmpeg.
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a decoder with the given config (nil uses defaults)
func NewDecoder(config *DecoderConfig) *Decoder {
	return NewDecoderWithLogger(config, nil)
}

// NewDecoderWithLogger creates a decoder with an injected logger
func NewDecoderWithLogger(config *DecoderConfig, logger logging.Logger) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	return &Decoder{
		config: config,
		logger: logger.WithFields(logging.Fields{"component": "transcode"}),
	}
}

// DecodeBytes decodes an encoded audio buffer tagged with its container
// format ("wav", "mp3", "webm", ...) into mono PCM.
func (d *Decoder) DecodeBytes(ctx context.Context, data []byte, format string) (*AudioData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio buffer")
	}

	format = strings.ToLower(strings.TrimSpace(format))

	switch format {
	case "wav", "wave":
		return d.decodeWAV(data)
	default:
		return d.decodeFFmpeg(ctx, data, format)
	}
}

// decodeWAV parses a RIFF/WAVE buffer with go-audio and downmixes to mono by
// averaging channels.
func (d *Decoder) decodeWAV(data []byte) (*AudioData, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV data")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("WAV contains no samples")
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}

	sampleRate := buf.Format.SampleRate
	if sampleRate <= 0 {
		return nil, fmt.Errorf("WAV reports invalid sample rate %d", sampleRate)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	numFrames := len(buf.Data) / channels
	pcm := make([]float64, numFrames)
	for i := range numFrames {
		sum := 0.0
		for ch := range channels {
			sum += float64(buf.Data[i*channels+ch]) / scale
		}
		pcm[i] = sum / float64(channels)
	}

	d.logger.Debug("decoded WAV buffer", logging.Fields{
		"samples":     numFrames,
		"sample_rate": sampleRate,
		"channels":    channels,
		"bit_depth":   bitDepth,
	})

	return d.audioData(pcm, sampleRate, channels), nil
}

// decodeFFmpeg shells out to ffmpeg, feeding the buffer on stdin and reading
// raw little-endian float64 mono PCM from stdout.
func (d *Decoder) decodeFFmpeg(ctx context.Context, data []byte, format string) (*AudioData, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	sampleRate := d.config.TargetSampleRate
	if sampleRate <= 0 {
		sampleRate = 44100
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", format,
		"-i", "pipe:0",
		"-f", "f64le",
		"-acodec", "pcm_f64le",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, args...)
	cmd.Stdin = bytes.NewReader(data)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg decode failed for format %q: %w (%s)",
			format, err, strings.TrimSpace(stderr.String()))
	}

	raw := stdout.Bytes()
	if len(raw) < 8 {
		return nil, fmt.Errorf("ffmpeg produced no audio for format %q", format)
	}

	pcm := make([]float64, len(raw)/8)
	for i := range pcm {
		bits := binary.LittleEndian.Uint64(raw[i*8:])
		pcm[i] = math.Float64frombits(bits)
	}

	d.logger.Debug("decoded buffer via ffmpeg", logging.Fields{
		"format":      format,
		"samples":     len(pcm),
		"sample_rate": sampleRate,
	})

	return d.audioData(pcm, sampleRate, 1), nil
}

func (d *Decoder) audioData(pcm []float64, sampleRate, channels int) *AudioData {
	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   time.Duration(float64(len(pcm)) / float64(sampleRate) * float64(time.Second)),
	}
}
