package spectral

import (
	"fmt"
	"sync"

	"github.com/RyanBlaney/melodia/algorithms/windowing"
)

// MelSpectrogram computes mel-band power spectrograms from raw audio
type MelSpectrogram struct {
	numBands   int
	windowSize int
	hopSize    int

	stft     *STFT
	melScale *MelScale

	// Filter bank cached per sample rate
	bankMu         sync.Mutex
	filterBank     [][]float64
	bankSampleRate int

	window *windowing.Hann
}

// NewMelSpectrogram creates a mel spectrogram computer
func NewMelSpectrogram(numBands, windowSize, hopSize int) *MelSpectrogram {
	return &MelSpectrogram{
		numBands:   numBands,
		windowSize: windowSize,
		hopSize:    hopSize,
		stft:       NewSTFT(),
		melScale:   NewMelScale(),
		window:     windowing.NewHann(windowSize, false),
	}
}

// Compute returns a time x band matrix of mel power values covering
// 0..sampleRate/2.
func (m *MelSpectrogram) Compute(signal []float64, sampleRate int) ([][]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	stftResult, err := m.stft.ComputeCentered(signal, m.windowSize, m.hopSize, sampleRate, m.window)
	if err != nil {
		return nil, fmt.Errorf("stft failed: %w", err)
	}

	m.bankMu.Lock()
	if m.filterBank == nil || m.bankSampleRate != sampleRate {
		m.filterBank = m.melScale.CreateMelFilterBank(
			m.numBands,
			m.windowSize,
			sampleRate,
			0.0,
			float64(sampleRate)/2.0,
		)
		m.bankSampleRate = sampleRate
	}
	bank := m.filterBank
	m.bankMu.Unlock()

	if len(bank) == 0 {
		return nil, fmt.Errorf("failed to create mel filter bank")
	}

	melFrames := make([][]float64, stftResult.TimeFrames)
	for t, powerSpectrum := range stftResult.Power {
		melFrames[t] = m.melScale.ApplyFilterBank(powerSpectrum, bank)
	}

	return melFrames, nil
}
