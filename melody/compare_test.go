package melody

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 22050

// toneWAV renders one second of each frequency as a 16-bit mono WAV and
// returns the encoded bytes. 220 Hz and 440 Hz land inside the melodic
// sub-band range at this sample rate.
func toneWAV(t *testing.T, freqs ...float64) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, testSampleRate, 16, 1, 1)

	n := testSampleRate
	data := make([]int, 0, n*len(freqs))
	for _, freq := range freqs {
		for i := range n {
			sample := 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(testSampleRate))
			data = append(data, int(sample*32767))
		}
	}

	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: 1, SampleRate: testSampleRate},
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	bytes, err := os.ReadFile(path)
	require.NoError(t, err)
	return bytes
}

func TestCompareRejectsInvalidInput(t *testing.T) {
	c := NewComparator(nil)
	ctx := context.Background()
	valid := toneWAV(t, 220)

	assert.Nil(t, c.Compare(ctx, nil, valid, "wav", "wav"))
	assert.Nil(t, c.Compare(ctx, valid, nil, "wav", "wav"))
	assert.Nil(t, c.Compare(ctx, []byte{}, valid, "wav", "wav"))
	assert.Nil(t, c.Compare(ctx, []byte("not audio"), valid, "wav", "wav"))
}

func TestCompareRejectsSilence(t *testing.T) {
	c := NewComparator(nil)

	silence := make([]int, testSampleRate)
	path := filepath.Join(t.TempDir(), "silence.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, testSampleRate, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:           silence,
		Format:         &audio.Format{NumChannels: 1, SampleRate: testSampleRate},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	silenceWAV, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Nil(t, c.Compare(context.Background(), silenceWAV, toneWAV(t, 220), "wav", "wav"))
}

func TestCompareIdenticalRecordings(t *testing.T) {
	c := NewComparator(nil)
	tone := toneWAV(t, 220, 440)

	res := c.Compare(context.Background(), tone, tone, "wav", "wav")
	require.NotNil(t, res)

	assert.InDelta(t, 1.0, res.IntegralIndicator, 1e-9)

	// All three bucket sequences cover the same candidate timeline
	assert.Len(t, res.PitchBuckets, len(res.RhythmBuckets))
	assert.Len(t, res.LoudnessBuckets, len(res.RhythmBuckets))

	for _, b := range res.RhythmBuckets {
		assert.Zero(t, b)
	}
	for _, b := range res.PitchBuckets {
		assert.Zero(t, b)
	}

	for _, v := range res.NormalizedVolume {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestCompareMismatchedPitch(t *testing.T) {
	c := NewComparator(nil)

	res := c.Compare(context.Background(),
		toneWAV(t, 220, 440), toneWAV(t, 440, 220), "wav", "wav")
	require.NotNil(t, res)

	assert.Less(t, res.IntegralIndicator, 1.0)
	assert.GreaterOrEqual(t, res.IntegralIndicator, 0.0)
	assert.Contains(t, res.PitchBuckets, 1)
}

func TestCompareIsDeterministic(t *testing.T) {
	c := NewComparator(nil)
	ref := toneWAV(t, 220, 440)
	cand := toneWAV(t, 440, 220)

	first := c.Compare(context.Background(), ref, cand, "wav", "wav")
	second := c.Compare(context.Background(), ref, cand, "wav", "wav")

	require.NotNil(t, first)
	assert.True(t, reflect.DeepEqual(first, second))
}

func TestCompareWithDTWAlignment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Alignment = AlignmentDTW
	c := NewComparator(cfg)
	tone := toneWAV(t, 220, 440)

	res := c.Compare(context.Background(), tone, tone, "wav", "wav")
	require.NotNil(t, res)
	assert.InDelta(t, 1.0, res.IntegralIndicator, 1e-9)
}
