package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/require"
)

// writeSilence encodes a silent WAV of the given length and rate.
func writeSilence(t *testing.T, rate beep.SampleRate, length time.Duration) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clip.wav")

	f, err := os.Create(path)
	require.NoError(t, err)

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(rate.N(length)), format))
	require.NoError(t, f.Close())

	return path
}

// newTestEngine returns an engine that does not touch the speaker lock.
func newTestEngine(rate int) *Engine {
	e := NewEngine(rate)
	e.lock = func() {}
	e.unlock = func() {}

	return e
}

// TestLoad_DurationAtEngineRate decodes a clip recorded at the engine rate.
func TestLoad_DurationAtEngineRate(t *testing.T) {
	t.Parallel()

	path := writeSilence(t, 22050, 500*time.Millisecond)

	clip, err := newTestEngine(22050).Load(path)
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, clip.Duration())
	require.Equal(t, 11025, clip.buffer.Len())
}

// TestLoad_ResamplesOffRateClip keeps the source duration and converts the samples.
func TestLoad_ResamplesOffRateClip(t *testing.T) {
	t.Parallel()

	path := writeSilence(t, 44100, time.Second)

	clip, err := newTestEngine(22050).Load(path)
	require.NoError(t, err)
	require.Equal(t, time.Second, clip.Duration())
	require.InDelta(t, 22050, clip.buffer.Len(), 64)
	require.Equal(t, beep.SampleRate(22050), clip.buffer.Format().SampleRate)
}

// TestLoad_Failures covers missing and corrupt files.
func TestLoad_Failures(t *testing.T) {
	t.Parallel()

	e := newTestEngine(22050)

	_, err := e.Load(filepath.Join(t.TempDir(), "absent.wav"))
	require.Error(t, err)

	corrupt := filepath.Join(t.TempDir(), "corrupt.wav")
	require.NoError(t, os.WriteFile(corrupt, []byte("definitely not RIFF data"), 0o600))

	_, err = e.Load(corrupt)
	require.Error(t, err)
}

// TestClip_PlayRestartsAndStops checks each Play replaces the running voice.
func TestClip_PlayRestartsAndStops(t *testing.T) {
	t.Parallel()

	e := newTestEngine(22050)

	clip, err := e.Load(writeSilence(t, 22050, 200*time.Millisecond))
	require.NoError(t, err)

	clip.Play()
	first := clip.voice
	require.NotNil(t, first.Streamer)
	require.Equal(t, 1, e.mixer.Len())

	clip.Play()
	require.Nil(t, first.Streamer, "previous run is cut off")
	require.NotSame(t, first, clip.voice)

	// The drained voice is dropped by the mixer on its next pass.
	samples := make([][2]float64, 64)
	e.mixer.Stream(samples)
	require.Equal(t, 1, e.mixer.Len())

	clip.Stop()
	require.Nil(t, clip.voice)

	e.mixer.Stream(samples)
	require.Equal(t, 0, e.mixer.Len())

	// Stopping an idle clip is harmless.
	clip.Stop()
}
