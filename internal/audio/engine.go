package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// resampleQuality is the beep resampler quality used for off-rate clips.
const resampleQuality = 4

// ErrEmptyClip is returned for a WAV file without samples.
var ErrEmptyClip = errors.New("clip has no samples")

// Engine owns the speaker and the mixer all clips are played through.
type Engine struct {
	rate    beep.SampleRate
	mixer   *beep.Mixer
	lock    func()
	unlock  func()
	mu      sync.Mutex
	started bool
}

// NewEngine creates an engine producing audio at sampleRate.
// Clips can be loaded before Start; they stay silent until it is called.
func NewEngine(sampleRate int) *Engine {
	return &Engine{
		rate:   beep.SampleRate(sampleRate),
		mixer:  &beep.Mixer{},
		lock:   speaker.Lock,
		unlock: speaker.Unlock,
	}
}

// Start opens the speaker with the given buffer length and attaches the mixer.
func (e *Engine) Start(buffer time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}

	if err := speaker.Init(e.rate, e.rate.N(buffer)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	speaker.Play(e.mixer)
	e.started = true

	return nil
}

// Close silences every clip and detaches the mixer from the speaker.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}

	speaker.Clear()
	e.started = false
}

// Load decodes the WAV file at path into memory.
func (e *Engine) Load(path string) (*Clip, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open clip: %w", err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("decode clip: %w", err)
	}

	defer func() {
		_ = streamer.Close()
	}()

	if streamer.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyClip, path)
	}

	duration := format.SampleRate.D(streamer.Len())

	var source beep.Streamer = streamer
	if format.SampleRate != e.rate {
		source = beep.Resample(resampleQuality, format.SampleRate, e.rate, streamer)
	}

	buffer := beep.NewBuffer(beep.Format{
		SampleRate:  e.rate,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	})
	buffer.Append(source)

	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("read clip: %w", err)
	}

	return &Clip{
		engine:   e,
		buffer:   buffer,
		duration: duration,
	}, nil
}

// Clip is a decoded sound that can be restarted and stopped.
type Clip struct {
	engine   *Engine
	buffer   *beep.Buffer
	duration time.Duration
	// voice is the current run; nil when the clip never played.
	voice *beep.Ctrl
}

// Play starts the clip from the beginning, cutting off its previous run.
func (c *Clip) Play() {
	c.engine.lock()
	defer c.engine.unlock()

	if c.voice != nil {
		// A nil streamer drains the voice; the mixer drops it on the next pass.
		c.voice.Streamer = nil
	}

	c.voice = &beep.Ctrl{Streamer: c.buffer.Streamer(0, c.buffer.Len())}
	c.engine.mixer.Add(c.voice)
}

// Stop silences the clip if it is playing.
func (c *Clip) Stop() {
	c.engine.lock()
	defer c.engine.unlock()

	if c.voice != nil {
		c.voice.Streamer = nil
		c.voice = nil
	}
}

// Duration returns the length of the source file.
func (c *Clip) Duration() time.Duration {
	return c.duration
}
