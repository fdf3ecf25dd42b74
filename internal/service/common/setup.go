//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"

	"github.com/oshokin/soundlock/internal/audio"
	"github.com/oshokin/soundlock/internal/config"
	"github.com/oshokin/soundlock/internal/domain/puzzle"
	"github.com/oshokin/soundlock/internal/logger"
	"github.com/oshokin/soundlock/internal/soundboard"
)

// SetupLogging truncates the journal file and makes it the global log sink.
// With console set, entries are mirrored to stdout as well.
// The returned function flushes and closes the journal.
func SetupLogging(cfg *config.Config, console bool) (func() error, error) {
	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	l, closeFn, err := logger.NewWithFile(cfg.LogFile, logger.AtomicLevel(), console)
	if err != nil {
		return nil, fmt.Errorf("set up journal: %w", err)
	}

	logger.SetLogger(l)

	return closeFn, nil
}

// LoadSoundboard starts the speaker and loads every clip of the grid.
// The returned engine must be closed once playback is no longer needed.
func LoadSoundboard(ctx context.Context, cfg *config.Config) (*soundboard.Soundboard, *audio.Engine, error) {
	engine := audio.NewEngine(cfg.Audio.SampleRate)

	if err := engine.Start(cfg.Audio.Buffer); err != nil {
		return nil, nil, fmt.Errorf("start audio: %w", err)
	}

	load := func(path string) (soundboard.Clip, error) {
		clip, err := engine.Load(path)
		if err != nil {
			return nil, err
		}

		return clip, nil
	}

	board, err := soundboard.Load(ctx, load, cfg.ClipsDir, puzzle.GridSize, nil)
	if err != nil {
		engine.Close()

		return nil, nil, err
	}

	return board, engine, nil
}
