package selftest

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/soundlock/internal/config"
	"github.com/oshokin/soundlock/internal/domain/puzzle"
	"github.com/oshokin/soundlock/internal/logger"
	"github.com/oshokin/soundlock/internal/service/common"
)

// Timing sets the pace of the pattern.
type Timing struct {
	// Hold is how long the all-on and all-off phases last.
	Hold time.Duration
	// Step is the delay between single LEDs in the chase phases.
	Step time.Duration
}

// DefaultTiming is the pace used on the installation.
//
//nolint:gochecknoglobals // Read-only default.
var DefaultTiming = Timing{
	Hold: 2 * time.Second,
	Step: 100 * time.Millisecond,
}

// Options controls the standalone self-test command.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Simulate runs the pattern in the terminal instead of on the hardware.
	Simulate bool
}

// Run opens the configured grid, plays the pattern once and darkens the grid.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	closeLog, err := common.SetupLogging(cfg, !opts.Simulate)
	if err != nil {
		return err
	}

	defer func() {
		_ = closeLog()
	}()

	ctx = logger.WithName(ctx, "selftest")

	// The simulator's quit key cancels like a signal does.
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	var rig *common.Rig
	if opts.Simulate {
		rig, err = common.OpenSimulator(ctx, stop)
	} else {
		rig, err = common.OpenHardware(ctx, cfg)
	}

	if err != nil {
		return err
	}

	defer func() {
		if err := rig.Close(); err != nil {
			logger.ErrorKV(ctx, "Release hardware failed", "error", err)
		}
	}()

	if err := Play(ctx, rig.Grid, DefaultTiming); err != nil {
		if ctx.Err() != nil {
			logger.Info(ctx, "Self-test interrupted")

			return nil
		}

		return err
	}

	return nil
}

// Play runs the pattern: all on, all off, a chase up to the last cell and
// back down. It stops early when ctx is canceled.
func Play(ctx context.Context, grid common.Grid, timing Timing) error {
	logger.Info(ctx, "Self-test: all LEDs on")

	if err := grid.Fill(true); err != nil {
		return fmt.Errorf("fill grid: %w", err)
	}

	if err := sleep(ctx, timing.Hold); err != nil {
		return err
	}

	logger.Info(ctx, "Self-test: all LEDs off")

	if err := grid.Fill(false); err != nil {
		return fmt.Errorf("clear grid: %w", err)
	}

	if err := sleep(ctx, timing.Hold); err != nil {
		return err
	}

	logger.Info(ctx, "Self-test: chase up")

	for cell := range puzzle.GridSize {
		if err := step(ctx, grid, cell, true, timing.Step); err != nil {
			return err
		}
	}

	logger.Info(ctx, "Self-test: chase down")

	for cell := puzzle.GridSize - 1; cell >= 0; cell-- {
		if err := step(ctx, grid, cell, false, timing.Step); err != nil {
			return err
		}
	}

	logger.Info(ctx, "Self-test done")

	return nil
}

// step switches one LED and waits.
func step(ctx context.Context, grid common.Grid, cell int, on bool, d time.Duration) error {
	if err := grid.SetLED(cell, on); err != nil {
		return fmt.Errorf("set led %d: %w", cell, err)
	}

	return sleep(ctx, d)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
