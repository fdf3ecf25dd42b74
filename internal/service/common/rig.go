//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/oshokin/soundlock/internal/config"
	"github.com/oshokin/soundlock/internal/domain/puzzle"
	"github.com/oshokin/soundlock/internal/hardware/gpio"
	"github.com/oshokin/soundlock/internal/hardware/launchpad"
	"github.com/oshokin/soundlock/internal/hardware/terminal"
	"github.com/oshokin/soundlock/internal/hardware/trellis"
	"github.com/oshokin/soundlock/internal/logger"
)

// Grid is the 4x4 button grid with one LED per cell.
type Grid interface {
	// Poll returns the cells that went from released to pressed since the last call.
	Poll() (puzzle.CellSet, error)
	// SetLED switches the LED of one cell.
	SetLED(cell int, on bool) error
	// Fill switches every LED.
	Fill(on bool) error
}

// FrameWriter is implemented by grids that can refresh every LED at once.
type FrameWriter interface {
	WriteFrame(leds []bool) error
}

// Lines are the confirm button, its indicator light and the lock solenoid.
type Lines interface {
	ConfirmPressed() (bool, error)
	SetSolenoid(on bool) error
	SetIndicator(on bool) error
}

// Rig is an opened grid plus lines together with their release functions.
type Rig struct {
	Grid  Grid
	Lines Lines

	closers []func() error
}

// NewRig bundles already opened devices. Closers run in reverse order on Close.
func NewRig(grid Grid, lines Lines, closers ...func() error) *Rig {
	return &Rig{
		Grid:    grid,
		Lines:   lines,
		closers: closers,
	}
}

// Close releases every device, newest first, and reports all failures.
func (r *Rig) Close() error {
	var errs []error

	for _, closeFn := range slices.Backward(r.closers) {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}

	r.closers = nil

	return errors.Join(errs...)
}

// WriteLEDs refreshes the whole grid, in one transaction when the grid supports it.
func WriteLEDs(grid Grid, leds []bool) error {
	if fw, ok := grid.(FrameWriter); ok {
		return fw.WriteFrame(leds)
	}

	for cell, on := range leds {
		if err := grid.SetLED(cell, on); err != nil {
			return err
		}
	}

	return nil
}

// OpenHardware opens the configured grid and the GPIO lines.
func OpenHardware(ctx context.Context, cfg *config.Config) (*Rig, error) {
	var (
		grid      Grid
		gridClose func() error
	)

	switch cfg.Grid.Driver {
	case config.DriverTrellis:
		board, closeBus, err := trellis.Open(cfg.Grid.I2CBus, cfg.Grid.I2CAddress)
		if err != nil {
			return nil, fmt.Errorf("open trellis: %w", err)
		}

		grid, gridClose = board, func() error {
			_ = board.Fill(false) //nolint:errcheck // Best effort before the bus goes away.

			return closeBus()
		}
	case config.DriverLaunchpad:
		pad, err := launchpad.Open(cfg.Grid.MIDIPort)
		if err != nil {
			return nil, fmt.Errorf("open launchpad: %w", err)
		}

		grid, gridClose = pad, pad.Close
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Grid.Driver)
	}

	lines, err := gpio.Open(cfg.GPIO.ConfirmPin, cfg.GPIO.IndicatorPin, cfg.GPIO.SolenoidPin)
	if err != nil {
		_ = gridClose() //nolint:errcheck // The open error is the one worth reporting.

		return nil, fmt.Errorf("open gpio lines: %w", err)
	}

	logger.InfoKV(ctx, "Hardware opened",
		"driver", cfg.Grid.Driver,
		"confirm_pin", cfg.GPIO.ConfirmPin,
		"indicator_pin", cfg.GPIO.IndicatorPin,
		"solenoid_pin", cfg.GPIO.SolenoidPin,
	)

	return NewRig(grid, lines, gridClose, lines.Close), nil
}

// OpenSimulator takes over the terminal and uses it as both grid and lines.
// quit is called when the player presses Esc or Ctrl-C.
func OpenSimulator(ctx context.Context, quit func()) (*Rig, error) {
	panel, err := terminal.Open(quit)
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}

	logger.Info(ctx, "Terminal simulator opened")

	return NewRig(panel, panel, panel.Close), nil
}
