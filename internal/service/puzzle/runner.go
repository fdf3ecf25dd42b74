package puzzle

import (
	"context"
	"fmt"
	"time"

	domain "github.com/oshokin/soundlock/internal/domain/puzzle"
	"github.com/oshokin/soundlock/internal/events"
	"github.com/oshokin/soundlock/internal/logger"
	"github.com/oshokin/soundlock/internal/service/common"
)

// Sounds plays the clips the session asks for.
type Sounds interface {
	Trigger(cell int)
	PlayCompletion()
	StopCompletion()
}

// Runner applies session ticks to the devices.
// It is owned by a single goroutine.
type Runner struct {
	session *domain.Session
	grid    common.Grid
	lines   common.Lines
	sounds  Sounds
	bus     *events.Bus
	now     func() time.Time

	// actuator is the phase reported by the previous tick.
	actuator domain.ActuatorState
	// heartbeat is called after every completed tick.
	heartbeat func()
}

// NewRunner wires a session to its devices. bus may be nil.
func NewRunner(session *domain.Session, grid common.Grid, lines common.Lines, sounds Sounds, bus *events.Bus) *Runner {
	return &Runner{
		session:   session,
		grid:      grid,
		lines:     lines,
		sounds:    sounds,
		bus:       bus,
		now:       time.Now,
		actuator:  session.Actuator.State,
		heartbeat: func() {},
	}
}

// Step performs one tick: read the inputs, advance the session, write the
// LEDs and lines, start clips and publish what happened.
func (r *Runner) Step(ctx context.Context) error {
	pressed, err := r.grid.Poll()
	if err != nil {
		return fmt.Errorf("poll grid: %w", err)
	}

	if !pressed.Empty() {
		logger.DebugKV(ctx, "Grid polled", "pressed", pressed.Cells())
	}

	confirm, err := r.lines.ConfirmPressed()
	if err != nil {
		return fmt.Errorf("read confirm button: %w", err)
	}

	out := r.session.Tick(domain.Input{
		Pressed: pressed,
		Confirm: confirm,
	})

	if err = common.WriteLEDs(r.grid, out.LEDs); err != nil {
		return fmt.Errorf("write leds: %w", err)
	}

	if err = r.lines.SetSolenoid(out.Solenoid); err != nil {
		return fmt.Errorf("drive solenoid: %w", err)
	}

	if err = r.lines.SetIndicator(out.Indicator); err != nil {
		return fmt.Errorf("drive indicator: %w", err)
	}

	for _, press := range out.Presses {
		r.sounds.Trigger(press.Cell)
	}

	if out.StopCompletion {
		r.sounds.StopCompletion()
	}

	if out.PlayCompletion {
		r.sounds.PlayCompletion()
	}

	r.publish(out)

	return nil
}

// Loop calls Step every period until ctx is canceled or a device fails.
// Either way the lock is released and the grid darkened before returning;
// cancellation is not an error.
func (r *Runner) Loop(ctx context.Context, period time.Duration) error {
	defer r.shutdown(ctx)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.C:
			if err := r.Step(ctx); err != nil {
				logger.ErrorKV(ctx, "Puzzle stopped on device failure", "error", err)

				return err
			}

			r.heartbeat()
		}
	}
}

// shutdown de-energizes every output, best effort.
func (r *Runner) shutdown(ctx context.Context) {
	if err := r.lines.SetSolenoid(false); err != nil {
		logger.ErrorKV(ctx, "Release solenoid failed", "error", err)
	}

	if err := r.lines.SetIndicator(false); err != nil {
		logger.ErrorKV(ctx, "Switch indicator off failed", "error", err)
	}

	if err := r.grid.Fill(false); err != nil {
		logger.ErrorKV(ctx, "Darken grid failed", "error", err)
	}
}

// publish turns a tick output into bus events.
func (r *Runner) publish(out domain.Output) {
	from := r.actuator
	r.actuator = out.Actuator

	if r.bus == nil {
		return
	}

	at := r.now()

	for _, press := range out.Presses {
		r.bus.Publish(events.CellPressed{
			At:      at,
			Cell:    press.Cell,
			Clip:    press.Clip,
			Outcome: press.Outcome,
			Cursor:  press.Cursor,
		})
	}

	if out.Completed {
		r.bus.Publish(events.SequenceCompleted{
			At:   at,
			Cell: r.session.CompletingCell,
		})
	}

	if out.PlayCompletion {
		r.bus.Publish(events.CompletionPlayed{At: at})
	}

	if out.Actuator != from {
		r.bus.Publish(events.ActuatorChanged{
			At:            at,
			From:          from,
			To:            out.Actuator,
			EnergizeCount: r.session.Actuator.EnergizeCount,
		})
	}
}
