package puzzle

import (
	"errors"
	"fmt"
)

// noCell marks the absence of a completing cell.
const noCell = -1

var (
	// ErrEmptySecret is returned when the secret sequence has no steps.
	ErrEmptySecret = errors.New("secret sequence is empty")
	// ErrLayoutMismatch is returned when clips and durations do not describe the same cells.
	ErrLayoutMismatch = errors.New("clip and duration counts differ")
	// ErrNegativeDuration is returned for a clip with a negative tick length.
	ErrNegativeDuration = errors.New("clip duration is negative")
	// ErrUnknownClip is returned when the secret refers to a clip no cell plays.
	ErrUnknownClip = errors.New("secret refers to an unassigned clip")
)

// Session is the complete mutable state of one puzzle run.
// It is owned by the polling loop and mutated only through Tick.
type Session struct {
	// Secret is the clip order the player has to reproduce.
	Secret []int
	// Cells holds the illumination state per grid position.
	Cells []Cell
	// Progress is the position in the secret sequence.
	Progress Progress
	// CompletedPending is set when the sequence was solved and the
	// completion clip has not been played yet.
	CompletedPending bool
	// Listen opens the actuator gate. It is set on completion and cleared
	// by the next press that does not complete the sequence.
	Listen bool
	// CompletingCell is the cell whose press solved the sequence, or -1.
	CompletingCell int
	// Actuator drives the solenoid and the confirm indicator.
	Actuator Actuator
}

// Input is what the loop read from the hardware during one tick.
type Input struct {
	// Pressed holds the cells that went from released to pressed.
	Pressed CellSet
	// Confirm is the current level of the confirm button.
	Confirm bool
}

// Press describes one processed button press.
type Press struct {
	// Cell is the grid position that was pressed.
	Cell int
	// Clip is the clip assigned to that cell.
	Clip int
	// Outcome is how the press affected the sequence.
	Outcome Outcome
	// Cursor is the sequence position after the press.
	Cursor int
}

// Output is everything the loop has to apply after a tick.
type Output struct {
	// LEDs is the full LED frame, one entry per cell.
	LEDs []bool
	// Solenoid energizes the lock.
	Solenoid bool
	// Indicator lights the confirm button.
	Indicator bool
	// Presses lists processed presses in ascending cell order; each one
	// triggers the clip of its cell.
	Presses []Press
	// Completed pulses for exactly the tick in which the sequence was solved.
	Completed bool
	// StopCompletion asks to silence the completion clip after a wrong press.
	StopCompletion bool
	// PlayCompletion asks to start the completion clip.
	PlayCompletion bool
	// Actuator is the actuator phase after this tick.
	Actuator ActuatorState
}

// NewSession creates a session for the given secret and cell layout.
// clips[i] is the clip identifier of cell i and durations[i] its length in ticks.
func NewSession(secret, clips, durations []int) (*Session, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	if len(clips) != len(durations) {
		return nil, fmt.Errorf("%w: %d clips, %d durations", ErrLayoutMismatch, len(clips), len(durations))
	}

	assigned := make(map[int]struct{}, len(clips))
	cells := make([]Cell, len(clips))

	for i, clip := range clips {
		if durations[i] < 0 {
			return nil, fmt.Errorf("%w: cell %d", ErrNegativeDuration, i)
		}

		assigned[clip] = struct{}{}
		cells[i] = Cell{
			Clip:          clip,
			DurationTicks: durations[i],
		}
	}

	for step, clip := range secret {
		if _, ok := assigned[clip]; !ok {
			return nil, fmt.Errorf("%w: step %d wants clip %d", ErrUnknownClip, step, clip)
		}
	}

	return &Session{
		Secret:         append([]int(nil), secret...),
		Cells:          cells,
		CompletingCell: noCell,
	}, nil
}

// Tick advances the session by one polling period.
//
// Presses are handled first in ascending cell order, then every cell runs
// its illumination rule, then the deferred completion check, and finally
// the actuator.
func (s *Session) Tick(in Input) Output {
	out := Output{
		LEDs: make([]bool, len(s.Cells)),
	}

	for _, cell := range in.Pressed.Cells() {
		if cell >= len(s.Cells) {
			continue
		}

		out.Presses = append(out.Presses, s.press(cell, &out))
	}

	for i := range s.Cells {
		s.Cells[i].Advance(s.Progress.InSequence)
		out.LEDs[i] = s.Cells[i].Lit
	}

	// The completion clip waits until the completing cell has finished its
	// own illumination window, so the last note is not talked over.
	if s.CompletedPending && s.Cells[s.CompletingCell].RemainingTicks == 0 {
		out.PlayCompletion = true
		s.CompletedPending = false
	}

	lines := s.Actuator.Step(s.Listen, in.Confirm)
	out.Solenoid = lines.Solenoid
	out.Indicator = lines.Indicator
	out.Actuator = s.Actuator.State

	return out
}

// press applies a single button press to the session.
func (s *Session) press(cell int, out *Output) Press {
	c := &s.Cells[cell]
	c.Press()

	outcome := s.Progress.Press(s.Secret, c.Clip)

	switch outcome {
	case OutcomeCompleted:
		out.Completed = true
		s.CompletedPending = true
		s.Listen = true
		s.CompletingCell = cell
	case OutcomeReset:
		out.StopCompletion = true

		fallthrough
	default:
		out.Completed = false
		s.CompletedPending = false
		s.Listen = false
	}

	return Press{
		Cell:    cell,
		Clip:    c.Clip,
		Outcome: outcome,
		Cursor:  s.Progress.Cursor,
	}
}
