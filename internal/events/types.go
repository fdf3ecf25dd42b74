package events

import (
	"time"

	"github.com/oshokin/soundlock/internal/domain/puzzle"
)

// Event type constants for kelindar/event.
const (
	TypeCellPressed uint32 = iota + 1
	TypeSequenceCompleted
	TypeCompletionPlayed
	TypeActuatorChanged
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// CellPressed is published for every processed grid press.
type CellPressed struct {
	// At is the wall time of the tick that saw the press.
	At time.Time
	// Cell is the grid position.
	Cell int
	// Clip is the clip identifier assigned to the cell.
	Clip int
	// Outcome is the effect on the sequence.
	Outcome puzzle.Outcome
	// Cursor is the sequence position after the press.
	Cursor int
}

// Type returns the event type identifier for CellPressed.
func (e CellPressed) Type() uint32 { return TypeCellPressed }

// SequenceCompleted is published on the tick the secret order was entered.
type SequenceCompleted struct {
	At   time.Time
	Cell int
}

// Type returns the event type identifier for SequenceCompleted.
func (e SequenceCompleted) Type() uint32 { return TypeSequenceCompleted }

// CompletionPlayed is published when the completion clip starts.
type CompletionPlayed struct {
	At time.Time
}

// Type returns the event type identifier for CompletionPlayed.
func (e CompletionPlayed) Type() uint32 { return TypeCompletionPlayed }

// ActuatorChanged is published when the unlock actuator changes phase.
type ActuatorChanged struct {
	At   time.Time
	From puzzle.ActuatorState
	To   puzzle.ActuatorState
	// EnergizeCount is the counter value after the transition.
	EnergizeCount int
}

// Type returns the event type identifier for ActuatorChanged.
func (e ActuatorChanged) Type() uint32 { return TypeActuatorChanged }
