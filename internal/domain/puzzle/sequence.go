package puzzle

// Outcome is the result of feeding one press into the sequence tracker.
type Outcome int

const (
	// OutcomeAdvanced means the press matched the expected clip.
	OutcomeAdvanced Outcome = iota + 1
	// OutcomeReset means the press did not match and progress was lost.
	OutcomeReset
	// OutcomeCompleted means the press finished the whole sequence.
	OutcomeCompleted
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeAdvanced:
		return "advanced"
	case OutcomeReset:
		return "reset"
	case OutcomeCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Progress tracks how far the player is into the secret sequence.
type Progress struct {
	// Cursor is the number of correct presses in a row, always in [0, len(secret)).
	Cursor int
	// InSequence is true while the last press matched.
	InSequence bool
}

// Press validates a press of the given clip against secret.
// A completed sequence resets the cursor so the next attempt starts over.
func (p *Progress) Press(secret []int, clip int) Outcome {
	if p.Cursor < len(secret) && secret[p.Cursor] == clip {
		p.Cursor++
		p.InSequence = true
	} else {
		p.Cursor = 0
		p.InSequence = false

		return OutcomeReset
	}

	if p.Cursor >= len(secret) {
		p.Cursor = 0
		p.InSequence = false

		return OutcomeCompleted
	}

	return OutcomeAdvanced
}
