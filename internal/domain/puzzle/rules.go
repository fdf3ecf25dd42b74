package puzzle

import (
	"math"
	"time"
)

const (
	// GridSize is the number of buttons on the production grid.
	GridSize = 16
	// TickPeriod is the fixed period of one polling loop iteration.
	TickPeriod = 100 * time.Millisecond
	// EnergizeLimit is the number of consecutive ticks the solenoid may stay
	// energized while the confirm button is held.
	EnergizeLimit = 100
)

// DurationTicks converts a clip length into whole polling ticks,
// rounding to the nearest tick and halves to even.
func DurationTicks(d time.Duration) int {
	if d <= 0 {
		return 0
	}

	return int(math.RoundToEven(float64(d) / float64(TickPeriod)))
}

// IdentitySequence returns the secret sequence 0, 1, ..., n-1.
func IdentitySequence(n int) []int {
	seq := make([]int, n)
	for i := range seq {
		seq[i] = i
	}

	return seq
}
