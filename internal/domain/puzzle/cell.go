package puzzle

// Cell is the illumination state of one grid button.
type Cell struct {
	// Clip is the identifier of the clip assigned to this cell.
	Clip int
	// DurationTicks is the clip length expressed in ticks.
	DurationTicks int
	// RemainingTicks counts down the ticks the LED stays lit after a press.
	RemainingTicks int
	// Lit is the LED state written to the grid.
	Lit bool
}

// Press restarts the illumination window of the cell.
func (c *Cell) Press() {
	c.RemainingTicks = c.DurationTicks
}

// Advance applies one tick of the illumination rule.
//
// A running countdown keeps the LED on. Once it is exhausted the LED goes
// dark unless the player is in the middle of a correct sequence, in which
// case the LED keeps whatever state it had.
func (c *Cell) Advance(inSequence bool) {
	switch {
	case c.RemainingTicks > 0:
		c.Lit = true
		c.RemainingTicks--
	case !inSequence:
		c.Lit = false
		c.RemainingTicks = 0
	default:
		c.RemainingTicks = 0
	}
}
