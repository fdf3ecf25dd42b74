package puzzle

// ActuatorState is the phase of the unlock actuator.
type ActuatorState int

const (
	// ActuatorIdle means the sequence is not solved; everything is off.
	ActuatorIdle ActuatorState = iota
	// ActuatorArmed means the sequence is solved and the indicator invites a press.
	ActuatorArmed
	// ActuatorEnergizing means the confirm button is held and the solenoid pulls.
	ActuatorEnergizing
	// ActuatorCutOff means the button is still held past the energize limit.
	ActuatorCutOff
)

// String implements fmt.Stringer.
func (s ActuatorState) String() string {
	switch s {
	case ActuatorIdle:
		return "idle"
	case ActuatorArmed:
		return "armed"
	case ActuatorEnergizing:
		return "energizing"
	case ActuatorCutOff:
		return "cut-off"
	default:
		return "unknown"
	}
}

// Actuator gates the solenoid lock behind the confirm button.
type Actuator struct {
	// EnergizeCount is the number of consecutive ticks the solenoid was energized.
	EnergizeCount int
	// State is the phase reached on the last step.
	State ActuatorState
}

// ActuatorOutput is what the actuator drives on its two output lines.
type ActuatorOutput struct {
	// Solenoid energizes the lock.
	Solenoid bool
	// Indicator lights the confirm button.
	Indicator bool
}

// Step advances the actuator by one tick.
// listen opens the gate after a solved sequence, confirm is the button level.
func (a *Actuator) Step(listen, confirm bool) ActuatorOutput {
	switch {
	case !listen:
		a.EnergizeCount = 0
		a.State = ActuatorIdle

		return ActuatorOutput{}
	case confirm:
		if a.EnergizeCount < EnergizeLimit {
			a.EnergizeCount++
			a.State = ActuatorEnergizing

			return ActuatorOutput{Solenoid: true}
		}

		a.State = ActuatorCutOff

		return ActuatorOutput{}
	default:
		a.EnergizeCount = 0
		a.State = ActuatorArmed

		return ActuatorOutput{Indicator: true}
	}
}
