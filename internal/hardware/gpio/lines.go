package gpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// Pin is the subset of rpio.Pin the lines use.
type Pin interface {
	Read() rpio.State
	High()
	Low()
}

// Lines groups the three digital lines of the lock.
type Lines struct {
	confirm   Pin
	indicator Pin
	solenoid  Pin
	close     func() error
}

// NewLines wraps already configured pins. The confirm pin is active low.
func NewLines(confirm, indicator, solenoid Pin) *Lines {
	return &Lines{
		confirm:   confirm,
		indicator: indicator,
		solenoid:  solenoid,
		close:     func() error { return nil },
	}
}

// Open maps the GPIO registers and configures the three BCM pins: confirm
// as input with pull-up, indicator and solenoid as outputs driven low.
func Open(confirmPin, indicatorPin, solenoidPin uint8) (*Lines, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}

	confirm := rpio.Pin(confirmPin)
	confirm.Input()
	confirm.PullUp()

	indicator := rpio.Pin(indicatorPin)
	indicator.Output()
	indicator.Low()

	solenoid := rpio.Pin(solenoidPin)
	solenoid.Output()
	solenoid.Low()

	lines := NewLines(confirm, indicator, solenoid)
	lines.close = rpio.Close

	return lines, nil
}

// ConfirmPressed reports whether the confirm button is held.
func (l *Lines) ConfirmPressed() (bool, error) {
	return l.confirm.Read() == rpio.Low, nil
}

// SetIndicator switches the confirm button light.
func (l *Lines) SetIndicator(on bool) error {
	write(l.indicator, on)

	return nil
}

// SetSolenoid energizes or releases the lock.
func (l *Lines) SetSolenoid(on bool) error {
	write(l.solenoid, on)

	return nil
}

// Close drives both outputs low and unmaps the registers.
func (l *Lines) Close() error {
	l.solenoid.Low()
	l.indicator.Low()

	return l.close()
}

// write drives pin to the given level.
func write(pin Pin, on bool) {
	if on {
		pin.High()
	} else {
		pin.Low()
	}
}
