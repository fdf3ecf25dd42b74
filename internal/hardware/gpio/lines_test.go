package gpio

import (
	"testing"

	"github.com/stianeikeland/go-rpio/v4"
	"github.com/stretchr/testify/require"
)

// fakePin keeps a level in memory.
type fakePin struct {
	level rpio.State
}

// Read returns the stored level.
func (p *fakePin) Read() rpio.State { return p.level }

// High stores a high level.
func (p *fakePin) High() { p.level = rpio.High }

// Low stores a low level.
func (p *fakePin) Low() { p.level = rpio.Low }

// TestConfirmIsActiveLow checks the pulled-up button reads pressed when low.
func TestConfirmIsActiveLow(t *testing.T) {
	t.Parallel()

	confirm := &fakePin{level: rpio.High}
	lines := NewLines(confirm, new(fakePin), new(fakePin))

	pressed, err := lines.ConfirmPressed()
	require.NoError(t, err)
	require.False(t, pressed)

	confirm.level = rpio.Low
	pressed, err = lines.ConfirmPressed()
	require.NoError(t, err)
	require.True(t, pressed)
}

// TestOutputsAndClose checks output levels and the safe state on close.
func TestOutputsAndClose(t *testing.T) {
	t.Parallel()

	indicator, solenoid := new(fakePin), new(fakePin)
	lines := NewLines(new(fakePin), indicator, solenoid)

	require.NoError(t, lines.SetIndicator(true))
	require.NoError(t, lines.SetSolenoid(true))
	require.Equal(t, rpio.High, indicator.level)
	require.Equal(t, rpio.High, solenoid.level)

	require.NoError(t, lines.SetSolenoid(false))
	require.Equal(t, rpio.Low, solenoid.level)

	require.NoError(t, lines.SetSolenoid(true))
	require.NoError(t, lines.Close())
	require.Equal(t, rpio.Low, indicator.level)
	require.Equal(t, rpio.Low, solenoid.level)
}
