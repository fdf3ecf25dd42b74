package launchpad

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/oshokin/soundlock/internal/domain/puzzle"
)

var errTestPort = errors.New("port closed")

// recorder collects outgoing messages.
type recorder struct {
	sent []gomidi.Message
	err  error
}

// send implements the MIDI send function.
func (r *recorder) send(msg gomidi.Message) error {
	if r.err != nil {
		return r.err
	}

	r.sent = append(r.sent, msg)

	return nil
}

// TestNoteMapping checks the 4x4 corner round-trips and everything else is ignored.
func TestNoteMapping(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint8(41), cellToNote(0))
	require.Equal(t, uint8(44), cellToNote(3))
	require.Equal(t, uint8(11), cellToNote(12))
	require.Equal(t, uint8(14), cellToNote(15))

	for cell := range cellCount {
		got, ok := noteToCell(cellToNote(cell))
		require.True(t, ok)
		require.Equal(t, cell, got)
	}

	for _, note := range []uint8{0, 10, 15, 51, 81, 99} {
		_, ok := noteToCell(note)
		require.False(t, ok, "note %d", note)
	}
}

// TestPoll_BuffersPressesUntilRead checks presses accumulate between polls.
func TestPoll_BuffersPressesUntilRead(t *testing.T) {
	t.Parallel()

	pad := newPad(new(recorder).send)

	pad.handle(gomidi.NoteOn(0, cellToNote(2), 100))
	pad.handle(gomidi.NoteOn(0, cellToNote(9), 64))
	// Releases, off-grid pads and other messages are dropped.
	pad.handle(gomidi.NoteOn(0, cellToNote(5), 0))
	pad.handle(gomidi.NoteOff(0, cellToNote(6)))
	pad.handle(gomidi.NoteOn(0, 88, 100))
	pad.handle(gomidi.ControlChange(0, 91, 127))

	pressed, err := pad.Poll()
	require.NoError(t, err)
	require.Equal(t, puzzle.NewCellSet(2, 9), pressed)

	pressed, err = pad.Poll()
	require.NoError(t, err)
	require.True(t, pressed.Empty())
}

// TestSetLED_SendsPaletteColors checks lit and dark pads.
func TestSetLED_SendsPaletteColors(t *testing.T) {
	t.Parallel()

	rec := new(recorder)
	pad := newPad(rec.send)

	require.NoError(t, pad.SetLED(0, true))
	require.NoError(t, pad.SetLED(0, false))
	require.ErrorIs(t, pad.SetLED(cellCount, true), ErrCellOutOfRange)

	require.Equal(t, gomidi.NoteOn(0, 41, colorLit), rec.sent[0])
	require.Equal(t, gomidi.NoteOn(0, 41, colorOff), rec.sent[1])

	rec.sent = nil
	require.NoError(t, pad.Fill(true))
	require.Len(t, rec.sent, cellCount)
}

// TestSendErrorsPropagate checks output failures reach the caller.
func TestSendErrorsPropagate(t *testing.T) {
	t.Parallel()

	pad := newPad((&recorder{err: errTestPort}).send)

	require.ErrorIs(t, pad.SetLED(3, true), errTestPort)
	require.ErrorIs(t, pad.Fill(false), errTestPort)
}

// TestStart_ClosesDriverOnFailure checks every failed bring-up step releases the driver.
func TestStart_ClosesDriverOnFailure(t *testing.T) {
	t.Parallel()

	listenOK := func(func(gomidi.Message, int32)) (func(), error) { return func() {}, nil }
	listenFail := func(func(gomidi.Message, int32)) (func(), error) { return nil, errTestPort }

	failSecond := func() func(gomidi.Message) error {
		calls := 0

		return func(gomidi.Message) error {
			calls++
			if calls == 2 {
				return errTestPort
			}

			return nil
		}
	}

	cases := []struct {
		name   string
		send   func(gomidi.Message) error
		listen listenFunc
	}{
		{name: "programmer mode", send: (&recorder{err: errTestPort}).send, listen: listenOK},
		{name: "brightness", send: failSecond(), listen: listenOK},
		{name: "input", send: new(recorder).send, listen: listenFail},
	}

	for _, tc := range cases {
		closed := 0

		pad, err := start(tc.send, tc.listen, func() { closed++ })
		require.ErrorIs(t, err, errTestPort, tc.name)
		require.Nil(t, pad, tc.name)
		require.Equal(t, 1, closed, tc.name)
	}
}

// TestStart_SetsUpAndCloses checks the bring-up messages and the teardown.
func TestStart_SetsUpAndCloses(t *testing.T) {
	t.Parallel()

	var (
		rec     = new(recorder)
		recv    func(gomidi.Message, int32)
		stopped int
		closed  int
	)

	listen := func(r func(gomidi.Message, int32)) (func(), error) {
		recv = r

		return func() { stopped++ }, nil
	}

	pad, err := start(rec.send, listen, func() { closed++ })
	require.NoError(t, err)
	require.Zero(t, closed)
	require.Equal(t, gomidi.SysEx(programmerMode), rec.sent[0])
	require.Equal(t, gomidi.SysEx(fullBrightness), rec.sent[1])

	recv(gomidi.NoteOn(0, cellToNote(6), 90), 0)

	pressed, err := pad.Poll()
	require.NoError(t, err)
	require.Equal(t, puzzle.NewCellSet(6), pressed)

	require.NoError(t, pad.Close())
	require.Equal(t, 1, stopped)
	require.Equal(t, 1, closed)
}
