package launchpad

import (
	"errors"
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver.

	"github.com/oshokin/soundlock/internal/domain/puzzle"
)

const (
	// side is the edge length of the emulated keypad.
	side = 4
	// cellCount is the number of emulated cells.
	cellCount = side * side
	// colorOff is the palette index of a dark pad.
	colorOff = 0
	// colorLit is the palette index used for a lit cell (warm yellow).
	colorLit = 13
)

// ErrCellOutOfRange is returned for an LED index outside the emulated keypad.
var ErrCellOutOfRange = errors.New("cell out of range")

// Launchpad X SysEx payloads (without the F0/F7 framing).
//
//nolint:gochecknoglobals // Fixed SysEx payloads.
var (
	programmerMode = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}
	fullBrightness = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}
)

// Pad is a Launchpad acting as the 4x4 grid.
type Pad struct {
	send        func(msg gomidi.Message) error
	stop        func()
	closeDriver func()

	mu      sync.Mutex
	pending puzzle.CellSet
}

// newPad builds a pad around a MIDI send function.
func newPad(send func(msg gomidi.Message) error) *Pad {
	return &Pad{
		send:        send,
		stop:        func() {},
		closeDriver: func() {},
	}
}

// listenFunc starts delivering incoming messages to recv and returns the
// function that stops it.
type listenFunc func(recv func(msg gomidi.Message, timestampms int32)) (func(), error)

// Open finds the in and out ports whose names contain portName, switches
// the device to programmer mode and starts listening for pads.
// On failure the MIDI driver is closed again.
func Open(portName string) (*Pad, error) {
	in, err := gomidi.FindInPort(portName)
	if err != nil {
		gomidi.CloseDriver()

		return nil, fmt.Errorf("find midi input %q: %w", portName, err)
	}

	out, err := gomidi.FindOutPort(portName)
	if err != nil {
		gomidi.CloseDriver()

		return nil, fmt.Errorf("find midi output %q: %w", portName, err)
	}

	send, err := gomidi.SendTo(out)
	if err != nil {
		gomidi.CloseDriver()

		return nil, fmt.Errorf("open midi output: %w", err)
	}

	listen := func(recv func(msg gomidi.Message, timestampms int32)) (func(), error) {
		return gomidi.ListenTo(in, recv)
	}

	return start(send, listen, gomidi.CloseDriver)
}

// start configures the device through send and subscribes to its input.
// closeDriver runs on failure and later on Close.
func start(send func(msg gomidi.Message) error, listen listenFunc, closeDriver func()) (*Pad, error) {
	pad := newPad(send)
	pad.closeDriver = closeDriver

	if err := pad.send(gomidi.SysEx(programmerMode)); err != nil {
		closeDriver()

		return nil, fmt.Errorf("enter programmer mode: %w", err)
	}

	if err := pad.send(gomidi.SysEx(fullBrightness)); err != nil {
		closeDriver()

		return nil, fmt.Errorf("set brightness: %w", err)
	}

	stop, err := listen(func(msg gomidi.Message, _ int32) {
		pad.handle(msg)
	})
	if err != nil {
		closeDriver()

		return nil, fmt.Errorf("open midi input: %w", err)
	}

	pad.stop = stop

	return pad, nil
}

// handle records pad presses from an incoming message.
func (p *Pad) handle(msg gomidi.Message) {
	var channel, key, velocity uint8

	if !msg.GetNoteOn(&channel, &key, &velocity) || velocity == 0 {
		return
	}

	cell, ok := noteToCell(key)
	if !ok {
		return
	}

	p.mu.Lock()
	p.pending = p.pending.With(cell)
	p.mu.Unlock()
}

// Poll returns the pads pressed since the previous poll.
func (p *Pad) Poll() (puzzle.CellSet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pending := p.pending
	p.pending = 0

	return pending, nil
}

// SetLED lights or darkens the pad of cell.
func (p *Pad) SetLED(cell int, on bool) error {
	if cell < 0 || cell >= cellCount {
		return fmt.Errorf("%w: %d", ErrCellOutOfRange, cell)
	}

	color := uint8(colorOff)
	if on {
		color = colorLit
	}

	if err := p.send(gomidi.NoteOn(0, cellToNote(cell), color)); err != nil {
		return fmt.Errorf("set pad %d: %w", cell, err)
	}

	return nil
}

// Fill lights or darkens every pad of the grid.
func (p *Pad) Fill(on bool) error {
	for cell := range cellCount {
		if err := p.SetLED(cell, on); err != nil {
			return err
		}
	}

	return nil
}

// Close darkens the grid, stops listening and closes the MIDI driver.
func (p *Pad) Close() error {
	err := p.Fill(false)

	p.stop()
	p.closeDriver()

	return err
}

// cellToNote maps a cell (row-major, top row first) to a programmer-mode
// note. Programmer notes are row*10+column with row 1 at the bottom.
func cellToNote(cell int) uint8 {
	row, col := cell/side, cell%side

	return uint8((side-row)*10 + col + 1)
}

// noteToCell is the inverse of cellToNote for notes inside the 4x4 corner.
func noteToCell(note uint8) (int, bool) {
	row, col := int(note)/10, int(note)%10
	if row < 1 || row > side || col < 1 || col > side {
		return 0, false
	}

	return (side-row)*side + col - 1, true
}
