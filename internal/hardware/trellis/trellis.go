package trellis

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/oshokin/soundlock/internal/domain/puzzle"
)

// HT16K33 commands.
const (
	cmdOscillatorOn   = 0x21
	cmdDisplayOn      = 0x81
	cmdBrightnessMax  = 0xEF
	cmdInterruptOn    = 0xA1
	regDisplay        = 0x00
	regKeys           = 0x40
	keyBytes          = 6
	displayRows       = 8
	cellCount         = 16
	displayFrameBytes = 1 + 2*displayRows
)

var (
	// ledLUT maps a cell to its HT16K33 display RAM bit (row<<4 | column).
	//nolint:gochecknoglobals // Fixed board wiring table.
	ledLUT = [cellCount]byte{
		0x3A, 0x37, 0x35, 0x34,
		0x28, 0x29, 0x23, 0x24,
		0x16, 0x1B, 0x11, 0x10,
		0x0E, 0x0D, 0x0C, 0x02,
	}
	// keyLUT maps a cell to its HT16K33 key RAM bit (byte<<4 | bit).
	//nolint:gochecknoglobals // Fixed board wiring table.
	keyLUT = [cellCount]byte{
		0x07, 0x04, 0x02, 0x22,
		0x05, 0x06, 0x00, 0x01,
		0x03, 0x10, 0x30, 0x21,
		0x13, 0x12, 0x11, 0x31,
	}
)

// ErrCellOutOfRange is returned for an LED index the board does not have.
var ErrCellOutOfRange = errors.New("cell out of range")

// Conn is the I2C device the board answers on; *i2c.Dev satisfies it.
type Conn interface {
	Tx(w, r []byte) error
}

// Board is one Trellis keypad.
type Board struct {
	conn    Conn
	display [displayRows]uint16
	held    puzzle.CellSet
}

// New wraps an already addressed connection. Call Init before use.
func New(conn Conn) *Board {
	return &Board{conn: conn}
}

// Open initialises the periph host drivers, opens the named bus (empty for
// the first one) and brings up the board at addr. The returned function
// closes the bus.
func Open(busName string, addr uint16) (*Board, func() error, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	board := New(&i2c.Dev{Bus: bus, Addr: addr})
	if err := board.Init(); err != nil {
		_ = bus.Close()

		return nil, nil, err
	}

	return board, bus.Close, nil
}

// Init starts the oscillator, enables the display at full brightness,
// enables key scanning and clears all LEDs.
func (b *Board) Init() error {
	for _, cmd := range []byte{cmdOscillatorOn, cmdDisplayOn, cmdBrightnessMax, cmdInterruptOn} {
		if err := b.conn.Tx([]byte{cmd}, nil); err != nil {
			return fmt.Errorf("trellis command %#x: %w", cmd, err)
		}
	}

	// Prime the key state so buttons held during boot are not reported.
	if _, err := b.readKeys(); err != nil {
		return err
	}

	return b.Fill(false)
}

// Poll returns the cells pressed since the previous poll.
func (b *Board) Poll() (puzzle.CellSet, error) {
	held, err := b.readKeys()
	if err != nil {
		return 0, err
	}

	pressed := held &^ b.held
	b.held = held

	return pressed, nil
}

// SetLED switches one LED and writes the display.
func (b *Board) SetLED(cell int, on bool) error {
	if cell < 0 || cell >= cellCount {
		return fmt.Errorf("%w: %d", ErrCellOutOfRange, cell)
	}

	b.setBit(cell, on)

	return b.writeDisplay()
}

// Fill switches every LED.
func (b *Board) Fill(on bool) error {
	for cell := range cellCount {
		b.setBit(cell, on)
	}

	return b.writeDisplay()
}

// WriteFrame sets all LEDs from frame in a single bus transaction.
// Cells missing from frame are switched off.
func (b *Board) WriteFrame(frame []bool) error {
	for cell := range cellCount {
		b.setBit(cell, cell < len(frame) && frame[cell])
	}

	return b.writeDisplay()
}

// setBit updates the display RAM shadow for cell.
func (b *Board) setBit(cell int, on bool) {
	addr := ledLUT[cell]
	mask := uint16(1) << (addr & 0x0F)

	if on {
		b.display[addr>>4] |= mask
	} else {
		b.display[addr>>4] &^= mask
	}
}

// writeDisplay pushes the RAM shadow to the controller.
func (b *Board) writeDisplay() error {
	var frame [displayFrameBytes]byte

	frame[0] = regDisplay
	for row, bits := range b.display {
		frame[1+2*row] = byte(bits)
		frame[2+2*row] = byte(bits >> 8)
	}

	if err := b.conn.Tx(frame[:], nil); err != nil {
		return fmt.Errorf("write trellis display: %w", err)
	}

	return nil
}

// readKeys returns the cells currently held down.
func (b *Board) readKeys() (puzzle.CellSet, error) {
	var raw [keyBytes]byte
	if err := b.conn.Tx([]byte{regKeys}, raw[:]); err != nil {
		return 0, fmt.Errorf("read trellis keys: %w", err)
	}

	return decodeKeys(raw), nil
}

// decodeKeys converts key RAM into the set of held cells.
func decodeKeys(raw [keyBytes]byte) puzzle.CellSet {
	var held puzzle.CellSet

	for cell, addr := range keyLUT {
		if raw[addr>>4]&(1<<(addr&0x0F)) != 0 {
			held = held.With(cell)
		}
	}

	return held
}
