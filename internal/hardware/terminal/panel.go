package terminal

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/oshokin/soundlock/internal/domain/puzzle"
)

const (
	// keymap lists the keys of cells 0..15, row by row.
	keymap = "1234qwerasdfzxcv"
	// side is the edge length of the grid.
	side = 4
	// cellWidth is the on-screen width of one pad including the gap.
	cellWidth = 6
	// statusRow is the screen row of the actuator status line.
	statusRow = side*2 + 2
)

// ErrCellOutOfRange is returned for an LED index outside the grid.
var ErrCellOutOfRange = errors.New("cell out of range")

//nolint:gochecknoglobals // Immutable styles.
var (
	styleDark  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleLit   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleOn    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleOff   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleLabel = tcell.StyleDefault
)

// Panel is a simulated grid plus confirm button, indicator and solenoid.
type Panel struct {
	screen tcell.Screen
	quit   func()
	done   chan struct{}

	mu        sync.Mutex
	pending   puzzle.CellSet
	confirm   bool
	leds      [puzzle.GridSize]bool
	solenoid  bool
	indicator bool
}

// New wraps an initialized screen. quit is called when the player asks to leave.
func New(screen tcell.Screen, quit func()) *Panel {
	if quit == nil {
		quit = func() {}
	}

	return &Panel{
		screen: screen,
		quit:   quit,
		done:   make(chan struct{}),
	}
}

// Open initializes the controlling terminal and starts reading keys.
func Open(quit func()) (*Panel, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}

	panel := New(screen, quit)
	panel.Start()

	return panel, nil
}

// Start draws the panel and reads events until the screen is finalized.
func (p *Panel) Start() {
	p.mu.Lock()
	p.render()
	p.mu.Unlock()

	go func() {
		defer close(p.done)

		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}

			p.handle(ev)
		}
	}()
}

// handle applies one terminal event.
func (p *Panel) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			p.quit()

			return
		case tcell.KeyRune:
		default:
			return
		}

		p.mu.Lock()
		defer p.mu.Unlock()

		if ev.Rune() == ' ' {
			p.confirm = !p.confirm
			p.render()

			return
		}

		if cell := strings.IndexRune(keymap, ev.Rune()); cell >= 0 {
			p.pending = p.pending.With(cell)
		}
	case *tcell.EventResize:
		p.mu.Lock()
		defer p.mu.Unlock()

		p.screen.Sync()
		p.render()
	}
}

// Poll returns the cells whose keys were hit since the previous poll.
func (p *Panel) Poll() (puzzle.CellSet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pending := p.pending
	p.pending = 0

	return pending, nil
}

// SetLED lights or darkens one pad.
func (p *Panel) SetLED(cell int, on bool) error {
	if cell < 0 || cell >= puzzle.GridSize {
		return fmt.Errorf("%w: %d", ErrCellOutOfRange, cell)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.leds[cell] = on
	p.render()

	return nil
}

// Fill lights or darkens every pad.
func (p *Panel) Fill(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.leds {
		p.leds[i] = on
	}

	p.render()

	return nil
}

// WriteFrame replaces every pad state with one redraw.
func (p *Panel) WriteFrame(leds []bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.leds {
		p.leds[i] = i < len(leds) && leds[i]
	}

	p.render()

	return nil
}

// ConfirmPressed reports whether the confirm button is latched down.
func (p *Panel) ConfirmPressed() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.confirm, nil
}

// SetSolenoid shows the solenoid line.
func (p *Panel) SetSolenoid(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.solenoid != on {
		p.solenoid = on
		p.render()
	}

	return nil
}

// SetIndicator shows the confirm button light.
func (p *Panel) SetIndicator(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.indicator != on {
		p.indicator = on
		p.render()
	}

	return nil
}

// Close restores the terminal and waits for the event reader to stop.
func (p *Panel) Close() error {
	p.screen.Fini()
	<-p.done

	return nil
}

// render redraws the whole panel. The caller holds p.mu.
func (p *Panel) render() {
	p.screen.Clear()

	for cell, lit := range p.leds {
		style := styleDark
		if lit {
			style = styleLit
		}

		x := 2 + (cell%side)*cellWidth
		y := 1 + (cell/side)*2

		drawText(p.screen, x, y, style, fmt.Sprintf("[ %c ]", keymap[cell]))
	}

	x := drawText(p.screen, 2, statusRow, styleLabel, "solenoid ")
	x = drawText(p.screen, x, statusRow, onOffStyle(p.solenoid), onOff(p.solenoid))
	x = drawText(p.screen, x, statusRow, styleLabel, "  indicator ")
	x = drawText(p.screen, x, statusRow, onOffStyle(p.indicator), onOff(p.indicator))
	x = drawText(p.screen, x, statusRow, styleLabel, "  confirm ")
	drawText(p.screen, x, statusRow, onOffStyle(p.confirm), onOff(p.confirm))

	drawText(p.screen, 2, statusRow+2, styleOff, "keys 1234/qwer/asdf/zxcv  space: confirm  esc: quit")

	p.screen.Show()
}

// drawText writes s starting at x and returns the column after it.
func drawText(screen tcell.Screen, x, y int, style tcell.Style, s string) int {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}

	return x
}

func onOff(on bool) string {
	if on {
		return "ON "
	}

	return "off"
}

func onOffStyle(on bool) tcell.Style {
	if on {
		return styleOn
	}

	return styleOff
}
