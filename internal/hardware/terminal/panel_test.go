package terminal

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/soundlock/internal/domain/puzzle"
)

// newTestPanel returns a panel on an 80x24 simulation screen.
func newTestPanel(t *testing.T, quit func()) (*Panel, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)

	return New(screen, quit), screen
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

// TestHandle_KeysToCells checks the keymap and the confirm latch.
func TestHandle_KeysToCells(t *testing.T) {
	t.Parallel()

	panel, screen := newTestPanel(t, nil)
	defer screen.Fini()

	panel.handle(key('1'))
	panel.handle(key('r'))
	panel.handle(key('v'))
	panel.handle(key('p'))

	pressed, err := panel.Poll()
	require.NoError(t, err)
	require.Equal(t, puzzle.NewCellSet(0, 7, 15), pressed)

	pressed, err = panel.Poll()
	require.NoError(t, err)
	require.True(t, pressed.Empty())

	confirm, err := panel.ConfirmPressed()
	require.NoError(t, err)
	require.False(t, confirm)

	panel.handle(key(' '))

	confirm, err = panel.ConfirmPressed()
	require.NoError(t, err)
	require.True(t, confirm)

	panel.handle(key(' '))

	confirm, err = panel.ConfirmPressed()
	require.NoError(t, err)
	require.False(t, confirm)
}

// TestHandle_EscapeQuits checks both quit keys.
func TestHandle_EscapeQuits(t *testing.T) {
	t.Parallel()

	var quits atomic.Int32

	panel, screen := newTestPanel(t, func() { quits.Add(1) })
	defer screen.Fini()

	panel.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	panel.handle(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))
	require.Equal(t, int32(2), quits.Load())
}

// TestRender_LitPads checks lit pads are drawn with the lit style.
func TestRender_LitPads(t *testing.T) {
	t.Parallel()

	panel, screen := newTestPanel(t, nil)
	defer screen.Fini()

	require.NoError(t, panel.WriteFrame([]bool{true}))

	r, _, style, _ := screen.GetContent(4, 1)
	require.Equal(t, '1', r)
	require.Equal(t, styleLit, style)

	_, _, style, _ = screen.GetContent(4+cellWidth, 1)
	require.Equal(t, styleDark, style)

	require.NoError(t, panel.SetLED(15, true))
	_, _, style, _ = screen.GetContent(4+3*cellWidth, 7)
	require.Equal(t, styleLit, style)

	require.NoError(t, panel.Fill(false))
	_, _, style, _ = screen.GetContent(4, 1)
	require.Equal(t, styleDark, style)

	require.ErrorIs(t, panel.SetLED(-1, true), ErrCellOutOfRange)
}

// TestStart_ReadsInjectedKeys runs the event reader against injected keys.
func TestStart_ReadsInjectedKeys(t *testing.T) {
	t.Parallel()

	panel, screen := newTestPanel(t, nil)
	panel.Start()

	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)

	var seen puzzle.CellSet

	require.Eventually(t, func() bool {
		pressed, err := panel.Poll()
		require.NoError(t, err)

		seen = seen.Union(pressed)

		return seen.Has(8)
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, panel.SetSolenoid(true))
	require.NoError(t, panel.SetIndicator(true))
	require.NoError(t, panel.Close())
}
