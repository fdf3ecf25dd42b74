package selftest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/soundlock/internal/domain/puzzle"
)

var errTestI2C = errors.New("nack")

// scriptGrid records every LED operation as a short string.
type scriptGrid struct {
	ops    []string
	failOn string
	cancel func()
}

func (g *scriptGrid) record(op string) error {
	g.ops = append(g.ops, op)

	if op == g.failOn {
		if g.cancel != nil {
			g.cancel()

			return nil
		}

		return errTestI2C
	}

	return nil
}

func (g *scriptGrid) Poll() (puzzle.CellSet, error) { return 0, nil }

func (g *scriptGrid) SetLED(cell int, on bool) error {
	return g.record(fmt.Sprintf("led %d %t", cell, on))
}

func (g *scriptGrid) Fill(on bool) error {
	return g.record(fmt.Sprintf("fill %t", on))
}

var fastTiming = Timing{Hold: time.Millisecond, Step: time.Microsecond}

// TestPlay_Pattern checks the full order of operations.
func TestPlay_Pattern(t *testing.T) {
	t.Parallel()

	grid := new(scriptGrid)
	require.NoError(t, Play(context.Background(), grid, fastTiming))

	want := []string{"fill true", "fill false"}
	for cell := range puzzle.GridSize {
		want = append(want, fmt.Sprintf("led %d true", cell))
	}

	for cell := puzzle.GridSize - 1; cell >= 0; cell-- {
		want = append(want, fmt.Sprintf("led %d false", cell))
	}

	require.Equal(t, want, grid.ops)
}

// TestPlay_StopsOnCancel checks a canceled context ends the pattern.
func TestPlay_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	grid := &scriptGrid{failOn: "led 3 true", cancel: cancel}

	err := Play(ctx, grid, Timing{Hold: time.Millisecond, Step: time.Millisecond})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, "led 3 true", grid.ops[len(grid.ops)-1])
}

// TestPlay_GridErrors checks hardware failures are reported.
func TestPlay_GridErrors(t *testing.T) {
	t.Parallel()

	grid := &scriptGrid{failOn: "fill false"}
	require.ErrorIs(t, Play(context.Background(), grid, fastTiming), errTestI2C)
	require.Len(t, grid.ops, 2)

	grid = &scriptGrid{failOn: "led 7 false"}
	require.ErrorIs(t, Play(context.Background(), grid, fastTiming), errTestI2C)
}
