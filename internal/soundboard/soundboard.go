package soundboard

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"time"

	"github.com/oshokin/soundlock/internal/domain/puzzle"
	"github.com/oshokin/soundlock/internal/logger"
)

// CompletionClipName is the file played once the sequence is solved.
const CompletionClipName = "completed.wav"

// ErrCellOutOfRange is returned when a cell index does not exist on the board.
var ErrCellOutOfRange = errors.New("cell out of range")

// Clip is a pre-loaded sound.
type Clip interface {
	// Play starts the clip from the beginning, cutting off a previous run.
	Play()
	// Stop silences the clip.
	Stop()
	// Duration is the nominal play length.
	Duration() time.Duration
}

// Loader loads the clip stored at path.
type Loader func(path string) (Clip, error)

// Shuffler permutes n elements through swap, like rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// slot is one cell of the board.
type slot struct {
	// id is the clip identifier, the number in the clip file name.
	id int
	// clip plays the sound.
	clip Clip
	// ticks is the clip duration converted to polling ticks.
	ticks int
}

// Soundboard maps grid cells to clips.
type Soundboard struct {
	slots      []slot
	completion Clip
}

// ClipPath returns the file name of clip id inside dir.
func ClipPath(dir string, id int) string {
	return filepath.Join(dir, strconv.Itoa(id)+".wav")
}

// Load reads cells clips named 0.wav..(cells-1).wav and the completion clip
// from dir, then shuffles the cell assignment with shuffle. A nil shuffle
// uses math/rand/v2. Any load failure aborts the whole board.
func Load(ctx context.Context, load Loader, dir string, cells int, shuffle Shuffler) (*Soundboard, error) {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}

	slots := make([]slot, 0, cells)

	for id := range cells {
		path := ClipPath(dir, id)

		clip, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load clip %s: %w", path, err)
		}

		slots = append(slots, slot{
			id:    id,
			clip:  clip,
			ticks: puzzle.DurationTicks(clip.Duration()),
		})

		logger.DebugKV(ctx, "Clip loaded", "clip", id, "duration", clip.Duration())
	}

	completionPath := filepath.Join(dir, CompletionClipName)

	completion, err := load(completionPath)
	if err != nil {
		return nil, fmt.Errorf("load clip %s: %w", completionPath, err)
	}

	shuffle(len(slots), func(i, j int) {
		slots[i], slots[j] = slots[j], slots[i]
	})

	board := &Soundboard{
		slots:      slots,
		completion: completion,
	}

	logger.InfoKV(ctx, "Soundboard ready", "cells", len(slots), "assignment", board.Assignment())

	return board, nil
}

// Len returns the number of cells on the board.
func (b *Soundboard) Len() int {
	return len(b.slots)
}

// Trigger plays the clip of cell from the start.
// Unknown cells are ignored.
func (b *Soundboard) Trigger(cell int) {
	if cell < 0 || cell >= len(b.slots) {
		return
	}

	b.slots[cell].clip.Play()
}

// ClipID returns the clip identifier assigned to cell.
func (b *Soundboard) ClipID(cell int) (int, error) {
	if cell < 0 || cell >= len(b.slots) {
		return 0, fmt.Errorf("%w: %d", ErrCellOutOfRange, cell)
	}

	return b.slots[cell].id, nil
}

// DurationTicks returns the clip length of cell in polling ticks.
func (b *Soundboard) DurationTicks(cell int) (int, error) {
	if cell < 0 || cell >= len(b.slots) {
		return 0, fmt.Errorf("%w: %d", ErrCellOutOfRange, cell)
	}

	return b.slots[cell].ticks, nil
}

// Assignment returns the clip identifier of every cell in cell order.
func (b *Soundboard) Assignment() []int {
	ids := make([]int, len(b.slots))
	for i, s := range b.slots {
		ids[i] = s.id
	}

	return ids
}

// Durations returns the tick length of every cell in cell order.
func (b *Soundboard) Durations() []int {
	ticks := make([]int, len(b.slots))
	for i, s := range b.slots {
		ticks[i] = s.ticks
	}

	return ticks
}

// PlayCompletion starts the completion clip from the beginning.
func (b *Soundboard) PlayCompletion() {
	b.completion.Play()
}

// StopCompletion silences the completion clip.
func (b *Soundboard) StopCompletion() {
	b.completion.Stop()
}
