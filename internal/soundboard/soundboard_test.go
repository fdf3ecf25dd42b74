package soundboard

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errTestMissing = errors.New("no such clip")

// fakeClip records playback calls.
type fakeClip struct {
	path     string
	duration time.Duration
	plays    int
	stops    int
}

// Play counts a playback start.
func (c *fakeClip) Play() { c.plays++ }

// Stop counts a stop request.
func (c *fakeClip) Stop() { c.stops++ }

// Duration returns the configured length.
func (c *fakeClip) Duration() time.Duration { return c.duration }

// fakeLoader hands out fakeClips whose length grows with the clip number.
type fakeLoader struct {
	clips   map[string]*fakeClip
	missing string
}

// load implements Loader.
func (l *fakeLoader) load(path string) (Clip, error) {
	if path == l.missing {
		return nil, errTestMissing
	}

	clip := &fakeClip{
		path:     path,
		duration: time.Duration(len(l.clips)+1) * 100 * time.Millisecond,
	}
	l.clips[path] = clip

	return clip, nil
}

// noShuffle keeps the natural order.
func noShuffle(int, func(i, j int)) {}

// TestLoad_NamesAndDurations checks file naming and tick bookkeeping.
func TestLoad_NamesAndDurations(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{clips: map[string]*fakeClip{}}

	board, err := Load(context.Background(), loader.load, "/clips", 16, noShuffle)
	require.NoError(t, err)
	require.Equal(t, 16, board.Len())
	require.Len(t, loader.clips, 17)
	require.Contains(t, loader.clips, filepath.Join("/clips", "0.wav"))
	require.Contains(t, loader.clips, filepath.Join("/clips", "15.wav"))
	require.Contains(t, loader.clips, filepath.Join("/clips", CompletionClipName))

	for cell := range 16 {
		id, err := board.ClipID(cell)
		require.NoError(t, err)
		require.Equal(t, cell, id)

		ticks, err := board.DurationTicks(cell)
		require.NoError(t, err)
		require.Equal(t, cell+1, ticks)
	}

	_, err = board.ClipID(16)
	require.ErrorIs(t, err, ErrCellOutOfRange)

	_, err = board.DurationTicks(-1)
	require.ErrorIs(t, err, ErrCellOutOfRange)
}

// TestLoad_ShuffleIsPermutation checks a seeded shuffle keeps every clip exactly once.
func TestLoad_ShuffleIsPermutation(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{clips: map[string]*fakeClip{}}
	rng := rand.New(rand.NewPCG(7, 11))

	board, err := Load(context.Background(), loader.load, "/clips", 16, rng.Shuffle)
	require.NoError(t, err)

	assignment := board.Assignment()
	durations := board.Durations()

	// Durations follow their clips through the shuffle.
	for cell, id := range assignment {
		require.Equal(t, id+1, durations[cell])
	}

	sorted := append([]int(nil), assignment...)
	sort.Ints(sorted)

	for i, id := range sorted {
		require.Equal(t, i, id)
	}
}

// TestLoad_MissingClipFails checks a missing file aborts loading.
func TestLoad_MissingClipFails(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{
		clips:   map[string]*fakeClip{},
		missing: filepath.Join("/clips", "7.wav"),
	}

	_, err := Load(context.Background(), loader.load, "/clips", 16, noShuffle)
	require.ErrorIs(t, err, errTestMissing)

	loader = &fakeLoader{
		clips:   map[string]*fakeClip{},
		missing: filepath.Join("/clips", CompletionClipName),
	}

	_, err = Load(context.Background(), loader.load, "/clips", 16, noShuffle)
	require.ErrorIs(t, err, errTestMissing)
}

// TestTriggerAndCompletion checks playback is routed to the right clip.
func TestTriggerAndCompletion(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{clips: map[string]*fakeClip{}}

	// Reverse the board so cell 0 plays clip 3.
	reverse := func(n int, swap func(i, j int)) {
		for i := range n / 2 {
			swap(i, n-1-i)
		}
	}

	board, err := Load(context.Background(), loader.load, "/clips", 4, reverse)
	require.NoError(t, err)
	require.Equal(t, []int{3, 2, 1, 0}, board.Assignment())

	board.Trigger(0)
	board.Trigger(0)
	board.Trigger(9)

	require.Equal(t, 2, loader.clips[filepath.Join("/clips", "3.wav")].plays)
	require.Equal(t, 0, loader.clips[filepath.Join("/clips", "0.wav")].plays)

	board.PlayCompletion()
	board.StopCompletion()

	completion := loader.clips[filepath.Join("/clips", CompletionClipName)]
	require.Equal(t, 1, completion.plays)
	require.Equal(t, 1, completion.stops)
}
