package puzzle

import (
	"context"

	"github.com/oshokin/soundlock/internal/events"
	"github.com/oshokin/soundlock/internal/logger"
	"github.com/oshokin/soundlock/internal/soundboard"
)

// SubscribeJournal writes every session event to the log and returns the
// function that stops it.
func SubscribeJournal(ctx context.Context, bus *events.Bus) func() {
	ctx = logger.WithName(ctx, "journal")

	unsubs := []func(){
		bus.Subscribe(func(e events.CellPressed) {
			logger.InfoKV(ctx, "Button pressed",
				"cell", e.Cell,
				"clip", soundboard.ClipPath("", e.Clip),
				"outcome", e.Outcome.String(),
				"cursor", e.Cursor,
			)
		}),
		bus.Subscribe(func(e events.SequenceCompleted) {
			logger.InfoKV(ctx, "Sequence completed", "cell", e.Cell)
		}),
		bus.Subscribe(func(events.CompletionPlayed) {
			logger.InfoKV(ctx, "Completion clip started", "clip", soundboard.CompletionClipName)
		}),
		bus.Subscribe(func(e events.ActuatorChanged) {
			logger.InfoKV(ctx, "Actuator changed",
				"from", e.From.String(),
				"to", e.To.String(),
				"energize_count", e.EnergizeCount,
			)
		}),
	}

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
