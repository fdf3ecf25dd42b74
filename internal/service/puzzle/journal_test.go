package puzzle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	domain "github.com/oshokin/soundlock/internal/domain/puzzle"
	"github.com/oshokin/soundlock/internal/events"
	"github.com/oshokin/soundlock/internal/logger"
)

// TestSubscribeJournal_LogsPresses checks press entries carry their fields.
func TestSubscribeJournal_LogsPresses(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core).Sugar())

	bus := events.New()
	defer func() { _ = bus.Close() }()

	unsub := SubscribeJournal(ctx, bus)
	defer unsub()

	bus.Publish(events.CellPressed{Cell: 4, Clip: 11, Outcome: domain.OutcomeReset, Cursor: 0})
	bus.Publish(events.ActuatorChanged{From: domain.ActuatorArmed, To: domain.ActuatorEnergizing, EnergizeCount: 1})

	require.Eventually(t, func() bool {
		return logs.FilterMessage("Button pressed").Len() == 1 &&
			logs.FilterMessage("Actuator changed").Len() == 1
	}, time.Second, 10*time.Millisecond)

	entry := logs.FilterMessage("Button pressed").All()[0]
	fields := entry.ContextMap()
	require.Equal(t, "journal", entry.LoggerName)
	require.Equal(t, int64(4), fields["cell"])
	require.Equal(t, "11.wav", fields["clip"])
	require.Equal(t, "reset", fields["outcome"])

	changed := logs.FilterMessage("Actuator changed").All()[0].ContextMap()
	require.Equal(t, "energizing", changed["to"])
}
