package puzzle

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/oshokin/soundlock/internal/logger"
)

// supervisor reports lifecycle and liveness to systemd.
// Outside of systemd every call is a no-op.
type supervisor struct {
	ctx      context.Context //nolint:containedctx // Only used for logging.
	notify   func(state string) (bool, error)
	now      func() time.Time
	interval time.Duration
	lastPing time.Time
}

// newSupervisor reads the watchdog interval from the environment.
// Pings are sent at half of it.
func newSupervisor(ctx context.Context) *supervisor {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		logger.WarnKV(ctx, "Watchdog settings ignored", "error", err)
	}

	return &supervisor{
		ctx: ctx,
		notify: func(state string) (bool, error) {
			return daemon.SdNotify(false, state)
		},
		now:      time.Now,
		interval: interval / 2, //nolint:mnd // Ping twice per watchdog period.
	}
}

// Ready tells systemd the loop is running.
func (s *supervisor) Ready() {
	s.send(daemon.SdNotifyReady)
	s.lastPing = s.now()
}

// Heartbeat pings the watchdog when half of its period has elapsed.
func (s *supervisor) Heartbeat() {
	if s.interval <= 0 {
		return
	}

	now := s.now()
	if now.Sub(s.lastPing) < s.interval {
		return
	}

	s.send(daemon.SdNotifyWatchdog)
	s.lastPing = now
}

// Stopping tells systemd the process is shutting down.
func (s *supervisor) Stopping() {
	s.send(daemon.SdNotifyStopping)
}

func (s *supervisor) send(state string) {
	sent, err := s.notify(state)
	if err != nil {
		logger.WarnKV(s.ctx, "Notify systemd failed", "state", state, "error", err)

		return
	}

	if sent {
		logger.DebugKV(s.ctx, "Notified systemd", "state", state)
	}
}
