package puzzle

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/soundlock/internal/config"
	domain "github.com/oshokin/soundlock/internal/domain/puzzle"
	"github.com/oshokin/soundlock/internal/events"
	"github.com/oshokin/soundlock/internal/logger"
	"github.com/oshokin/soundlock/internal/metrics"
	"github.com/oshokin/soundlock/internal/service/common"
	"github.com/oshokin/soundlock/internal/service/selftest"
	"github.com/oshokin/soundlock/internal/version"
)

// Options controls how the lock is run.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Simulate replaces the grid and the lines with the terminal panel.
	Simulate bool
	// SkipSelfTest overrides the self_test setting.
	SkipSelfTest bool
}

const (
	// metricsFlushInterval is how often the metrics textfile is rewritten.
	metricsFlushInterval = 10 * time.Second
	// drainTimeout bounds the wait for subscribers at exit.
	drainTimeout = time.Second
)

// Run loads the configuration, opens the devices, loads the clips and runs
// the puzzle until ctx is canceled or a device fails.
//
//nolint:cyclop,funlen // Linear start-up sequence; splitting would scatter the cleanup.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// The terminal panel owns stdout while simulating.
	closeLog, err := common.SetupLogging(cfg, !opts.Simulate)
	if err != nil {
		return err
	}

	defer func() {
		_ = closeLog()
	}()

	ctx = logger.WithName(ctx, "soundlock")

	// The simulator's quit key cancels like a signal does.
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	logger.InfoKV(ctx, "Starting", "version", version.Short(), "driver", cfg.Grid.Driver, "simulate", opts.Simulate, "clips_dir", cfg.ClipsDir)

	var rig *common.Rig
	if opts.Simulate {
		rig, err = common.OpenSimulator(ctx, stop)
	} else {
		rig, err = common.OpenHardware(ctx, cfg)
	}

	if err != nil {
		return err
	}

	defer func() {
		if err := rig.Close(); err != nil {
			logger.ErrorKV(ctx, "Release hardware failed", "error", err)
		}
	}()

	if cfg.SelfTest && !opts.SkipSelfTest {
		if err = selftest.Play(ctx, rig.Grid, selftest.DefaultTiming); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("self-test: %w", err)
		}
	}

	board, engine, err := common.LoadSoundboard(ctx, cfg)
	if err != nil {
		return err
	}

	defer engine.Close()

	session, err := domain.NewSession(domain.IdentitySequence(board.Len()), board.Assignment(), board.Durations())
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	bus := events.New()

	defer func() {
		_ = bus.Close()
	}()

	defer SubscribeJournal(ctx, bus)()

	recorder := metrics.New()
	defer recorder.Subscribe(bus)()

	if cfg.MetricsFile != "" {
		go flushMetrics(ctx, recorder, cfg.MetricsFile)
	}

	runner := NewRunner(session, rig.Grid, rig.Lines, board, bus)

	supervisor := newSupervisor(ctx)
	runner.heartbeat = supervisor.Heartbeat

	supervisor.Ready()
	logger.Info(ctx, "Puzzle running")

	err = runner.Loop(ctx, domain.TickPeriod)

	supervisor.Stopping()

	// Let the journal and the recorder see the last tick before the
	// final textfile is written and the log is closed.
	drainCtx, cancelDrain := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancelDrain()

	if drainErr := bus.Drain(drainCtx); drainErr != nil {
		logger.WarnKV(ctx, "Events left undelivered", "error", drainErr)
	}

	if cfg.MetricsFile != "" {
		writeMetrics(ctx, recorder, cfg.MetricsFile)
	}

	if err != nil {
		return fmt.Errorf("run puzzle: %w", err)
	}

	return nil
}

// flushMetrics rewrites the textfile until ctx is done.
func flushMetrics(ctx context.Context, recorder *metrics.Recorder, path string) {
	ticker := time.NewTicker(metricsFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			writeMetrics(ctx, recorder, path)
		}
	}
}

func writeMetrics(ctx context.Context, recorder *metrics.Recorder, path string) {
	if err := recorder.WriteTextfile(path); err != nil {
		logger.WarnKV(ctx, "Metrics not written", "path", path, "error", err)
	}
}
