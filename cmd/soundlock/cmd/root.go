package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/soundlock/internal/config"
	"github.com/oshokin/soundlock/internal/service/puzzle"
	"github.com/oshokin/soundlock/internal/service/selftest"
	"github.com/oshokin/soundlock/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// skipSelfTest disables the LED pattern before the puzzle starts.
	skipSelfTest bool
	// simulateSelfTest plays the LED pattern in the terminal.
	simulateSelfTest bool

	// rootCmd represents the base command.
	rootCmd = &cobra.Command{
		Use:   "soundlock",
		Short: "Musical sequence lock.",
		Long: `Runs a sound-and-light lock puzzle on a 4x4 button grid.

Every button plays a sound and lights up while it plays. Pressing the buttons
in the secret order arms the lock; holding the confirm button then energizes
the solenoid for up to ten seconds.`,
		SilenceUsage: true,
	}

	// runCmd runs the puzzle on the configured hardware.
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the puzzle on the hardware.",
		Long: `Opens the configured grid and GPIO lines, loads the clips and runs the
puzzle until SIGINT or SIGTERM. Under systemd the unit is notified when the
loop is running and the watchdog is fed from the loop.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return puzzle.Run(ctx, &puzzle.Options{
				ConfigPath:   cfgPath,
				SkipSelfTest: skipSelfTest,
			})
		},
	}

	// simulateCmd runs the puzzle in the terminal.
	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Run the puzzle in the terminal.",
		Long: `Runs the puzzle with the terminal standing in for the grid, the confirm
button, the indicator and the solenoid. Keys 1234/qwer/asdf/zxcv are the grid
rows, space toggles the confirm button, Esc quits. Sound still plays through
the speaker and the journal is still written.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return puzzle.Run(ctx, &puzzle.Options{
				ConfigPath:   cfgPath,
				Simulate:     true,
				SkipSelfTest: skipSelfTest,
			})
		},
	}

	// selftestCmd plays the LED pattern once.
	selftestCmd = &cobra.Command{
		Use:   "selftest",
		Short: "Play the LED test pattern.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return selftest.Run(ctx, &selftest.Options{
				ConfigPath: cfgPath,
				Simulate:   simulateSelfTest,
			})
		},
	}
)

// signalContext is canceled on SIGTERM or SIGINT for graceful shutdown.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// Execute runs the soundlock CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to configuration file (default "+config.DefaultConfigFilename+")")

	runCmd.Flags().BoolVar(&skipSelfTest, "skip-selftest", false, "do not play the LED pattern before starting")
	simulateCmd.Flags().BoolVar(&skipSelfTest, "skip-selftest", false, "do not play the LED pattern before starting")
	selftestCmd.Flags().BoolVar(&simulateSelfTest, "simulate", false, "play the pattern in the terminal")

	rootCmd.AddCommand(runCmd, simulateCmd, selftestCmd)
}
