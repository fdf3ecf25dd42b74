package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/soundlock/internal/logger"
)

// Config holds the wiring of one installation: where clips and logs live
// and which hardware the grid and lines are attached to.
type Config struct {
	// LogFile is the journal truncated at startup and appended to afterwards.
	LogFile string `yaml:"log_file"`
	// LogLevel is the minimum level written to the console and the journal.
	LogLevel string `yaml:"log_level"`
	// ClipsDir holds 0.wav..15.wav and completed.wav.
	ClipsDir string `yaml:"clips_dir"`
	// SelfTest runs the LED choreography before the puzzle starts.
	SelfTest bool `yaml:"self_test"`
	// MetricsFile is an optional node_exporter textfile collector target.
	MetricsFile string `yaml:"metrics_file"`
	// Grid selects and configures the button grid.
	Grid Grid `yaml:"grid"`
	// GPIO configures the confirm button, indicator and solenoid lines.
	GPIO GPIO `yaml:"gpio"`
	// Audio configures the playback engine.
	Audio Audio `yaml:"audio"`
}

// Grid configures the button grid driver.
type Grid struct {
	// Driver is either "trellis" or "launchpad".
	Driver string `yaml:"driver"`
	// I2CBus is the periph bus name; empty picks the first bus.
	I2CBus string `yaml:"i2c_bus"`
	// I2CAddress is the HT16K33 address of the Trellis board.
	I2CAddress uint16 `yaml:"i2c_address"`
	// MIDIPort is a substring of the Launchpad MIDI port name.
	MIDIPort string `yaml:"midi_port"`
}

// GPIO holds BCM pin numbers.
type GPIO struct {
	// ConfirmPin reads the confirm button (pulled up, active low).
	ConfirmPin uint8 `yaml:"confirm_pin"`
	// IndicatorPin lights the confirm button.
	IndicatorPin uint8 `yaml:"indicator_pin"`
	// SolenoidPin drives the lock solenoid.
	SolenoidPin uint8 `yaml:"solenoid_pin"`
}

// Audio configures the playback engine.
type Audio struct {
	// SampleRate is the speaker rate; clips at other rates are resampled.
	SampleRate int `yaml:"sample_rate"`
	// Buffer is the speaker buffer length. Small buffers cut latency and
	// large ones prevent crackle.
	Buffer time.Duration `yaml:"buffer"`
}

const (
	// DefaultConfigFilename is the default filename for installation settings.
	DefaultConfigFilename = "soundlock.yaml"
	// DefaultLogFile is where the journal goes when nothing else is set.
	DefaultLogFile = "/home/pi/hbfs/logs.log"
	// DefaultClipsDir is where clips are looked up when nothing else is set.
	DefaultClipsDir = "/home/pi/hbfs"
	// DefaultLogLevel is the default journal verbosity.
	DefaultLogLevel = "info"

	// DriverTrellis selects the Adafruit Trellis over I2C.
	DriverTrellis = "trellis"
	// DriverLaunchpad selects a Novation Launchpad over MIDI.
	DriverLaunchpad = "launchpad"

	// DefaultI2CAddress is the HT16K33 address with no solder jumpers set.
	DefaultI2CAddress uint16 = 0x70
	// DefaultMIDIPort matches Launchpad X and Mini MK3 port names.
	DefaultMIDIPort = "Launchpad"

	// DefaultConfirmPin is BCM 27.
	DefaultConfirmPin uint8 = 27
	// DefaultIndicatorPin is BCM 17.
	DefaultIndicatorPin uint8 = 17
	// DefaultSolenoidPin is BCM 4.
	DefaultSolenoidPin uint8 = 4

	// DefaultSampleRate matches the rate the clips were mastered at.
	DefaultSampleRate = 22050
	// DefaultBufferSamples is the speaker buffer size tuned for low latency.
	DefaultBufferSamples = 512
	// DefaultBuffer is DefaultBufferSamples at DefaultSampleRate, about 23 ms.
	DefaultBuffer = time.Second * DefaultBufferSamples / DefaultSampleRate

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// maxGPIOPin is the highest BCM pin on the 40-pin header.
	maxGPIOPin = 27
	// maxI2CAddress is the largest 7-bit I2C address.
	maxI2CAddress = 0x7F
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// ErrUnknownDriver is returned for an unsupported grid driver.
	ErrUnknownDriver = errors.New("unknown grid driver")
	// ErrInvalidPin is returned for a pin outside the header or a pin used twice.
	ErrInvalidPin = errors.New("invalid GPIO pin")
	// ErrInvalidAddress is returned for an I2C address outside the 7-bit range.
	ErrInvalidAddress = errors.New("invalid I2C address")
	// ErrInvalidAudio is returned for a non-positive sample rate.
	ErrInvalidAudio = errors.New("invalid audio settings")
	// ErrInvalidLogLevel is returned for a level ParseLogLevel does not know.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Default returns the settings of the reference installation.
func Default() *Config {
	return &Config{
		LogFile:  DefaultLogFile,
		LogLevel: DefaultLogLevel,
		ClipsDir: DefaultClipsDir,
		SelfTest: true,
		Grid: Grid{
			Driver:     DriverTrellis,
			I2CAddress: DefaultI2CAddress,
			MIDIPort:   DefaultMIDIPort,
		},
		GPIO: GPIO{
			ConfirmPin:   DefaultConfirmPin,
			IndicatorPin: DefaultIndicatorPin,
			SolenoidPin:  DefaultSolenoidPin,
		},
		Audio: Audio{
			SampleRate: DefaultSampleRate,
			Buffer:     DefaultBuffer,
		},
	}
}

// Load reads configuration from the provided path and validates it.
// Fields missing from the file keep their defaults. When path is empty and
// the default file does not exist, the defaults are returned as is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
	case !explicit && errors.Is(err, os.ErrNotExist):
		return cfg, nil
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes Config to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills blank fields with defaults.
//
//nolint:cyclop // A flat list of field checks reads better than helpers.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}

	if cfg.ClipsDir == "" {
		cfg.ClipsDir = DefaultClipsDir
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}

	switch cfg.Grid.Driver {
	case "":
		cfg.Grid.Driver = DriverTrellis
	case DriverTrellis, DriverLaunchpad:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Grid.Driver)
	}

	if cfg.Grid.I2CAddress == 0 {
		cfg.Grid.I2CAddress = DefaultI2CAddress
	}

	if cfg.Grid.I2CAddress > maxI2CAddress {
		return fmt.Errorf("%w: %#x", ErrInvalidAddress, cfg.Grid.I2CAddress)
	}

	if cfg.Grid.MIDIPort == "" {
		cfg.Grid.MIDIPort = DefaultMIDIPort
	}

	if cfg.GPIO == (GPIO{}) {
		cfg.GPIO = Default().GPIO
	}

	if err := validatePins(&cfg.GPIO); err != nil {
		return err
	}

	if cfg.Audio.SampleRate == 0 {
		cfg.Audio.SampleRate = DefaultSampleRate
	}

	if cfg.Audio.SampleRate < 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidAudio, cfg.Audio.SampleRate)
	}

	if cfg.Audio.Buffer <= 0 {
		cfg.Audio.Buffer = DefaultBuffer
	}

	return nil
}

// validatePins checks the three lines are on the header and distinct.
func validatePins(pins *GPIO) error {
	lines := map[string]uint8{
		"confirm":   pins.ConfirmPin,
		"indicator": pins.IndicatorPin,
		"solenoid":  pins.SolenoidPin,
	}

	seen := make(map[uint8]string, len(lines))

	for name, pin := range lines {
		if pin > maxGPIOPin {
			return fmt.Errorf("%w: %s pin %d", ErrInvalidPin, name, pin)
		}

		if other, ok := seen[pin]; ok {
			return fmt.Errorf("%w: %s and %s share pin %d", ErrInvalidPin, name, other, pin)
		}

		seen[pin] = name
	}

	return nil
}
