package touchline

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate and the loaders when a field is out
// of range.
var ErrInvalidConfig = errors.New("invalid config")

const defaultQueueCapacity = 64

// Config controls a Surface.
type Config struct {
	// DoubleTap enables promotion of the up that completes a platform
	// double-tap to a tap count of 2.
	DoubleTap bool `yaml:"double_tap"`
	// JoystickAxes is how many axis channels a joystick frame carries,
	// between MinAxes and MaxAxes.
	JoystickAxes int `yaml:"joystick_axes"`
	// QueueCapacity is the initial capacity of the dispatch queue. The queue
	// grows past it as needed.
	QueueCapacity int `yaml:"queue_capacity"`
	// Debug turns on per-sample debug logging.
	Debug bool `yaml:"debug"`
	// LogLevel is a zerolog level name. Empty keeps the logger's level.
	LogLevel string `yaml:"log_level"`

	// Logger receives diagnostics. DefaultConfig uses zerolog.Nop().
	Logger zerolog.Logger `yaml:"-"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() Config {
	return Config{
		DoubleTap:     true,
		JoystickAxes:  MaxAxes,
		QueueCapacity: defaultQueueCapacity,
		Logger:        zerolog.Nop(),
	}
}

// Validate reports the first out-of-range field.
func (c *Config) Validate() error {
	if c.JoystickAxes < MinAxes || c.JoystickAxes > MaxAxes {
		return fmt.Errorf("%w: joystick_axes %d not in [%d, %d]", ErrInvalidConfig, c.JoystickAxes, MinAxes, MaxAxes)
	}
	if c.QueueCapacity < 0 {
		return fmt.Errorf("%w: queue_capacity %d is negative", ErrInvalidConfig, c.QueueCapacity)
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

// logger returns the configured logger with LogLevel applied.
func (c *Config) logger() zerolog.Logger {
	l := c.Logger
	if c.LogLevel != "" {
		if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
			l = l.Level(lvl)
		}
	}
	return l
}
