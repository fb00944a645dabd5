package config

import (
	"fmt"
	"math"
	"time"

	"github.com/itohio/gojoy/pkg/joystick"
	"github.com/itohio/gojoy/pkg/render"
)

// Config represents the application configuration.
// The firmware compiles in Default(); host tools load overrides from YAML.
type Config struct {
	Serial      SerialConfig         `yaml:"serial"`
	Calibration joystick.Calibration `yaml:"calibration"`
	Display     render.Layout        `yaml:"display"`
	Timing      TimingConfig         `yaml:"timing"`
	Trace       TraceConfig          `yaml:"trace"`
	Sim         SimConfig            `yaml:"sim"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// TimingConfig contains the loop period and button debounce window.
type TimingConfig struct {
	Tick     time.Duration `yaml:"tick"`
	Debounce time.Duration `yaml:"debounce"`
}

// TraceConfig contains viewer trace parameters.
type TraceConfig struct {
	WindowSeconds float64 `yaml:"window_seconds"`
}

// SimConfig contains simulated board parameters.
type SimConfig struct {
	Sweep       bool          `yaml:"sweep"`        // Move the stick automatically
	SweepPeriod time.Duration `yaml:"sweep_period"` // Time for one full sweep figure
	Amplitude   float64       `yaml:"amplitude"`    // Fraction of available travel (0..1)
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0", // "COM3" on Windows
			BaudRate: 115200,
		},
		Calibration: joystick.DefaultCalibration(),
		Display:     render.DefaultLayout(),
		Timing: TimingConfig{
			Tick:     50 * time.Millisecond,
			Debounce: 200 * time.Millisecond,
		},
		Trace: TraceConfig{
			WindowSeconds: 10,
		},
		Sim: SimConfig{
			Sweep:       true,
			SweepPeriod: 8 * time.Second,
			Amplitude:   0.9,
		},
	}
}

// DebounceMicros returns the debounce window as the interrupt handlers see it.
func (c *Config) DebounceMicros() uint32 {
	return uint32(c.Timing.Debounce.Microseconds())
}

// Validate checks values that would break the mapping math or the loop.
func (c *Config) Validate() error {
	if err := c.Calibration.Validate(); err != nil {
		return fmt.Errorf("invalid calibration: %w", err)
	}

	d := c.Display
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("invalid display size %dx%d", d.Width, d.Height)
	}
	if d.SquareSize <= 0 || 2*d.SquareSize >= d.Width || 2*d.SquareSize >= d.Height {
		return fmt.Errorf("square size %d does not fit display %dx%d", d.SquareSize, d.Width, d.Height)
	}

	if c.Timing.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %v", c.Timing.Tick)
	}
	if c.Timing.Debounce < 0 || c.Timing.Debounce.Microseconds() > math.MaxUint32/2 {
		return fmt.Errorf("debounce %v out of range", c.Timing.Debounce)
	}

	if c.Sim.Amplitude < 0 || c.Sim.Amplitude > 1 {
		return fmt.Errorf("sim amplitude must be within [0, 1], got %v", c.Sim.Amplitude)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	// Calibration is left alone: omitted fields keep their defaults from Load, and an
	// explicit zero is a center on the rail that Validate rejects.

	if c.Display.Width == 0 {
		c.Display.Width = def.Display.Width
	}
	if c.Display.Height == 0 {
		c.Display.Height = def.Display.Height
	}
	if c.Display.SquareSize == 0 {
		c.Display.SquareSize = def.Display.SquareSize
	}

	if c.Timing.Tick == 0 {
		c.Timing.Tick = def.Timing.Tick
	}
	if c.Timing.Debounce == 0 {
		c.Timing.Debounce = def.Timing.Debounce
	}

	if c.Trace.WindowSeconds == 0 {
		c.Trace.WindowSeconds = def.Trace.WindowSeconds
	}

	if c.Sim.SweepPeriod == 0 {
		c.Sim.SweepPeriod = def.Sim.SweepPeriod
	}
}
