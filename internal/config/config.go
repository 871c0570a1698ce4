package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/billie-coop/stepper/internal/logging"
	"github.com/billie-coop/stepper/internal/quantity"
)

// Validation errors.
var (
	ErrInvertedBounds  = errors.New("min is greater than max")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrDuplicateLine   = errors.New("duplicate line name")
)

// Duration wraps time.Duration for text unmarshaling (YAML, env vars).
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if parsed < 0 {
		return fmt.Errorf("duration cannot be negative: %s", text)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration().String())
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config represents the stepper configuration
type Config struct {
	Stepper StepperConfig  `koanf:"stepper"`
	Log     logging.Config `koanf:"log"`
	Lines   []LineConfig   `koanf:"lines"`
}

// StepperConfig holds the defaults every line starts from.
//
// Quantity, Min and Max are kept as the raw attribute strings so that
// unparsable values fall back to the documented defaults instead of
// failing the load.
type StepperConfig struct {
	Quantity       string   `koanf:"quantity"`
	Min            string   `koanf:"min"`
	Max            string   `koanf:"max"`
	QuietPeriod    Duration `koanf:"quiet_period"`
	RepeatInterval Duration `koanf:"repeat_interval"`
}

// LineConfig is one named stepper. Empty fields inherit from Stepper.
type LineConfig struct {
	Name     string `koanf:"name"`
	Quantity string `koanf:"quantity"`
	Min      string `koanf:"min"`
	Max      string `koanf:"max"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Stepper: StepperConfig{
			Quantity:       "1",
			Min:            "1",
			Max:            "999",
			QuietPeriod:    Duration(quantity.DefaultQuietPeriod),
			RepeatInterval: Duration(quantity.DefaultRepeatInterval),
		},
		Log: logging.DefaultConfig(),
	}
}

// Settings returns the parsed defaults.
func (c *Config) Settings() quantity.Settings {
	return quantity.ParseSettings(c.Stepper.Quantity, c.Stepper.Min, c.Stepper.Max)
}

// LineSettings resolves a line against the stepper defaults.
func (c *Config) LineSettings(line LineConfig) quantity.Settings {
	base := c.Settings()
	return quantity.Settings{
		Quantity: inherit(line.Quantity, base.Quantity),
		Min:      inherit(line.Min, base.Min),
		Max:      inherit(line.Max, base.Max),
	}
}

// ResolvedLines returns every configured line with unnamed lines named
// "line-N" by position, or a single line named "quantity" built from the
// defaults when none is configured.
func (c *Config) ResolvedLines() []LineConfig {
	if len(c.Lines) == 0 {
		return []LineConfig{{Name: "quantity"}}
	}
	out := make([]LineConfig, len(c.Lines))
	for i, line := range c.Lines {
		if line.Name == "" {
			line.Name = fmt.Sprintf("line-%d", i+1)
		}
		out[i] = line
	}
	return out
}

// Options converts the timing settings into stepper options.
func (c *Config) Options() []quantity.Option {
	return []quantity.Option{
		quantity.WithQuietPeriod(c.Stepper.QuietPeriod.Duration()),
		quantity.WithRepeatInterval(c.Stepper.RepeatInterval.Duration()),
	}
}

// Validate reports inverted bounds, non-positive durations and duplicate
// line names.
func (c *Config) Validate() error {
	var errs []error

	if c.Stepper.QuietPeriod <= 0 {
		errs = append(errs, fmt.Errorf("stepper.quiet_period: %w", ErrInvalidDuration))
	}
	if c.Stepper.RepeatInterval <= 0 {
		errs = append(errs, fmt.Errorf("stepper.repeat_interval: %w", ErrInvalidDuration))
	}
	if s := c.Settings(); s.Min > s.Max {
		errs = append(errs, fmt.Errorf("stepper: %w (%d > %d)", ErrInvertedBounds, s.Min, s.Max))
	}

	seen := make(map[string]struct{}, len(c.Lines))
	for _, line := range c.ResolvedLines() {
		name := line.Name
		if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("%s: %w", name, ErrDuplicateLine))
		}
		seen[name] = struct{}{}

		if s := c.LineSettings(line); s.Min > s.Max {
			errs = append(errs, fmt.Errorf("%s: %w (%d > %d)", name, ErrInvertedBounds, s.Min, s.Max))
		}
	}

	return errors.Join(errs...)
}

// inherit parses raw, falling back to def when it is empty or invalid.
func inherit(raw string, def int) int {
	return quantity.ParseIntOr(raw, def)
}
