// Package config loads the runtime configuration of the presentation
package config

import (
	"bytes"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/iron-idols/logs"
	"github.com/lixenwraith/iron-idols/timeline"
)

// Color modes for the terminal presenter
const (
	ColorAuto      = "auto"
	ColorTrueColor = "truecolor"
	Color256       = "256"
)

// Duration is a time.Duration written as a Go duration string ("5m", "300ms")
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Timing scales the scripted delays
type Timing struct {
	// Scale multiplies every step delay; 0 plays the sequence instantly
	Scale float64 `toml:"scale"`
	// HiddenMessageDelay is the idle time before the hidden message; 0 disables it
	HiddenMessageDelay Duration `toml:"hidden_message_delay"`
}

// Carousel paces the contact card slideshow
type Carousel struct {
	InitialDelay Duration `toml:"initial_delay"`
	Period       Duration `toml:"period"`
}

// Log selects log sinks
type Log struct {
	Level   string `toml:"level"`
	File    string `toml:"file"`
	Journal bool   `toml:"journal"`
}

// Terminal configures the presenter
type Terminal struct {
	// Color is auto, truecolor or 256
	Color string `toml:"color"`
	// SkipHint draws the skip hint while the sequence runs
	SkipHint bool `toml:"skip_hint"`
}

// Config is the complete runtime configuration
type Config struct {
	// Script is an optional content file layered over the built-in script
	Script   string   `toml:"script"`
	Timing   Timing   `toml:"timing"`
	Carousel Carousel `toml:"carousel"`
	Theme    Theme    `toml:"theme"`
	Log      Log      `toml:"log"`
	Terminal Terminal `toml:"terminal"`
}

// Default returns the stock configuration
func Default() *Config {
	c := timeline.DefaultCarouselTimings()
	return &Config{
		Timing: Timing{
			Scale:              1,
			HiddenMessageDelay: Duration(5 * time.Minute),
		},
		Carousel: Carousel{
			InitialDelay: Duration(c.Initial),
			Period:       Duration(c.Period),
		},
		Theme: DefaultTheme(),
		Log:   Log{Level: "info"},
		Terminal: Terminal{
			Color:    ColorAuto,
			SkipHint: true,
		},
	}
}

// Load reads path over the defaults; an empty path returns the defaults
// Unknown keys are rejected
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate rejects values the presentation cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Timing.Scale < 0:
		return errors.Errorf("timing.scale %v is negative", c.Timing.Scale)
	case c.Timing.HiddenMessageDelay < 0:
		return errors.New("timing.hidden_message_delay is negative")
	case c.Carousel.InitialDelay < 0:
		return errors.New("carousel.initial_delay is negative")
	case c.Carousel.Period <= 0:
		return errors.New("carousel.period must be positive")
	}
	switch c.Terminal.Color {
	case ColorAuto, ColorTrueColor, Color256:
	default:
		return errors.Errorf("terminal.color %q is not auto, truecolor or 256", c.Terminal.Color)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if _, err := c.Theme.Palette(); err != nil {
		return err
	}
	if _, err := c.Theme.BackgroundColor(); err != nil {
		return err
	}
	return nil
}

// Timings returns the step delays at the configured scale
func (c *Config) Timings() timeline.Timings {
	t := timeline.DefaultTimings()
	t.Scale = c.Timing.Scale
	return t
}

// CarouselTimings returns the slideshow pacing
func (c *Config) CarouselTimings() timeline.CarouselTimings {
	return timeline.CarouselTimings{
		Initial: c.Carousel.InitialDelay.Std(),
		Period:  c.Carousel.Period.Std(),
	}
}

// LogLevel parses Log.Level
func (c *Config) LogLevel() (slog.Level, error) {
	return logs.ParseLevel(c.Log.Level)
}
