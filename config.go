package webterm

import (
	"errors"
	"fmt"
	"os"

	"fortio.org/log"
	toml "github.com/pelletier/go-toml/v2"
)

const DefaultMargin = 10.0

// Config is the sizing policy and probe parameters. Zero values are not
// meaningful, start from DefaultConfig.
type Config struct {
	// Margin in pixels subtracted from the surface width and height.
	Margin float64 `toml:"margin"`
	// Layout is how the surface is adjusted after a grid change.
	Layout Layout `toml:"layout"`
	// ProbeGlyph and ProbeCount drive the font cell probe.
	ProbeGlyph string `toml:"probe_glyph"`
	ProbeCount int    `toml:"probe_count"`
	// History is the number of typed characters kept, 0 to disable.
	History int `toml:"history"`
}

func DefaultConfig() Config {
	return Config{
		Margin:     DefaultMargin,
		Layout:     LayoutPadding,
		ProbeGlyph: DefaultProbeGlyph,
		ProbeCount: DefaultProbeCount,
	}
}

var ErrInvalidConfig = errors.New("invalid config")

func (c Config) Validate() error {
	if c.Margin < 0 {
		return fmt.Errorf("%w: negative margin %g", ErrInvalidConfig, c.Margin)
	}
	if c.Layout != LayoutPadding && c.Layout != LayoutHeight {
		return fmt.Errorf("%w: layout %v", ErrInvalidConfig, c.Layout)
	}
	if !IsPrintable(c.ProbeGlyph) {
		return fmt.Errorf("%w: probe_glyph %q", ErrInvalidConfig, c.ProbeGlyph)
	}
	if c.ProbeCount <= 0 {
		return fmt.Errorf("%w: probe_count %d", ErrInvalidConfig, c.ProbeCount)
	}
	if c.History < 0 {
		return fmt.Errorf("%w: history %d", ErrInvalidConfig, c.History)
	}
	return nil
}

// ParseConfig reads TOML on top of the defaults, so only overridden keys
// need to be present.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}

// LoadConfig reads a TOML config file. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	log.Infof("Loaded config from %s: margin %g, layout %v, probe %d %q, history %d",
		path, cfg.Margin, cfg.Layout, cfg.ProbeCount, cfg.ProbeGlyph, cfg.History)
	return cfg, nil
}

// Marshal returns the TOML form of the config.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
