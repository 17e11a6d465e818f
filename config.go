package boardfx

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds engine tuning. Load it with LoadConfig or start from
// DefaultConfig.
type Config struct {
	Width         int            `toml:"width"`
	Height        int            `toml:"height"`
	Debug         bool           `toml:"debug"`
	ScreenshotDir string         `toml:"screenshot_dir"`
	Grid          Grid           `toml:"grid"`
	Motion        MotionConfig   `toml:"motion"`
	Particles     ParticleConfig `toml:"particles"`
	Effects       EffectConfig   `toml:"effects"`
	Layers        LayersConfig   `toml:"layers"`
	Logging       LoggingConfig  `toml:"logging"`
}

// MotionConfig controls player glides and HUD roll-ups.
type MotionConfig struct {
	GlideDuration    float64 `toml:"glide_ms"`
	CashRollDuration float64 `toml:"cash_roll_ms"`
}

// LayersConfig lists layers hidden at startup.
type LayersConfig struct {
	Hidden []string `toml:"hidden"`
}

// LoggingConfig selects the zap logger built by NewLogger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Width:         800,
		Height:        600,
		ScreenshotDir: "screenshots",
		Grid: Grid{
			CellSize: 64,
			OriginX:  16,
			OriginY:  48,
		},
		Motion: MotionConfig{
			GlideDuration:    300,
			CashRollDuration: 250,
		},
		Particles: DefaultParticleConfig(),
		Effects:   DefaultEffectConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig reads a TOML file over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML data over DefaultConfig and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid config: surface size %dx%d", c.Width, c.Height)
	}
	if c.Grid.CellSize <= 0 {
		return fmt.Errorf("invalid config: grid.cell_size %v", c.Grid.CellSize)
	}
	if c.Motion.GlideDuration < 0 || c.Motion.CashRollDuration < 0 {
		return fmt.Errorf("invalid config: negative motion duration")
	}
	for _, name := range c.Layers.Hidden {
		if !isDefaultLayer(name) {
			return fmt.Errorf("invalid config: unknown layer %q", name)
		}
	}
	return nil
}
