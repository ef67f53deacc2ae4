package delta

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables for a Scene and its CollisionWorld.
type Config struct {
	// CellSize is the uniform grid cell edge length in world units.
	CellSize float64 `yaml:"cell_size"`
	// MaxCellsPerProxy caps how many cells one proxy may occupy before it is
	// moved to the broadphase overflow list.
	MaxCellsPerProxy int `yaml:"max_cells_per_proxy"`
	// Debug enables per-step stats logging.
	Debug bool `yaml:"debug"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// TPS overrides the update rate used to derive the step duration. Zero
	// means ebiten.TPS().
	TPS int `yaml:"tps"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		CellSize:         DefaultCellSize,
		MaxCellsPerProxy: DefaultMaxCellsPerProxy,
		LogLevel:         "info",
	}
}

// LoadConfig decodes a YAML config from r. Missing fields take their
// defaults. An empty document yields DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports whether every field holds a usable value.
func (c Config) Validate() error {
	if !(c.CellSize > 0) || math.IsInf(c.CellSize, 0) {
		return fmt.Errorf("%w: cell_size must be positive, got %v", ErrInvalidConfig, c.CellSize)
	}
	if c.MaxCellsPerProxy <= 0 {
		return fmt.Errorf("%w: max_cells_per_proxy must be positive, got %d", ErrInvalidConfig, c.MaxCellsPerProxy)
	}
	if c.TPS < 0 {
		return fmt.Errorf("%w: tps must not be negative, got %d", ErrInvalidConfig, c.TPS)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}
