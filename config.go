package rendercore

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by Config.Backend.
const (
	BackendRaster = "raster"
	BackendEbiten = "ebiten"
)

// Config is the file form of the engine options, used by the executables.
type Config struct {
	Width              int        `yaml:"width"`
	Height             int        `yaml:"height"`
	DPR                float64    `yaml:"dpr"`
	Debug              DebugFlags `yaml:"debug"`
	ImageCacheCapacity int        `yaml:"image_cache_capacity"`
	MaxDepth           int        `yaml:"max_depth"`
	LogLevel           string     `yaml:"log_level"`
	Backend            string     `yaml:"backend"`
}

// DefaultConfig returns an 800x600 raster surface at DPR 1.
func DefaultConfig() Config {
	return Config{
		Width:    800,
		Height:   600,
		DPR:      1,
		LogLevel: "warn",
		Backend:  BackendRaster,
	}
}

func (c *Config) defaults() {
	d := DefaultConfig()
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Height == 0 {
		c.Height = d.Height
	}
	if c.DPR == 0 {
		c.DPR = d.DPR
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Backend == "" {
		c.Backend = d.Backend
	}
}

// ParseConfig decodes YAML and fills unset fields from DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.defaults()
	return cfg, cfg.Validate()
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// Validate checks sizes, the log level and the backend name.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: %w: %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	if c.DPR <= 0 {
		return fmt.Errorf("config: dpr must be positive, got %g", c.DPR)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Backend {
	case BackendRaster, BackendEbiten:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	return nil
}

// Options converts the config into engine options.
func (c Config) Options() []Option {
	return []Option{
		WithDPR(c.DPR),
		WithDebugFlags(c.Debug),
		WithImageCacheCapacity(c.ImageCacheCapacity),
		WithMaxDepth(c.MaxDepth),
	}
}

var debugFlagNames = map[string]DebugFlags{
	"stats":        DebugStats,
	"no_cache":     DebugNoCache,
	"shape_bounds": DebugShapeBounds,
}

// UnmarshalYAML accepts either the numeric bitmask or a list of flag names
// (stats, no_cache, shape_bounds).
func (d *DebugFlags) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var v uint32
		if err := n.Decode(&v); err != nil {
			return err
		}
		*d = DebugFlags(v)
		return nil
	}
	var names []string
	if err := n.Decode(&names); err != nil {
		return err
	}
	var flags DebugFlags
	for _, name := range names {
		f, ok := debugFlagNames[name]
		if !ok {
			return fmt.Errorf("unknown debug flag %q", name)
		}
		flags |= f
	}
	*d = flags
	return nil
}
