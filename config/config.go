// Package config loads stagefx settings from YAML
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/stagefx/particle"
	"github.com/lixenwraith/stagefx/timeline"
)

// Default external config location, relative to the working directory
const (
	DefaultConfigDir  = "config"
	DefaultConfigFile = "stagefx.yaml"
)

// DefaultConfigPath is checked when no explicit path is given
var DefaultConfigPath = filepath.Join(DefaultConfigDir, DefaultConfigFile)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

//go:embed default.yaml
var embeddedDefault []byte

// Config is the full settings tree
type Config struct {
	Timelines TimelinesConfig `yaml:"timelines"`
	Scroll    ScrollConfig    `yaml:"scroll"`
	Particles particle.Config `yaml:"particles"`
	Render    RenderConfig    `yaml:"render"`
	Audio     AudioConfig     `yaml:"audio"`
}

// TimelinesConfig holds the offset→action tables per motion profile
type TimelinesConfig struct {
	Full    []timeline.Step `yaml:"full"`
	Reduced []timeline.Step `yaml:"reduced"`
}

type ScrollConfig struct {
	Easing float64 `yaml:"easing"`
	Extent float64 `yaml:"extent"`
	Step   float64 `yaml:"step"`

	// FrameLocked applies one fixed-k step per frame regardless of frame time
	FrameLocked bool `yaml:"frame_locked"`
}

type RenderConfig struct {
	FPS             int     `yaml:"fps"`
	NavDim          float64 `yaml:"nav_dim"`
	SpringFrequency float64 `yaml:"spring_frequency"`
	SpringDamping   float64 `yaml:"spring_damping"`
	CameraDistance  float64 `yaml:"camera_distance"`
	Hologram        bool    `yaml:"hologram"`
}

type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sample_rate"`
}

// Default returns the embedded configuration
func Default() Config {
	cfg, err := Parse(embeddedDefault)
	if err != nil {
		panic(fmt.Sprintf("embedded config invalid: %v", err))
	}
	return cfg
}

// Parse decodes YAML over the embedded defaults and validates the result
// Keys absent from data keep their default values
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(embeddedDefault, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse embedded config: %w", err)
	}
	// Sequences (timelines, palettes) are replaced wholesale, maps merge key by key
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and timeline shape
func (c Config) Validate() error {
	if _, err := c.TimelineSet(); err != nil {
		return err
	}
	if c.Scroll.Easing <= 0 || c.Scroll.Easing > 1 {
		return fmt.Errorf("%w: scroll.easing must be in (0,1], got %v", ErrInvalid, c.Scroll.Easing)
	}
	if c.Scroll.Extent < 0 {
		return fmt.Errorf("%w: scroll.extent must not be negative", ErrInvalid)
	}
	if err := validatePopulation("dust", c.Particles.Dust); err != nil {
		return err
	}
	if err := validatePopulation("stars", c.Particles.Stars); err != nil {
		return err
	}
	if c.Particles.Dust.Radius <= 0 {
		return fmt.Errorf("%w: particles.dust.radius must be positive", ErrInvalid)
	}
	if c.Particles.TimeScale <= 0 {
		return fmt.Errorf("%w: particles.time_scale must be positive", ErrInvalid)
	}
	if c.Render.FPS < 1 || c.Render.FPS > 240 {
		return fmt.Errorf("%w: render.fps must be in [1,240], got %d", ErrInvalid, c.Render.FPS)
	}
	if c.Render.NavDim < 0 || c.Render.NavDim > 1 {
		return fmt.Errorf("%w: render.nav_dim must be in [0,1]", ErrInvalid)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio.volume must be in [0,1]", ErrInvalid)
	}
	return nil
}

// validatePopulation rejects tuning that would break the field's bound envelope
// Counts may be zero; an empty population renders nothing
func validatePopulation(name string, p particle.PopulationConfig) error {
	nonNegative := []struct {
		key string
		v   float64
	}{
		{"count", float64(p.Count)},
		{"radius", p.Radius},
		{"inner_radius", p.InnerRadius},
		{"oscillation", p.Oscillation},
		{"scroll_drift", p.ScrollDrift},
		{"noise", p.Noise},
		{"size_min", p.SizeMin},
	}
	for _, f := range nonNegative {
		if f.v < 0 {
			return fmt.Errorf("%w: particles.%s.%s must not be negative, got %v", ErrInvalid, name, f.key, f.v)
		}
	}
	if p.SizeMax < p.SizeMin {
		return fmt.Errorf("%w: particles.%s.size_max must be >= size_min", ErrInvalid, name)
	}
	return nil
}

// TimelineSet builds the validated timelines
func (c Config) TimelineSet() (timeline.Set, error) {
	full, err := timeline.New(c.Timelines.Full)
	if err != nil {
		return timeline.Set{}, fmt.Errorf("%w: timelines.full: %w", ErrInvalid, err)
	}
	reduced, err := timeline.New(c.Timelines.Reduced)
	if err != nil {
		return timeline.Set{}, fmt.Errorf("%w: timelines.reduced: %w", ErrInvalid, err)
	}
	return timeline.Set{Full: full, Reduced: reduced}, nil
}

// LoadFromPath reads and parses a config file
func LoadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, nil
}

// LoadAuto loads with priority: customPath > DefaultConfigPath > embedded
// Returns the path used, empty for the embedded default
func LoadAuto(customPath string) (Config, string, error) {
	if customPath != "" {
		if !fileExists(customPath) {
			return Config{}, "", fmt.Errorf("config file not found: %s", customPath)
		}
		cfg, err := LoadFromPath(customPath)
		return cfg, customPath, err
	}

	if fileExists(DefaultConfigPath) {
		cfg, err := LoadFromPath(DefaultConfigPath)
		return cfg, DefaultConfigPath, err
	}

	return Default(), "", nil
}

// EmbeddedDefault returns the raw embedded YAML
func EmbeddedDefault() []byte {
	out := make([]byte, len(embeddedDefault))
	copy(out, embeddedDefault)
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
