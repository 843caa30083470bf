// Package config loads the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixel-adventure/spritekit/internal/animation"
	"github.com/pixel-adventure/spritekit/internal/grid"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "spritekit.yaml"

type Server struct {
	Port           int    `yaml:"port"`
	StaticDir      string `yaml:"staticDir"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes"`
}

// Viewport bounds the display size source images are fitted into.
type Viewport struct {
	MaxWidth  float64 `yaml:"maxWidth"`
	MaxHeight float64 `yaml:"maxHeight"`
}

type Grid struct {
	DefaultFrameCount int     `yaml:"defaultFrameCount"`
	DefaultTopology   string  `yaml:"defaultTopology"`
	HitTolerance      float64 `yaml:"hitTolerance"`
	// Crossing is "reorder" or "block".
	Crossing string `yaml:"crossing"`
}

type Storage struct {
	Database string `yaml:"database"`
}

type Generation struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

type Export struct {
	FPS     float64 `yaml:"fps"`
	Easing  string  `yaml:"easing"`
	Mode    string  `yaml:"mode"`
	Loop    bool    `yaml:"loop"`
	Columns int     `yaml:"columns"`
	Padding int     `yaml:"padding"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	Server     Server     `yaml:"server"`
	Viewport   Viewport   `yaml:"viewport"`
	Grid       Grid       `yaml:"grid"`
	Storage    Storage    `yaml:"storage"`
	Generation Generation `yaml:"generation"`
	Export     Export     `yaml:"export"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Port = 8888
	cfg.Server.StaticDir = "./static"
	cfg.Server.MaxUploadBytes = 10 << 20

	cfg.Viewport.MaxWidth = 500
	cfg.Viewport.MaxHeight = 400

	cfg.Grid.DefaultFrameCount = 4
	cfg.Grid.DefaultTopology = string(grid.Columns)
	cfg.Grid.HitTolerance = grid.DefaultHitTolerance
	cfg.Grid.Crossing = string(grid.CrossingReorder)

	cfg.Storage.Database = "spritekit.db"

	cfg.Generation.Provider = "gemini"
	cfg.Generation.Temperature = 0.7

	cfg.Export.FPS = 12
	cfg.Export.Easing = string(animation.Linear)
	cfg.Export.Mode = string(animation.Loop)
	cfg.Export.Loop = true
	cfg.Export.Columns = 4
	cfg.Export.Padding = 0

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if c.Viewport.MaxWidth <= 0 || c.Viewport.MaxHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %vx%v", c.Viewport.MaxWidth, c.Viewport.MaxHeight)
	}
	if c.Grid.DefaultFrameCount < grid.MinFrameCount {
		return fmt.Errorf("grid.defaultFrameCount must be at least %d", grid.MinFrameCount)
	}
	if _, err := grid.ParseTopology(c.Grid.DefaultTopology); err != nil {
		return err
	}
	switch grid.Crossing(c.Grid.Crossing) {
	case grid.CrossingReorder, grid.CrossingBlock:
	default:
		return fmt.Errorf("grid.crossing must be %q or %q", grid.CrossingReorder, grid.CrossingBlock)
	}
	if _, err := animation.ParseEasing(c.Export.Easing); err != nil {
		return err
	}
	if _, err := animation.ParseMode(c.Export.Mode); err != nil {
		return err
	}
	return nil
}

// Topology returns the parsed default topology.
func (c *Config) Topology() grid.Topology {
	t, err := grid.ParseTopology(c.Grid.DefaultTopology)
	if err != nil {
		return grid.Columns
	}
	return t
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
