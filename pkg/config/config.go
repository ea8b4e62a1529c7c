// Package config loads the run configuration shared by the CLI and the web
// server. Values come from a YAML file layered over defaults; command-line
// flags are applied on top by the callers.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-reflective-raytracer/pkg/renderer"
)

// Config represents the main configuration
type Config struct {
	Render RenderConfig `yaml:"render"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// RenderConfig contains renderer settings
type RenderConfig struct {
	Width            int  `yaml:"width"`
	Height           int  `yaml:"height"`
	MaxBounces       int  `yaml:"max_bounces"`
	Workers          int  `yaml:"workers"`   // 0 means runtime.NumCPU()
	TileSize         int  `yaml:"tile_size"` // 0 means renderer.DefaultTileSize
	PositionEquality bool `yaml:"position_equality"`
}

// OutputConfig controls where rendered images are written
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or jpeg
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty logs to stdout only
}

// ServerConfig contains web server settings
type ServerConfig struct {
	Port      int    `yaml:"port"`
	ScenesDir string `yaml:"scenes_dir"`
	MaxWidth  int    `yaml:"max_width"`
	MaxHeight int    `yaml:"max_height"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	rc := renderer.DefaultConfig()
	return &Config{
		Render: RenderConfig{
			Width:      rc.Width,
			Height:     rc.Height,
			MaxBounces: int(rc.MaxBounces),
		},
		Output: OutputConfig{
			Dir:    "output",
			Format: "png",
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Port:      8080,
			ScenesDir: "scenes",
			MaxWidth:  1920,
			MaxHeight: 1080,
		},
	}
}

// LoadConfig loads the configuration from a file. Keys missing from the
// file keep their default values.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", filePath, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration data over the defaults
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(cfg *Config, filePath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.MaxBounces < 0 || c.Render.MaxBounces > 255 {
		return fmt.Errorf("max_bounces must be in [0, 255], got %d", c.Render.MaxBounces)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Render.Workers)
	}
	if c.Render.TileSize < 0 {
		return fmt.Errorf("tile_size must not be negative, got %d", c.Render.TileSize)
	}
	switch strings.ToLower(c.Output.Format) {
	case "png", "jpeg", "jpg":
	default:
		return fmt.Errorf("unsupported output format %q", c.Output.Format)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// RendererConfig converts the render section into a renderer.Config. Scene
// specific values (camera, background) are left for the scene to fill.
func (c *Config) RendererConfig() renderer.Config {
	rc := renderer.DefaultConfig()
	rc.Width = c.Render.Width
	rc.Height = c.Render.Height
	rc.MaxBounces = uint8(c.Render.MaxBounces)
	rc.NumWorkers = c.Render.Workers
	rc.TileSize = c.Render.TileSize
	rc.PositionEquality = c.Render.PositionEquality
	return rc
}
