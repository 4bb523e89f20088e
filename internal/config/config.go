package config

import (
	_ "embed"
	"fmt"
	"os"

	"voxel-overlays/internal/host"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

// Window describes the demo window.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	FPS    int    `yaml:"fps"`
}

// Config lists the plugins to load and keeps each plugin's options
// undecoded until the plugin asks for them.
type Config struct {
	Window  Window               `yaml:"window"`
	Plugins map[string]yaml.Node `yaml:"plugins"`
}

// Parse decodes a YAML config. Missing window fields fall back to the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{Window: Window{Width: 1280, Height: 720, Title: "voxel overlays", FPS: 60}}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return nil, fmt.Errorf("parse config: invalid window size %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	return cfg, nil
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in demo config.
func Default() *Config {
	cfg, err := Parse(defaultConfig)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Enabled reports whether the config lists the plugin.
func (c *Config) Enabled(name string) bool {
	_, ok := c.Plugins[name]
	return ok
}

// Options returns the decoder for a plugin's section, or nil when the
// plugin has none so the loader keeps its defaults.
func (c *Config) Options(name string) host.OptionDecoder {
	n, ok := c.Plugins[name]
	if !ok || n.Kind == 0 || n.ShortTag() == "!!null" {
		return nil
	}
	return &n
}

// ClampColor limits every component to [0,1].
func ClampColor(c [4]float32) [4]float32 {
	for i := range c {
		c[i] = min(max(c[i], 0), 1)
	}
	return c
}

// MaxOffset is the largest face offset accepted for decals.
const MaxOffset = 0.1

// ClampOffset limits a decal face offset to [0, MaxOffset].
func ClampOffset(o float32) float32 {
	return min(max(o, 0), MaxOffset)
}
