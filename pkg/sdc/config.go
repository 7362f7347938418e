package sdc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML streaming configuration an application may ship next to
// its chunk data. All fields are optional; zero values fall back to the
// defaults of DefaultStreamerOptions.
//
// Example config file:
//
//	manifest: data/chunks/manifest.json
//	load_radius: 1200
//	unload_radius: 1800
//	max_loaded_chunks: 24
//	probe_height: 250
//	strict_bounds: false
//	debug: true
type Config struct {
	Manifest        string  `yaml:"manifest"`
	LoadRadius      float32 `yaml:"load_radius"`
	UnloadRadius    float32 `yaml:"unload_radius"`
	MaxLoadedChunks int     `yaml:"max_loaded_chunks"`
	ProbeHeight     float32 `yaml:"probe_height"`
	StrictBounds    bool    `yaml:"strict_bounds"`
	Debug           bool    `yaml:"debug"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks field ranges. Zero values are allowed; set fields must be
// sensible.
func (c *Config) Validate() error {
	if c.LoadRadius < 0 {
		return fmt.Errorf("load_radius %v must not be negative", c.LoadRadius)
	}
	if c.UnloadRadius < 0 {
		return fmt.Errorf("unload_radius %v must not be negative", c.UnloadRadius)
	}
	if c.LoadRadius > 0 && c.UnloadRadius > 0 && c.UnloadRadius < c.LoadRadius {
		return fmt.Errorf("unload_radius %v must be >= load_radius %v", c.UnloadRadius, c.LoadRadius)
	}
	if c.MaxLoadedChunks < 0 {
		return fmt.Errorf("max_loaded_chunks %d must not be negative", c.MaxLoadedChunks)
	}
	return nil
}

// StreamerOptions converts the config into streaming options, filling
// defaults for unset fields.
func (c *Config) StreamerOptions() StreamerOptions {
	opts := StreamerOptions{
		LoadRadius:      c.LoadRadius,
		UnloadRadius:    c.UnloadRadius,
		MaxLoadedChunks: c.MaxLoadedChunks,
		ProbeHeight:     c.ProbeHeight,
		Parser: NewParserWithOptions(ParseOptions{
			StrictBounds:    c.StrictBounds,
			ValidateIndices: true,
		}),
	}
	if c.Debug {
		opts.Logger = NewStderrLogger(true)
	}
	opts.fillDefaults()
	return opts
}
