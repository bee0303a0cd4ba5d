// Package config provides configuration loading and management for
// hogextract. It handles loading configuration from YAML files and provides
// default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the extractor configuration loaded from YAML.
type Config struct {
	// Grid describes the requested descriptor cell grid.
	Grid struct {
		// Cols is the number of cell columns in extracted descriptors.
		Cols int `yaml:"cols"`

		// Rows is the number of cell rows in extracted descriptors.
		Rows int `yaml:"rows"`

		// CellSize is the pixel edge length of one cell.
		CellSize int `yaml:"cellSize"`
	} `yaml:"grid"`

	// Descriptor controls the orientation binning of the cell descriptors.
	Descriptor struct {
		// Bins is the signed orientation bin count; must be even.
		Bins int `yaml:"bins"`

		// Prebinned selects the pipeline that bins gradients once per
		// pyramid layer instead of once per extracted patch.
		Prebinned bool `yaml:"prebinned"`
	} `yaml:"descriptor"`

	// Pyramid controls the scale ladder built for the extractor.
	Pyramid struct {
		// MinWidth is the width of the smallest patches that will be extracted.
		MinWidth int `yaml:"minWidth"`

		// MaxWidth is the width of the biggest patches that will be extracted.
		MaxWidth int `yaml:"maxWidth"`

		// OctaveLayers is the number of pyramid layers per octave.
		OctaveLayers int `yaml:"octaveLayers"`
	} `yaml:"pyramid"`

	// Output controls diagnostic output of the command line front end.
	Output struct {
		// Verbose enables progress output.
		Verbose bool `yaml:"verbose"`

		// LayerDumpDir, when non-empty, receives PNG dumps of all pyramid layers.
		LayerDumpDir string `yaml:"layerDumpDir"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Default cell grid: 8x8 cells of 8x8 pixels.
	cfg.Grid.Cols = 8
	cfg.Grid.Rows = 8
	cfg.Grid.CellSize = 8

	// Default descriptor parameters.
	cfg.Descriptor.Bins = 18
	cfg.Descriptor.Prebinned = false

	// Default pyramid parameters.
	cfg.Pyramid.MinWidth = 64
	cfg.Pyramid.MaxWidth = 256
	cfg.Pyramid.OctaveLayers = 5

	// Default output parameters.
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the extractor would reject.
func (c *Config) Validate() error {
	if c.Grid.Cols <= 0 || c.Grid.Rows <= 0 {
		return fmt.Errorf("config: cell grid must be positive, got %dx%d", c.Grid.Cols, c.Grid.Rows)
	}
	if c.Grid.CellSize <= 0 {
		return fmt.Errorf("config: cell size must be positive, got %d", c.Grid.CellSize)
	}
	if c.Descriptor.Bins <= 0 || c.Descriptor.Bins%2 != 0 {
		return fmt.Errorf("config: bin count must be positive and even, got %d", c.Descriptor.Bins)
	}
	if c.Pyramid.MinWidth <= 0 || c.Pyramid.MaxWidth < c.Pyramid.MinWidth {
		return fmt.Errorf("config: invalid pyramid width range [%d, %d]",
			c.Pyramid.MinWidth, c.Pyramid.MaxWidth)
	}
	if c.Pyramid.OctaveLayers < 1 {
		return fmt.Errorf("config: octave layer count must be at least 1, got %d", c.Pyramid.OctaveLayers)
	}
	return nil
}
