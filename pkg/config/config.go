// Package config provides configuration loading and management for brukerconv.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Scan selection and decoding parameters
	Scan struct {
		// SubScan selects the pdata/<n> reconstruction; values below 1 mean 1
		SubScan int `yaml:"subScan"`

		// Encoding names the character set of the parameter files
		Encoding string `yaml:"encoding"`

		// SkipInitialFrames drops leading slices before slope correction
		SkipInitialFrames int `yaml:"skipInitialFrames"`
	} `yaml:"scan"`

	// Output parameters
	Output struct {
		// DumpDir receives one "<role>.txt" dump per parameter file when set
		DumpDir string `yaml:"dumpDir"`

		// Workbook is the path of the .xlsx parameter report when set
		Workbook string `yaml:"workbook"`

		// PreviewDir receives JPEG slice sequences when set
		PreviewDir string `yaml:"previewDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Scan.SubScan = 1
	cfg.Scan.Encoding = "latin1"
	cfg.Scan.SkipInitialFrames = 0

	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if cfg.Scan.SubScan < 1 {
		cfg.Scan.SubScan = 1
	}
	if cfg.Scan.SkipInitialFrames < 0 {
		return nil, fmt.Errorf("skipInitialFrames must be non-negative, got %d", cfg.Scan.SkipInitialFrames)
	}

	return cfg, nil
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
