package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Locator LocatorConfig `json:"locator"`
	Oracle  OracleConfig  `json:"oracle"`
	Send    SendConfig    `json:"send"`
	Output  OutputConfig  `json:"output"`
}

// LocatorConfig holds the refinement parameters
type LocatorConfig struct {
	GridWidth      int     `json:"grid_width"`
	Iterations     int     `json:"iterations"`
	PaddingFactor  float64 `json:"padding_factor"`
	MinTargetSize  float64 `json:"min_target_size"`
	QueryTimeoutMS int     `json:"query_timeout_ms"`
}

// OracleConfig holds the vision model backend settings
type OracleConfig struct {
	Backend string `json:"backend"` // ollama or llamacpp
	URL     string `json:"url"`
	Model   string `json:"model"`
}

// SendConfig controls the image payload sent to the model
type SendConfig struct {
	Format  string `json:"format"` // jpg or png
	MaxDim  int    `json:"max_dim"`
	Quality int    `json:"quality"`
}

// OutputConfig holds debug artifact settings
type OutputConfig struct {
	DebugDir    string `json:"debug_dir"`
	DebugFormat string `json:"debug_format"`
	Quality     int    `json:"quality"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Locator: LocatorConfig{
			GridWidth:      4,
			Iterations:     3,
			PaddingFactor:  2.0,
			MinTargetSize:  0,
			QueryTimeoutMS: 120000,
		},
		Oracle: OracleConfig{
			Backend: "ollama",
			URL:     "http://localhost:11434",
			Model:   "openbmb/minicpm-v4.5",
		},
		Send: SendConfig{
			Format:  "jpg",
			MaxDim:  1536,
			Quality: 85,
		},
		Output: OutputConfig{
			DebugDir:    "./out",
			DebugFormat: "png",
			Quality:     92,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Locator.GridWidth < 1 {
		return fmt.Errorf("locator.grid_width must be at least 1")
	}

	if c.Locator.Iterations < 1 {
		return fmt.Errorf("locator.iterations must be at least 1")
	}

	if c.Locator.PaddingFactor < 1 {
		return fmt.Errorf("locator.padding_factor must be at least 1")
	}

	if c.Locator.MinTargetSize < 0 {
		return fmt.Errorf("locator.min_target_size must not be negative")
	}

	if c.Locator.QueryTimeoutMS < 0 {
		return fmt.Errorf("locator.query_timeout_ms must not be negative")
	}

	if c.Oracle.Backend != "ollama" && c.Oracle.Backend != "llamacpp" {
		return fmt.Errorf("oracle.backend must be ollama or llamacpp")
	}

	if c.Oracle.Model == "" {
		return fmt.Errorf("oracle.model cannot be empty")
	}

	if c.Send.Format != "jpg" && c.Send.Format != "png" {
		return fmt.Errorf("send.format must be jpg or png")
	}

	if c.Send.Quality < 1 || c.Send.Quality > 100 {
		return fmt.Errorf("send.quality must be between 1 and 100")
	}

	if c.Send.MaxDim < 0 {
		return fmt.Errorf("send.max_dim must not be negative")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "ui-locator", "config.json")
}
