// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"dive-pricing/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Pricing contains pricing engine settings
	Pricing PricingConfig `json:"pricing"`

	// Engine contains backend delegation settings
	Engine EngineConfig `json:"engine"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// DefaultCurrency is the currency used when a request omits one
	DefaultCurrency string `json:"default_currency"`

	// DataPath is the reference-data fixture (agreements and prices)
	DataPath string `json:"data_path"`
}

// EngineConfig selects the calculation backend.
//
// Backend "local" runs every calculation in-process. Backend "remote"
// delegates to the standalone pricing service at RemoteURL and falls back
// to the local implementation when the service is unreachable.
type EngineConfig struct {
	// Backend is "local" or "remote"
	Backend string `json:"backend"`

	// RemoteURL is the base URL of the remote pricing service
	RemoteURL string `json:"remote_url,omitempty"`

	// TimeoutMs bounds each remote call, including the health check
	TimeoutMs int `json:"timeout_ms"`

	// FallbackEnabled controls whether remote unavailability falls back
	// to the local implementation instead of surfacing an error
	FallbackEnabled bool `json:"fallback_enabled"`
}

// Timeout returns the remote call timeout as a duration
func (e EngineConfig) Timeout() time.Duration {
	if e.TimeoutMs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(e.TimeoutMs) * time.Millisecond
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Address to listen on
	Address string `json:"address"`

	// ReadTimeoutSec for requests
	ReadTimeoutSec int `json:"read_timeout_sec"`

	// WriteTimeoutSec for responses
	WriteTimeoutSec int `json:"write_timeout_sec"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataPath := filepath.Join(homeDir, ".dive-pricing", "pricing.hcl")

	return &Config{
		Version: "1.0",
		Pricing: PricingConfig{
			DefaultCurrency: "MXN",
			DataPath:        dataPath,
		},
		Engine: EngineConfig{
			Backend:         "local",
			TimeoutMs:       5000,
			FallbackEnabled: true,
		},
		Server: ServerConfig{
			Address:         ":8090",
			ReadTimeoutSec:  30,
			WriteTimeoutSec: 60,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
