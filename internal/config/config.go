// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"

	"freight-rate/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Rating contains rating engine settings
	Rating RatingConfig `json:"rating"`

	// Cache contains per-domain cache settings
	Cache CacheConfig `json:"cache"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// RatingConfig contains rating-related settings
type RatingConfig struct {
	// DefaultCurrency is the currency reported on rate results
	DefaultCurrency string `json:"default_currency"`

	// SkidFootprintSqIn is the standard skid footprint in square inches
	SkidFootprintSqIn float64 `json:"skid_footprint_sq_in"`

	// DocumentDir is the directory holding HCL rate documents
	DocumentDir string `json:"document_dir"`
}

// CacheDomainConfig sizes a single cache domain
type CacheDomainConfig struct {
	// MaxSize is the maximum number of entries
	MaxSize int `json:"max_size"`

	// TTLSeconds is the entry time-to-live
	TTLSeconds int `json:"ttl_seconds"`
}

// CacheConfig contains settings for each logical cache domain
type CacheConfig struct {
	// Zones caches zone resolutions
	Zones CacheDomainConfig `json:"zones"`

	// Rates caches rate calculations
	Rates CacheDomainConfig `json:"rates"`

	// CarrierConfigs caches carrier configurations
	CarrierConfigs CacheDomainConfig `json:"carrier_configs"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Rating: RatingConfig{
			DefaultCurrency:   "CAD",
			SkidFootprintSqIn: 48 * 48,
			DocumentDir:       "documents",
		},
		Cache: CacheConfig{
			Zones:          CacheDomainConfig{MaxSize: 10000, TTLSeconds: 3600},
			Rates:          CacheDomainConfig{MaxSize: 5000, TTLSeconds: 1800},
			CarrierConfigs: CacheDomainConfig{MaxSize: 500, TTLSeconds: 7200},
		},
		Server: ServerConfig{
			Addr: ":8080",
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
