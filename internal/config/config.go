// Package config provides application configuration with multi-source
// priority.
//
// Sources, highest to lowest:
//  1. Environment variables (GEOKIT_*)
//  2. Config file (~/.geokit/config.yaml)
//  3. Defaults
//
// Error handling uses sentinel errors so callers can check with errors.Is and
// wrap with fmt.Errorf("%w: details", ErrXxx).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidDataDir indicates the data directory is invalid.
	ErrInvalidDataDir = errors.New("invalid data directory")

	// ErrInvalidMaxFeatures indicates the feature cap is out of range.
	ErrInvalidMaxFeatures = errors.New("invalid max features")

	// ErrInvalidMaxFileSize indicates the file size cap is out of range.
	ErrInvalidMaxFileSize = errors.New("invalid max file size")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Defaults.
const (
	DefaultMaxFeatures   = 10000
	DefaultMaxFileSizeMB = 64
)

// Config holds all geokit settings.
type Config struct {
	// DataDir is the directory feature collections are loaded from and saved
	// to. Defaults to ./map_data.
	DataDir string `mapstructure:"data_dir"`

	// MaxFeatures caps how many features a single response may carry.
	MaxFeatures int `mapstructure:"max_features"`

	// MaxFileSizeMB caps the size of a loadable document, in megabytes.
	MaxFileSizeMB int `mapstructure:"max_file_size_mb"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// LogJSON switches log output to JSON format.
	LogJSON bool `mapstructure:"log_json"`
}

// Load reads configuration from defaults, an optional config file, and the
// environment, then validates the result.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("data_dir", "map_data")
	v.SetDefault("max_features", DefaultMaxFeatures)
	v.SetDefault("max_file_size_mb", DefaultMaxFileSizeMB)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".geokit"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("GEOKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks all settings, returning the first violation.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidDataDir)
	}
	if c.MaxFeatures < 1 {
		return fmt.Errorf("%w: %d, must be >= 1", ErrInvalidMaxFeatures, c.MaxFeatures)
	}
	if c.MaxFileSizeMB < 1 || c.MaxFileSizeMB > 4096 {
		return fmt.Errorf("%w: %d, must be in [1, 4096]", ErrInvalidMaxFileSize, c.MaxFileSizeMB)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}
