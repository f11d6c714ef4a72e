// Package config loads the service configuration from an optional TOML or
// YAML file and the process environment.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables read by [Config.ApplyEnv].
const (
	EnvEmail        = "TIDAL_EMAIL"
	EnvPassword     = "TIDAL_PASSWORD"
	EnvClientID     = "TIDAL_CLIENT_ID"
	EnvClientSecret = "TIDAL_CLIENT_SECRET"
	EnvCountryCode  = "TIDAL_COUNTRY_CODE"
	EnvLogLevel     = "LOG_LEVEL"
)

// Config is the full service configuration.
type Config struct {
	Tidal TidalConfig `toml:"tidal" yaml:"tidal"`
	Log   LogConfig   `toml:"log" yaml:"log"`
}

// TidalConfig holds the catalog client settings. Email and Password never
// come from a file.
type TidalConfig struct {
	Email          string `toml:"-" yaml:"-"`
	Password       string `toml:"-" yaml:"-"`
	ClientID       string `toml:"client_id" yaml:"client_id"`
	ClientSecret   string `toml:"client_secret" yaml:"client_secret"`
	AuthURL        string `toml:"auth_url" yaml:"auth_url"`
	APIURL         string `toml:"api_url" yaml:"api_url"`
	CountryCode    string `toml:"country_code" yaml:"country_code"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`

	// RequestsPerSecond paces outgoing API calls; 0 disables pacing.
	RequestsPerSecond float64 `toml:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `toml:"burst" yaml:"burst"`
}

// LogConfig controls the logger level and the optional rotated log file.
type LogConfig struct {
	Level      string `toml:"level" yaml:"level"`
	File       string `toml:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
}

// Timeout returns the catalog HTTP timeout.
func (t TidalConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// Default returns a Config populated from the embedded example config.
func Default() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Load reads the file at path over the defaults. The format is picked from
// the extension: .toml, .yaml or .yml. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// ApplyEnv copies credentials and overrides from the environment. getenv is
// usually [os.Getenv].
func (c *Config) ApplyEnv(getenv func(string) string) {
	c.Tidal.Email = strings.TrimSpace(getenv(EnvEmail))
	c.Tidal.Password = getenv(EnvPassword)

	if v := getenv(EnvClientID); v != "" {
		c.Tidal.ClientID = v
	}
	if v := getenv(EnvClientSecret); v != "" {
		c.Tidal.ClientSecret = v
	}
	if v := getenv(EnvCountryCode); v != "" {
		c.Tidal.CountryCode = strings.ToUpper(v)
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate reports ErrMissingCredentials when either credential is empty and
// ErrInvalidConfig for unusable catalog settings.
func (c *Config) Validate() error {
	if c.Tidal.Email == "" || c.Tidal.Password == "" {
		return ErrMissingCredentials
	}
	if c.Tidal.AuthURL == "" || c.Tidal.APIURL == "" {
		return fmt.Errorf("%w: auth_url and api_url must be set", ErrInvalidConfig)
	}
	if c.Tidal.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: timeout_seconds must not be negative", ErrInvalidConfig)
	}
	if c.Tidal.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must not be negative", ErrInvalidConfig)
	}
	return nil
}
