// Package config loads pbb settings from ~/.config/pbb/config.json with
// PBB_* environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/nikbrunner/pbb/internal/storage"
)

// Config holds application configuration.
type Config struct {
	APIBaseURL        string
	SiteURL           string
	Storage           storage.Kind
	DataDir           string
	LogLevel          string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	CheckConcurrency  int
}

// fileConfig is the on-disk shape of Config.
type fileConfig struct {
	APIBaseURL        string  `json:"api_base_url"`
	SiteURL           string  `json:"site_url"`
	Storage           string  `json:"storage"`
	DataDir           string  `json:"data_dir"`
	LogLevel          string  `json:"log_level"`
	RequestTimeout    string  `json:"request_timeout"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	CheckConcurrency  int     `json:"check_concurrency"`
}

const (
	DefaultAPIBaseURL        = "https://localhost:8443"
	DefaultRequestTimeout    = 10 * time.Second
	DefaultRequestsPerSecond = 5
	DefaultCheckConcurrency  = 4
)

// DefaultConfig returns the default configuration. DataDir is left empty
// and resolves to the config file's directory on load.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:        DefaultAPIBaseURL,
		SiteURL:           DefaultAPIBaseURL,
		Storage:           storage.KindJSON,
		LogLevel:          "warn",
		RequestTimeout:    DefaultRequestTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
		CheckConcurrency:  DefaultCheckConcurrency,
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("api_base_url", d.APIBaseURL)
	v.SetDefault("site_url", d.SiteURL)
	v.SetDefault("storage", string(d.Storage))
	v.SetDefault("data_dir", "")
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("request_timeout", d.RequestTimeout.String())
	v.SetDefault("requests_per_second", d.RequestsPerSecond)
	v.SetDefault("check_concurrency", d.CheckConcurrency)
}

// LoadConfig reads config from the JSON file at path.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PBB")
	v.AutomaticEnv()

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		defaults := DefaultConfig()
		// Non-fatal: defaults still apply if the file can't be written.
		_ = SaveConfig(path, &defaults)
	} else {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		APIBaseURL:        v.GetString("api_base_url"),
		SiteURL:           v.GetString("site_url"),
		Storage:           storage.Kind(v.GetString("storage")),
		DataDir:           v.GetString("data_dir"),
		LogLevel:          v.GetString("log_level"),
		RequestTimeout:    v.GetDuration("request_timeout"),
		RequestsPerSecond: v.GetFloat64("requests_per_second"),
		CheckConcurrency:  v.GetInt("check_concurrency"),
	}

	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Dir(path)
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = cfg.APIBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.CheckConcurrency < 1 {
		cfg.CheckConcurrency = 1
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	switch c.Storage {
	case storage.KindJSON, storage.KindSQLite, storage.KindMemory, "":
	default:
		return fmt.Errorf("invalid storage %q: want json, sqlite or memory", c.Storage)
	}
	if c.APIBaseURL == "" {
		return errors.New("api_base_url must not be empty")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %v", c.RequestsPerSecond)
	}
	return nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	fc := fileConfig{
		APIBaseURL:        config.APIBaseURL,
		SiteURL:           config.SiteURL,
		Storage:           string(config.Storage),
		DataDir:           config.DataDir,
		LogLevel:          config.LogLevel,
		RequestTimeout:    config.RequestTimeout.String(),
		RequestsPerSecond: config.RequestsPerSecond,
		CheckConcurrency:  config.CheckConcurrency,
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultDir returns ~/.config/pbb.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "pbb"), nil
}

// DefaultConfigFilePath returns the default config path: ~/.config/pbb/config.json
func DefaultConfigFilePath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath returns the TUI log file inside the data directory.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "pbb.log")
}
