// Package config handles pathwise's user configuration.
//
// Config is stored at $XDG_CONFIG_HOME/pathwise/config.yaml (defaults to
// ~/.config/pathwise/config.yaml). Environment variables override file
// values, and command-line flags override both. A .env file next to the
// config file is loaded into the process environment first, so provider
// API keys can live there instead of the shell profile.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/pathwise/internal/logging"
	"github.com/abhisek/pathwise/internal/roadmap"
)

// Config holds user settings. Empty fields mean "use the default".
type Config struct {
	DBPath      string `yaml:"db_path,omitempty"`
	LogLevel    string `yaml:"log_level,omitempty"`
	LogFile     string `yaml:"log_file,omitempty"`
	CustomIDs   string `yaml:"custom_ids,omitempty"`   // fixed | unique
	CatalogPath string `yaml:"catalog_path,omitempty"` // extra roadmaps YAML
}

// Path returns the config file location. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/pathwise/config.yaml.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "pathwise", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "pathwise", "config.yaml")
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:  logging.LevelInfo,
		CustomIDs: string(roadmap.IDFixed),
	}
}

// Load reads the config file at path, or at Path() when path is empty, and
// applies environment overrides. If the file does not exist the defaults
// are used (not an error).
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	if err := LoadEnvFile(EnvFilePath(path)); err != nil {
		return nil, err
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EnvFilePath returns the .env file that sits beside the config file at
// configPath.
func EnvFilePath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), ".env")
}

// LoadEnvFile exports the KEY=value pairs in path. Variables already set in
// the environment win. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// ApplyEnv overrides fields from PATHWISE_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PATHWISE_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("PATHWISE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PATHWISE_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("PATHWISE_CUSTOM_IDS"); v != "" {
		c.CustomIDs = v
	}
	if v := os.Getenv("PATHWISE_CATALOG"); v != "" {
		c.CatalogPath = v
	}
}

// Validate rejects unknown log levels and custom id modes.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := roadmap.ParseIDMode(c.CustomIDs); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// IDMode returns the parsed custom roadmap id mode.
func (c *Config) IDMode() roadmap.IDMode {
	m, err := roadmap.ParseIDMode(c.CustomIDs)
	if err != nil {
		return roadmap.IDFixed
	}
	return m
}

// LogFilePath returns the configured log file or the default location.
func (c *Config) LogFilePath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return logging.DefaultFilePath()
}
