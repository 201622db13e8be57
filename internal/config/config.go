package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file looked up in the working directory.
const FileName = "billcollector.yaml"

// Environment overrides, applied after the file is read.
const (
	EnvDatabasePath = "BILLCOLLECTOR_DB"
	EnvLogLevel     = "LOG_LEVEL"
)

// Config represents the top-level billcollector.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LedgerConfig controls balance bookkeeping.
type LedgerConfig struct {
	// ReverseOnDelete undoes an unpaid bill's split when it is deleted.
	ReverseOnDelete bool `yaml:"reverse_on_delete"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads a billcollector.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDatabasePath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Default returns a Config with sensible defaults for a new household.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "bills.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
