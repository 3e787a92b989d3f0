// Package config loads ledgerbook.yaml (or a .toml equivalent) and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// FileName is the default configuration file name.
const FileName = "ledgerbook.yaml"

// Environment variables that override file values.
const (
	EnvDBPath      = "LEDGERBOOK_DB_PATH"
	EnvOwner       = "LEDGERBOOK_OWNER"
	EnvOwnerStatus = "LEDGERBOOK_OWNER_STATUS"
	EnvLogLevel    = "LEDGERBOOK_LOG_LEVEL"
)

// Config represents the top-level ledgerbook.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Owner    OwnerConfig    `yaml:"owner" toml:"owner"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// DatabaseConfig locates the SQLite ledger file.
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"` // relative paths resolve against the config file's directory
}

// OwnerConfig identifies the owner the CLI acts for.
type OwnerConfig struct {
	ID     string `yaml:"id" toml:"id"`
	Status string `yaml:"status" toml:"status"`
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a config file from disk. Files ending in .toml are parsed as
// TOML, anything else as YAML. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Resolve builds the effective configuration for path: the file if it
// exists (defaults otherwise), then a .env file next to it, then the
// process environment. The result is validated.
func Resolve(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envPath, err)
	}
	cfg.ApplyEnv()

	if cfg.Database.Path != "" && !filepath.IsAbs(cfg.Database.Path) {
		cfg.Database.Path = filepath.Join(filepath.Dir(path), cfg.Database.Path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file values with any LEDGERBOOK_* variables that are set.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvDBPath); ok {
		c.Database.Path = v
	}
	if v, ok := os.LookupEnv(EnvOwner); ok {
		c.Owner.ID = v
	}
	if v, ok := os.LookupEnv(EnvOwnerStatus); ok {
		c.Owner.Status = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Logging.Level = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("config: database.path is required")
	}
	if c.Owner.ID == "" {
		return errors.New("config: owner.id is required")
	}
	switch model.Status(c.Owner.Status) {
	case model.StatusOpen, model.StatusClosed:
	default:
		return fmt.Errorf("config: owner.status must be open or closed, got %q", c.Owner.Status)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown logging.level %q", c.Logging.Level)
	}
	return nil
}

// OwnerIdentity returns the configured owner as the engine sees it.
func (c *Config) OwnerIdentity() model.Owner {
	return model.Owner{ID: c.Owner.ID, Status: model.Status(c.Owner.Status)}
}

// Save writes a Config as YAML, or TOML for a .toml path.
func Save(path string, cfg *Config) error {
	var data []byte
	var err error
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "ledgerbook.db"},
		Owner: OwnerConfig{
			ID:     "default",
			Status: string(model.StatusOpen),
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
