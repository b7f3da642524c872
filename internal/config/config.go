// Package config loads the YAML configuration shared by tick and tickd.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// AppName is the directory name used under the XDG base directories
const AppName = "tick"

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Console ConsoleConfig `yaml:"console"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type StoreConfig struct {
	// Driver is one of sqlite3, pgx or memory
	Driver string `yaml:"driver"`
	// DSN is the driver specific data source. Empty selects the default
	// SQLite file for sqlite3.
	DSN string `yaml:"dsn"`
}

type ConsoleConfig struct {
	ServerURL      string        `yaml:"server_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Theme          string        `yaml:"theme"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File is where the console writes its log; tickd logs to stderr
	// unless this is set.
	File string `yaml:"file"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              "127.0.0.1:7420",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   5 * time.Second,
		},
		Store: StoreConfig{
			Driver: "sqlite3",
		},
		Console: ConsoleConfig{
			ServerURL:      "http://127.0.0.1:7420",
			RequestTimeout: 15 * time.Second,
			Theme:          "tokyo-night",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/tick/config.yaml or
// $HOME/.config/tick/config.yaml.
func DefaultPath() string {
	return filepath.Join(baseDir("XDG_CONFIG_HOME", ".config"), "config.yaml")
}

// DefaultLogFile returns $XDG_STATE_HOME/tick/tick.log or
// $HOME/.local/state/tick/tick.log.
func DefaultLogFile() string {
	return filepath.Join(baseDir("XDG_STATE_HOME", filepath.Join(".local", "state")), "tick.log")
}

func baseDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, fallback, AppName)
}

// Load reads the file at path over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env string
		dst *string
	}{
		{"TICK_ADDR", &c.Server.Addr},
		{"TICK_DB_DRIVER", &c.Store.Driver},
		{"TICK_DB_DSN", &c.Store.DSN},
		{"TICK_SERVER_URL", &c.Console.ServerURL},
		{"TICK_LOG_LEVEL", &c.Log.Level},
		{"TICK_LOG_FORMAT", &c.Log.Format},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}

// Validate checks values that would otherwise fail later at startup
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite3", "pgx", "memory":
	default:
		return fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "pgx" && c.Store.DSN == "" {
		return errors.New("store.dsn is required for the pgx driver")
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Console.ServerURL == "" {
		return errors.New("console.server_url is required")
	}
	return nil
}

// Save writes the configuration as YAML, creating the directory if needed
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
