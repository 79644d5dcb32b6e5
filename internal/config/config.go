// Package config handles the XDG configuration directory and the optional
// config.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// LogFile receives logs while the interactive UI owns the terminal.
	LogFile = "todo.log"

	// DefaultBaseURL is where json-server listens by default.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout bounds each API call.
	DefaultTimeout = 5 * time.Second

	// EnvBaseURL overrides base_url from the config file.
	EnvBaseURL = "TODO_BASE_URL"

	// EnvLogLevel overrides log_level from the config file.
	EnvLogLevel = "TODO_LOG_LEVEL"
)

// ErrInvalidConfig marks errors caused by bad settings rather than the backend.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the root of the remote task collection.
	BaseURL string

	// Timeout bounds each API call.
	Timeout time.Duration

	// LogLevel is a logrus level name. Empty means warn.
	LogLevel string

	// LogFormat is "text" or "json".
	LogFormat string

	// MetricsAddr, when set, serves Prometheus metrics while the UI runs.
	MetricsAddr string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Logger is set by the dispatcher once flags are parsed.
	Logger *logrus.Logger
}

// fileConfig is the on-disk shape of config.yaml.
type fileConfig struct {
	BaseURL     string `yaml:"base_url"`
	Timeout     string `yaml:"timeout"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
// A missing config.yaml is not an error.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:       dir,
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		LogFormat: "text",
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

func (c *Config) load() error {
	data, err := os.ReadFile(c.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, ConfigFile, err)
	}

	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: timeout: %q", ErrInvalidConfig, fc.Timeout)
		}
		c.Timeout = d
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		c.LogFormat = fc.LogFormat
	}
	c.MetricsAddr = fc.MetricsAddr
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path to config.yaml.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path of the UI log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
