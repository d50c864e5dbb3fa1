// Package config loads the ganttline YAML configuration and applies
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/errors"
	"github.com/felixgeelhaar/ganttline/internal/persist"
)

// Environment variables that override file settings.
const (
	EnvStorageDriver = "GANTTLINE_STORAGE_DRIVER"
	EnvStoragePath   = "GANTTLINE_STORAGE_PATH"
	EnvLogLevel      = "GANTTLINE_LOG_LEVEL"
	EnvLogFormat     = "GANTTLINE_LOG_FORMAT"
)

// Config is the complete ganttline configuration.
type Config struct {
	Storage  StorageConfig  `json:"storage" yaml:"storage"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
	Schedule ScheduleConfig `json:"schedule" yaml:"schedule"`
	Display  DisplayConfig  `json:"display" yaml:"display"`
}

type StorageConfig struct {
	Driver      string        `json:"driver" yaml:"driver"` // "file", "sqlite", "memory"
	Path        string        `json:"path,omitempty" yaml:"path,omitempty"`
	Key         string        `json:"key,omitempty" yaml:"key,omitempty"`
	BusyTimeout time.Duration `json:"busy_timeout,omitempty" yaml:"busy_timeout,omitempty"`
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`   // "debug", "info", "warn", "error"
	Format string `json:"format" yaml:"format"` // "text", "json"
}

type ScheduleConfig struct {
	RejectCycles bool `json:"reject_cycles" yaml:"reject_cycles"`
}

type DisplayConfig struct {
	Format     string `json:"format" yaml:"format"` // "text", "json", "yaml"
	NoColor    bool   `json:"no_color,omitempty" yaml:"no_color,omitempty"`
	DateFormat string `json:"date_format,omitempty" yaml:"date_format,omitempty"`
}

// Dir returns the ganttline home directory, ~/.ganttline.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ganttline"), nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the built-in configuration. Tasks are stored as JSON
// documents under ~/.ganttline/data.
func Default() *Config {
	dataDir := "data"
	if dir, err := Dir(); err == nil {
		dataDir = filepath.Join(dir, "data")
	}
	return &Config{
		Storage: StorageConfig{
			Driver:      persist.DriverFile,
			Path:        dataDir,
			Key:         persist.DefaultKey,
			BusyTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Schedule: ScheduleConfig{
			RejectCycles: true,
		},
		Display: DisplayConfig{
			Format:     "text",
			DateFormat: calendar.Layout,
		},
	}
}

// Load reads the configuration at path on top of the defaults. A missing
// file yields the defaults. Environment overrides are not applied; see
// ApplyEnv.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigRead, "failed to read config", err).
			WithSuggestion(fmt.Sprintf("Check permissions on %s", path))
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigParse, "failed to parse config", err).
			WithSuggestion("Run 'ganttline config view' against a fresh file to see the expected layout")
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from the environment. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvStorageDriver); v != "" {
		c.Storage.Driver = v
	}
	if v := getenv(EnvStoragePath); v != "" {
		c.Storage.Path = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
}

// Validate checks that every setting has a usable value.
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.Storage.Driver) {
	case persist.DriverMemory:
	case persist.DriverFile, persist.DriverSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			problems = append(problems, fmt.Sprintf("storage.path is required for the %s driver", c.Storage.Driver))
		}
	default:
		problems = append(problems, fmt.Sprintf("storage.driver %q must be memory, file, or sqlite", c.Storage.Driver))
	}
	if c.Storage.BusyTimeout < 0 {
		problems = append(problems, "storage.busy_timeout cannot be negative")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q is not a known level", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q must be text or json", c.Logging.Format))
	}
	switch c.Display.Format {
	case "text", "json", "yaml":
	default:
		problems = append(problems, fmt.Sprintf("display.format %q must be text, json, or yaml", c.Display.Format))
	}

	if len(problems) > 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "invalid configuration: "+strings.Join(problems, "; ")).
			WithSuggestion("Fix the listed settings with 'ganttline config set <key> <value>'")
	}
	return nil
}

// Get returns a setting by its dotted key, e.g. "storage.driver".
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "storage.driver":
		return c.Storage.Driver, nil
	case "storage.path":
		return c.Storage.Path, nil
	case "storage.key":
		return c.Storage.Key, nil
	case "storage.busy_timeout":
		return c.Storage.BusyTimeout.String(), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "schedule.reject_cycles":
		return strconv.FormatBool(c.Schedule.RejectCycles), nil
	case "display.format":
		return c.Display.Format, nil
	case "display.no_color":
		return strconv.FormatBool(c.Display.NoColor), nil
	case "display.date_format":
		return c.Display.DateFormat, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// Set changes a setting by its dotted key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "storage.driver":
		c.Storage.Driver = value
	case "storage.path":
		c.Storage.Path = value
	case "storage.key":
		c.Storage.Key = value
	case "storage.busy_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("storage.busy_timeout: %w", err)
		}
		c.Storage.BusyTimeout = d
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "schedule.reject_cycles":
		c.Schedule.RejectCycles = parseBool(value)
	case "display.format":
		c.Display.Format = value
	case "display.no_color":
		c.Display.NoColor = parseBool(value)
	case "display.date_format":
		c.Display.DateFormat = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// StorageOptions converts the storage section into persist settings.
func (c *Config) StorageOptions() persist.Config {
	return persist.Config{
		Driver:      c.Storage.Driver,
		Path:        c.Storage.Path,
		Key:         c.Storage.Key,
		BusyTimeout: c.Storage.BusyTimeout,
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "yes" || s == "1"
}
