package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ganttline/internal/errors"
	"github.com/felixgeelhaar/ganttline/internal/persist"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, persist.DriverFile, cfg.Storage.Driver)
	assert.Equal(t, persist.DefaultKey, cfg.Storage.Key)
	assert.True(t, cfg.Schedule.RejectCycles)
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  driver: sqlite
  path: /tmp/tasks.db
  busy_timeout: 250ms
logging:
  level: debug
schedule:
  reject_cycles: false
`), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/tasks.db", cfg.Storage.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.Storage.BusyTimeout)
	assert.Equal(t, persist.DefaultKey, cfg.Storage.Key, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.Schedule.RejectCycles)
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0o600))

	_, err := Load(path)

	assert.Equal(t, errors.ErrCodeConfigParse, errors.CodeOf(err))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Storage.Driver = persist.DriverMemory
	cfg.Display.NoColor = true

	require.NoError(t, Save(cfg, path))
	loaded, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvStorageDriver: "memory",
		EnvLogLevel:      "error",
	}
	cfg := Default()
	path := cfg.Storage.Path

	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, path, cfg.Storage.Path)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"memory needs no path", func(c *Config) { c.Storage.Driver = "memory"; c.Storage.Path = "" }, true},
		{"file needs path", func(c *Config) { c.Storage.Path = " " }, false},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "redis" }, false},
		{"negative timeout", func(c *Config) { c.Storage.BusyTimeout = -time.Second }, false},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, false},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, false},
		{"bad display format", func(c *Config) { c.Display.Format = "csv" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, errors.ErrCodeConfigInvalid, errors.CodeOf(err))
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("storage.busy_timeout", "2s"))
	require.NoError(t, cfg.Set("schedule.reject_cycles", "no"))
	require.NoError(t, cfg.Set("display.no_color", "yes"))

	v, err := cfg.Get("storage.busy_timeout")
	require.NoError(t, err)
	assert.Equal(t, "2s", v)
	v, err = cfg.Get("schedule.reject_cycles")
	require.NoError(t, err)
	assert.Equal(t, "false", v)
	v, err = cfg.Get("display.no_color")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	assert.Error(t, cfg.Set("storage.busy_timeout", "soon"))
	assert.Error(t, cfg.Set("nope", "x"))
	_, err = cfg.Get("nope")
	assert.Error(t, err)
}

func TestStorageOptions(t *testing.T) {
	cfg := Default()

	opts := cfg.StorageOptions()

	assert.Equal(t, cfg.Storage.Driver, opts.Driver)
	assert.Equal(t, cfg.Storage.Path, opts.Path)
	assert.Equal(t, cfg.Storage.BusyTimeout, opts.BusyTimeout)
}
