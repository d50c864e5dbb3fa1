package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ganttline/internal/errors"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(Config{Level: level, Format: format, Output: NewOutput(&buf), ServiceName: "ganttline"}), &buf
}

func TestLogLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestJSONFormatOutput(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.Info("task moved", "task_id", "a1", "delta", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "task moved", entry["msg"])
	assert.Equal(t, "a1", entry["task_id"])
	assert.Equal(t, float64(7), entry["delta"])
	assert.Equal(t, "ganttline", entry["service"])
}

func TestWithError_CodedError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	err := errors.NewTaskNotFoundError("missing")
	logger.WithError(err).Warn("lookup failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "SCHED-004", entry["error_code"])
	assert.NotEmpty(t, entry["suggestions"])
}

func TestLogError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.LogError("persist failed", errors.Wrap(errors.ErrCodeStoreIO, "write", assert.AnError))
	logger.LogError("ignored", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "STORE-002", entry["error_code"])
	assert.Equal(t, assert.AnError.Error(), entry["cause"])
}

func TestNopDiscardsEverything(t *testing.T) {
	logger := Nop()
	assert.False(t, logger.Enabled(context.Background(), LevelWarn))
	logger.Error("nothing to see")
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom("debug", "json")
	assert.Equal(t, LevelDebug, cfg.Level)
	assert.Equal(t, FormatJSON, cfg.Format)

	cfg = ConfigFrom("", "")
	assert.Equal(t, LevelInfo, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	SetDefaultLogger(nil)
	t.Cleanup(func() { SetDefaultLogger(nil) })

	fallback := DefaultLogger()
	require.NotNil(t, fallback)
	assert.False(t, fallback.Enabled(context.Background(), LevelError))

	custom, buf := newBufferLogger(LevelInfo, FormatText)
	SetDefaultLogger(custom)
	assert.Same(t, custom, DefaultLogger())

	OrDefault(nil).Info("from fallback")
	assert.Contains(t, buf.String(), "from fallback")

	own := Nop()
	assert.Same(t, own, OrDefault(own))
}
