package log

import (
	"io"
	"os"
	"strings"
)

// Format selects the slog handler.
type Format int

// Formats accepted in logging.format.
const (
	FormatText Format = iota
	FormatJSON
)

// ParseFormat maps a logging.format setting to a Format; only "json"
// selects JSON.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatText
}

// Output is the destination of log records, stderr when unset.
type Output struct {
	writer io.Writer
}

// Writer returns the destination writer.
func (o Output) Writer() io.Writer {
	if o.writer == nil {
		return os.Stderr
	}
	return o.writer
}

// NewOutput writes records to w.
func NewOutput(w io.Writer) Output {
	return Output{writer: w}
}

// Config configures a Logger.
type Config struct {
	Level  Level
	Format Format
	Output Output

	// AddSource adds file:line to every record.
	AddSource bool

	// ServiceName is attached to every record when non-empty.
	ServiceName string
}

// DefaultConfig logs warnings as text to stderr, keeping stdout free for
// command output.
func DefaultConfig() Config {
	return Config{Level: LevelWarn, Format: FormatText, ServiceName: "ganttline"}
}

// ConfigFrom builds a Config from the logging.level and logging.format
// settings.
func ConfigFrom(level, format string) Config {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)
	cfg.Format = ParseFormat(format)
	return cfg
}
