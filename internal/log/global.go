package log

import "sync/atomic"

var (
	process atomic.Pointer[Logger]
	silent  = Nop()
)

// SetDefaultLogger installs the logger configured by the command line.
// Passing nil restores the silent fallback.
func SetDefaultLogger(l *Logger) {
	process.Store(l)
}

// DefaultLogger returns the installed process logger, or a logger that
// discards everything when none was installed.
func DefaultLogger() *Logger {
	if l := process.Load(); l != nil {
		return l
	}
	return silent
}

// OrDefault returns l, or DefaultLogger when l is nil.
func OrDefault(l *Logger) *Logger {
	if l != nil {
		return l
	}
	return DefaultLogger()
}
