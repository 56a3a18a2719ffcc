// Package logger builds the charm loggers used by the corrector, the servers
// and the CLI. Stdout may carry query results or IPC frames, so every logger
// here is handed its writer explicitly or defaults to stderr.
package logger

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// Details is the per-query details logger. It logs at info whatever the
// global level, since details are only produced when asked for.
func Details(w io.Writer) *log.Logger {
	return NewWithConfig(w, "details", log.InfoLevel, false, false, log.TextFormatter)
}

// Timing reports phase durations with a timestamp.
func Timing(w io.Writer) *log.Logger {
	return NewWithConfig(w, "time", log.InfoLevel, false, true, log.TextFormatter)
}

// Discard drops everything, for tests and quiet embedding.
func Discard(prefix string) *log.Logger {
	return NewWithConfig(io.Discard, prefix, log.FatalLevel, false, false, log.TextFormatter)
}
