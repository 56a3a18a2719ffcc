package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// Default creates a charm log on stdout that respects the global log level
func Default(prefix string) *log.Logger {
	return NewWithConfig(os.Stdout, prefix, log.GetLevel(), false, false, log.TextFormatter)
}

// Stderr is Default on stderr, for processes whose stdout carries data.
func Stderr(prefix string) *log.Logger {
	return NewWithConfig(os.Stderr, prefix, log.GetLevel(), false, false, log.TextFormatter)
}

// SetGlobal points the package-level charm logger at stderr with the given
// level. Library packages log through it.
func SetGlobal(level log.Level) {
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
}
