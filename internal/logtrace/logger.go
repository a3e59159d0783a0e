// Package logtrace adapts zerolog to the printcart.Logger interface.
package logtrace

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is a printcart.Logger writing structured entries through zerolog.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger writing JSON lines to w at the given minimum level.
func New(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{
		zl: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// NewConsole creates a human-readable logger on stderr. Debug entries are
// only written when verbose is set.
func NewConsole(verbose bool) *Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}

	return New(writer, level)
}

// Zerolog returns the underlying zerolog logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

// Info logs at info level.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.zl.Info().Fields(fields).Msg(msg)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

// Error logs at error level.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.zl.Error().Fields(fields).Msg(msg)
}
