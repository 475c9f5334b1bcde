package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// StdOutLogger implements the Logger interface using charmbracelet/log
// writing formatted output to stdout.
type StdOutLogger struct {
	logger *log.Logger
}

// Ensure StdOutLogger implements the Logger interface
var _ Logger = (*StdOutLogger)(nil)

// NewStdOutLogger creates a new StdOutLogger logging at debug level
func NewStdOutLogger() *StdOutLogger {
	l := log.New(os.Stdout)
	l.SetLevel(log.DebugLevel)

	return &StdOutLogger{logger: l}
}

// NewStdOutLoggerWithLevel creates a new StdOutLogger logging at the
// given level
func NewStdOutLoggerWithLevel(level log.Level) *StdOutLogger {
	l := log.New(os.Stdout)
	l.SetLevel(level)

	return &StdOutLogger{logger: l}
}

func (l *StdOutLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *StdOutLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *StdOutLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *StdOutLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}
