package logger

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// TestLogger implements the Logger interface and buffers log lines,
// replaying them through testing.T only when the test fails. This
// keeps the output of passing tests clean.
type TestLogger struct {
	t     *testing.T
	mu    sync.Mutex
	lines []string
}

// Ensure TestLogger implements the Logger interface
var _ Logger = (*TestLogger)(nil)

// NewTestLogger creates a new TestLogger that outputs buffered logs
// only on test failure
func NewTestLogger(t *testing.T) *TestLogger {
	l := &TestLogger{t: t}
	t.Cleanup(l.flushIfFailed)

	return l
}

func (l *TestLogger) Info(msg string, args ...any) {
	l.append("INFO", msg, args)
}

func (l *TestLogger) Debug(msg string, args ...any) {
	l.append("DEBUG", msg, args)
}

func (l *TestLogger) Warn(msg string, args ...any) {
	l.append("WARN", msg, args)
}

func (l *TestLogger) Error(msg string, args ...any) {
	l.append("ERROR", msg, args)
}

func (l *TestLogger) append(level, msg string, args []any) {
	line := strings.Builder{}
	line.WriteString(level + " " + msg)

	// args are key value pairs, a trailing key without a value is
	// dropped
	for i := 0; i+1 < len(args); i += 2 {
		line.WriteString(fmt.Sprintf(" %v=%v", args[i], args[i+1]))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line.String())
}

func (l *TestLogger) flushIfFailed() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.t.Failed() {
		return
	}

	for _, line := range l.lines {
		l.t.Log(line)
	}
}
