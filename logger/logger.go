package logger

// Logger defines the interface for logging. The core query path never
// logs; the registry logs registration and lookup events when given a
// Logger.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
