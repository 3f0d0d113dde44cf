// Package logger provides a simple logging interface for sdnctl components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation. The production
// implementation is backed by zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// zeroLogger adapts a zerolog.Logger to the Logger interface.
type zeroLogger struct {
	zl zerolog.Logger
}

// FromZerolog wraps zl, tagging every event with the given component name.
func FromZerolog(zl zerolog.Logger, component string) Logger {
	if component != "" {
		zl = zl.With().Str("component", component).Logger()
	}
	return &zeroLogger{zl: zl}
}

func (l *zeroLogger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *zeroLogger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

func (l *zeroLogger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *zeroLogger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// NewEnvLogger creates a console logger on stderr that respects the
// SDNCTL_DEBUG environment variable. The component is attached to every line
// (e.g., "poller" or "remote").
func NewEnvLogger(component string) Logger {
	return newEnvLogger(os.Stderr, component)
}

func newEnvLogger(w io.Writer, component string) Logger {
	lvl := zerolog.InfoLevel
	if os.Getenv("SDNCTL_DEBUG") != "" {
		lvl = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}).
		With().
		Timestamp().
		Logger().
		Level(lvl)
	return FromZerolog(zl, component)
}

// New returns a zerolog logger that writes JSON to the specified file.
// If file is empty, logs are written to stderr. The returned closer releases
// the file handle.
//
// The level parameter can be one of: debug, info, warn, error.
func New(level string, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}
	if os.Getenv("SDNCTL_DEBUG") != "" {
		lvl = zerolog.DebugLevel
	}

	var writer io.Writer = os.Stderr
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}

		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, err
		}
		closer = func() { _ = f.Close() }
		writer = f
	}

	l := zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	return l, closer, nil
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing. It is safe for concurrent
// use since pollers and probes log from their own goroutines.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.add("debug", format, args...)
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.add("info", format, args...)
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.add("warn", format, args...)
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.add("error", format, args...)
}

// Entries returns a copy of the captured messages.
func (l *BufferLogger) Entries() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.Messages))
	copy(out, l.Messages)
	return out
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Entries() {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = NewEnvLogger("")
)

// Default returns the default logger for the package.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger for the package.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
