// Package logger implements the logging adapter using log/slog.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.trai.ch/ripple/internal/core/ports"
)

// messager describes an error that can report its own message without the
// chain. This matches the Message() method of zerr.Error; if it is absent,
// errors fall back to standard formatting.
type messager interface {
	Message() string
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing plain output to stderr.
func New() *Logger {
	return &Logger{
		logger: slog.New(NewPlainHandler(os.Stderr, nil)),
		output: os.Stderr,
	}
}

var _ ports.Logger = (*Logger)(nil)

// SetOutput updates the logger's output destination, preserving the current
// JSON mode. A nil writer resets to stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.newHandler())
}

// SetJSON switches between JSON and plain output.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jsonMode = enable
	l.logger = slog.New(l.newHandler())
}

// newHandler builds a handler for the current mode. Callers hold l.mu.
func (l *Logger) newHandler() slog.Handler {
	if l.jsonMode {
		return slog.NewJSONHandler(l.output, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return NewPlainHandler(l.output, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error. zerr chains are unwound so each cause appears on its
// own "caused by" line instead of one run-on string.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	var messages []string
	current := err
	for current != nil {
		if m, ok := current.(messager); ok {
			messages = append(messages, m.Message())
			current = errors.Unwrap(current)
		} else {
			messages = append(messages, current.Error())
			break
		}
	}

	lines := make([]string, 0, len(messages))
	lines = append(lines, messages[0])
	for _, cause := range messages[1:] {
		lines = append(lines, "caused by: "+cause)
	}
	l.logger.Error(strings.Join(lines, "\n"))
}
