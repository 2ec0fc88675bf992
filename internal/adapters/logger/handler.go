package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// PlainHandler is a slog.Handler producing compact, human-readable lines
// without timestamps, suitable for terminals and golden tests. Continuation
// lines of multi-line messages are indented to align under the first line.
type PlainHandler struct {
	mu    sync.Mutex
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
}

// NewPlainHandler creates a PlainHandler writing to w.
func NewPlainHandler(w io.Writer, opts *slog.HandlerOptions) *PlainHandler {
	if w == nil {
		w = os.Stderr
	}
	level := slog.Leveler(slog.LevelInfo)
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &PlainHandler{w: w, level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PlainHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PlainHandler) Handle(_ context.Context, r slog.Record) error {
	var tag string
	switch {
	case r.Level >= slog.LevelError:
		tag = "error"
	case r.Level >= slog.LevelWarn:
		tag = "warn"
	default:
		tag = "info"
	}

	var b strings.Builder
	lines := strings.Split(r.Message, "\n")
	b.WriteString(tag)
	b.WriteString(strings.Repeat(" ", 6-len(tag)))
	b.WriteString(lines[0])
	for _, line := range lines[1:] {
		b.WriteString("\n      ")
		b.WriteString(line)
	}

	appendAttr := func(a slog.Attr) bool {
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString("=")
		b.WriteString(a.Value.String())
		return true
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(appendAttr)
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a handler whose records carry the given attributes.
func (h *PlainHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := &PlainHandler{w: h.w, level: h.level}
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return clone
}

// WithGroup returns the handler unchanged; groups are not used by ripple's
// logging surface.
func (h *PlainHandler) WithGroup(string) slog.Handler {
	return h
}
