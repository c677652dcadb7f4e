package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// DebugEnvVar enables verbose diagnostic logging when set to any
// non-empty value.
const DebugEnvVar = "NOTESOCK_DEBUG"

// diagPrefix tags every diagnostic line.
const diagPrefix = "notesock"

// StderrHandler is an slog.Handler producing level-tagged single-line
// diagnostics:
//
//	[notesock][INFO] message key=value
type StderrHandler struct {
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
	group string
	mu    *sync.Mutex
}

// NewStderrHandler creates a handler writing to w at the given level.
func NewStderrHandler(w io.Writer, level slog.Leveler) *StderrHandler {
	return &StderrHandler{w: w, level: level, mu: &sync.Mutex{}}
}

// NewDiagnosticLogger builds the standard diagnostic logger: level-tagged
// lines on stderr, debug level when NOTESOCK_DEBUG is set.
func NewDiagnosticLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv(DebugEnvVar) != "" {
		level = slog.LevelDebug
	}
	return slog.New(NewStderrHandler(os.Stderr, level))
}

// Enabled reports whether the handler handles records at the given level.
func (h *StderrHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes one record.
func (h *StderrHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s][%s] %s", diagPrefix, levelTag(r.Level), r.Message)
	for _, a := range h.attrs {
		// Carried attrs were qualified when added.
		appendAttr(&b, a, "")
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, a, h.group)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func appendAttr(b *strings.Builder, a slog.Attr, group string) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	fmt.Fprintf(b, " %s=%v", key, a.Value.Resolve())
}

// WithAttrs returns a handler whose records carry the given attributes.
// Keys are qualified with the handler's current group.
func (h *StderrHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	qualified := append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		qualified = append(qualified, a)
	}
	nh.attrs = qualified
	return &nh
}

// WithGroup returns a handler qualifying attribute keys with name.
func (h *StderrHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if h.group != "" {
		nh.group = h.group + "." + name
	} else {
		nh.group = name
	}
	return &nh
}

func levelTag(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

// Compile-time interface satisfaction check.
var _ slog.Handler = (*StderrHandler)(nil)
