// Package output handles all user-facing CLI output in text, JSON, and
// quiet modes.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

const prefix = "goreads | "

// Mode controls output format.
type Mode int

const (
	ModeText Mode = iota
	ModeJSON
	ModeQuiet
)

// Writer handles all user-facing output.
type Writer struct {
	out  io.Writer
	err  io.Writer
	mode Mode
	now  func() time.Time // injectable clock for testing
}

// New creates a Writer with the given mode, writing to stdout/stderr.
func New(mode Mode) *Writer {
	return NewWithWriters(os.Stdout, os.Stderr, mode)
}

// NewWithWriters creates a Writer with explicit output targets (for testing).
func NewWithWriters(out, errOut io.Writer, mode Mode) *Writer {
	return &Writer{
		out:  out,
		err:  errOut,
		mode: mode,
		now:  time.Now,
	}
}

// SetClock overrides the time source (for testing).
func (w *Writer) SetClock(fn func() time.Time) {
	w.now = fn
}

// Mode returns the writer's output mode.
func (w *Writer) Mode() Mode {
	return w.mode
}

// Out exposes the underlying stdout target for renderers that write
// tables or exported documents directly.
func (w *Writer) Out() io.Writer {
	return w.out
}

// Err exposes the underlying stderr target.
func (w *Writer) Err() io.Writer {
	return w.err
}

// Info prints a goreads-prefixed informational message.
func (w *Writer) Info(msg string) {
	switch w.mode {
	case ModeJSON:
		w.writeJSON("info", msg, "")
	case ModeQuiet:
		// suppress
	default:
		fmt.Fprintf(w.out, "%s%s\n", prefix, msg)
	}
}

// Infof prints a formatted goreads-prefixed informational message.
func (w *Writer) Infof(format string, args ...any) {
	w.Info(fmt.Sprintf(format, args...))
}

// Error prints a goreads-prefixed error message with an optional fix suggestion.
func (w *Writer) Error(msg, fix string) {
	switch w.mode {
	case ModeJSON:
		w.writeJSON("error", msg, fix)
	default:
		fmt.Fprintf(w.err, "%serror: %s\n", prefix, msg)
		if fix != "" {
			fmt.Fprintf(w.err, "%s%s\n", prefix, fix)
		}
	}
}

// Hint prints a goreads-prefixed usage hint to stderr.
func (w *Writer) Hint(msg string) {
	switch w.mode {
	case ModeJSON:
		w.writeJSON("hint", msg, "")
	case ModeQuiet:
		// suppress
	default:
		fmt.Fprintf(w.err, "%shint: %s\n", prefix, msg)
	}
}

func (w *Writer) writeJSON(msgType, msg, fix string) {
	msg = strings.TrimRight(msg, "\n")
	obj := map[string]string{
		"type":      msgType,
		"message":   msg,
		"timestamp": w.now().UTC().Format(time.RFC3339),
	}
	if fix != "" {
		obj["fix"] = fix
	}
	data, err := json.Marshal(obj)
	if err != nil {
		slog.Error("failed to marshal JSON output", "error", err)
		return
	}
	fmt.Fprintln(w.out, string(data))
}

// SetupSlog configures slog for the given verbosity level.
// When verbose is true, debug-level messages are shown.
func SetupSlog(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
