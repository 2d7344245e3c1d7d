// Package logger provides verbose logging for doceval.
// When verbose mode is enabled via the --verbose flag, debug messages
// are written to stderr to help users follow the evaluation pipeline.
// Errors are always written.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	base              = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = newLogger(w)
}

// Logger returns the underlying structured logger. Records below Error
// are discarded unless verbose mode is enabled.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		return base
	}
	return slog.New(errorOnly{base.Handler()})
}

func log(level slog.Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if level < slog.LevelError && !verbose {
		return
	}
	base.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	log(slog.LevelDebug, format, args...)
}

// Info logs an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	log(slog.LevelInfo, format, args...)
}

// Warn logs a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	log(slog.LevelWarn, format, args...)
}

// Error logs an error message regardless of verbose mode.
func Error(format string, args ...any) {
	log(slog.LevelError, format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// errorOnly drops records below slog.LevelError.
type errorOnly struct {
	slog.Handler
}

func (h errorOnly) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelError && h.Handler.Enabled(ctx, level)
}

func (h errorOnly) WithAttrs(attrs []slog.Attr) slog.Handler {
	return errorOnly{h.Handler.WithAttrs(attrs)}
}

func (h errorOnly) WithGroup(name string) slog.Handler {
	return errorOnly{h.Handler.WithGroup(name)}
}
