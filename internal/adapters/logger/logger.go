// Package logger implements a logging adapter using log/slog.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/ngxsys/internal/core/ports"
	"go.trai.ch/zerr"
)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing pretty output to stderr.
func New() ports.Logger {
	return &Logger{
		logger: slog.New(newHandler(os.Stderr, false)),
		output: os.Stderr,
	}
}

func newHandler(w io.Writer, jsonMode bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if jsonMode {
		return slog.NewJSONHandler(w, opts)
	}
	return NewPrettyHandler(w, opts)
}

// SetOutput updates the logger's output destination, keeping the current format.
// A nil writer selects stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(newHandler(w, l.jsonMode))
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(newHandler(l.output, enable))
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

// Error logs an error, rendering the zerr cause chain and metadata in pretty mode.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

type errorEntry struct {
	message  string
	metadata []string
}

// collectErrorEntries walks the zerr chain. A non-zerr error ends the walk with its full text.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	for current := err; current != nil; {
		z, ok := current.(*zerr.Error)
		if !ok {
			entries = append(entries, errorEntry{message: current.Error()})
			break
		}

		entry := errorEntry{message: z.Message()}
		meta := z.Metadata()
		keys := make([]string, 0, len(meta))
		for k := range meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			entry.metadata = append(entry.metadata, fmt.Sprintf("%s=%v", k, meta[k]))
		}

		// zerr.With on a plain error adds an empty wrapper; fold it into its cause.
		if entry.message == "" && z.Unwrap() != nil {
			next := collectErrorEntries(z.Unwrap())
			if len(next) > 0 {
				next[0].metadata = append(entry.metadata, next[0].metadata...)
			}
			return append(entries, next...)
		}

		entries = append(entries, entry)
		current = z.Unwrap()
	}
	return entries
}

func formatErrorEntries(entries []errorEntry) string {
	var lines []string
	for i, e := range entries {
		msgLines := strings.Split(e.message, "\n")
		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			for _, m := range e.metadata {
				lines = append(lines, "       "+m)
			}
			continue
		}
		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
		for _, m := range e.metadata {
			lines = append(lines, "      "+m)
		}
	}
	return strings.Join(lines, "\n")
}
