package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// LogDir is the directory under the output directory holding run logs
const LogDir = "logs"

// RunLogPath returns the log file of a run
func RunLogPath(outputDir, runID string) string {
	return filepath.Join(outputDir, LogDir, fmt.Sprintf("run-%s.log", runID))
}

// ConsoleLevel is the console threshold of a run logger. A progress bar owns the
// terminal line, so only warnings get through while it is shown.
func ConsoleLevel(verbose, progress bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case progress:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// NewRunLogger creates the logger of one run. Everything at debug level goes to the
// run's log file; the console gets consoleLevel and above.
// The returned function closes the log file.
func NewRunLogger(outputDir, runID string, console io.Writer, consoleLevel slog.Level) (*slog.Logger, func() error, error) {
	path := RunLogPath(outputDir, runID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open run log: %w", err)
	}

	handler := NewFanoutHandler(
		slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: consoleLevel}),
	)
	return slog.New(handler).With("run_id", runID), file.Close, nil
}

// NewConsoleLogger creates a logger writing to the console only, for commands without a run
func NewConsoleLogger(console io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}))
}

// FanoutHandler passes every record to all handlers that accept its level
type FanoutHandler struct {
	handlers []slog.Handler
}

// NewFanoutHandler creates a handler writing to all of handlers
func NewFanoutHandler(handlers ...slog.Handler) *FanoutHandler {
	return &FanoutHandler{handlers: handlers}
}

func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: next}
}

func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &FanoutHandler{handlers: next}
}
