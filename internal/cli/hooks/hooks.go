// Package hooks bridges engine status events to the CLI's progress
// reporting: a progress bar on interactive terminals, plain logging
// otherwise.
package hooks

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
)

// ProgressBar defines the interface needed to drive the progress bar.
// Decoupled so tests can observe updates without a real terminal.
type ProgressBar interface {
	Add(num int) error
	Close() error
}

// NoOpProgressBar provides a default null implementation.
type NoOpProgressBar struct{}

// Add implements ProgressBar.
func (n *NoOpProgressBar) Add(num int) error { return nil }

// Close implements ProgressBar.
func (n *NoOpProgressBar) Close() error { return nil }

// CLIHooks implements engine.Hooks, advancing a progress bar on final
// entry states and logging failures as they happen.
type CLIHooks struct {
	logger  *slog.Logger
	verbose bool
	bar     ProgressBar
	mu      sync.Mutex // Protects concurrent access to bar
}

// NewCLIHooks creates hooks for a run. Pass nil for bar to disable
// progress output; a NoOp implementation will be used.
func NewCLIHooks(logger *slog.Logger, verbose bool, bar ProgressBar) engine.Hooks {
	if bar == nil {
		bar = &NoOpProgressBar{}
	}
	return &CLIHooks{logger: logger, verbose: verbose, bar: bar}
}

// NewBar builds the standard stderr progress bar sized to the plan length.
func NewBar(planLength int) ProgressBar {
	return progressbar.NewOptions(planLength,
		progressbar.OptionSetDescription("analyzing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// OnEntryStatusUpdate implements engine.Hooks. MUST be thread-safe:
// entries complete concurrently.
func (h *CLIHooks) OnEntryStatusUpdate(index int, entry plan.Entry, status engine.Status, message string, duration time.Duration) error {
	if h.verbose {
		attrs := []any{
			slog.Int("index", index),
			slog.String("type", string(entry.Type)),
			slog.String("status", string(status)),
		}
		if duration > 0 {
			attrs = append(attrs, slog.Duration("duration", duration))
		}
		if message != "" {
			attrs = append(attrs, slog.String("message", message))
		}
		h.logger.Debug("Entry status updated", attrs...)
	}

	switch status {
	case engine.StatusSucceeded, engine.StatusFailed:
		h.mu.Lock()
		_ = h.bar.Add(1)
		h.mu.Unlock()
	}
	if status == engine.StatusFailed {
		h.logger.Error("Analysis failed",
			slog.Int("index", index),
			slog.String("type", string(entry.Type)),
			slog.String("error", message))
	}
	return nil
}

// OnRunComplete implements engine.Hooks: finalizes the progress bar.
func (h *CLIHooks) OnRunComplete(report engine.Report) error {
	h.mu.Lock()
	_ = h.bar.Close()
	h.mu.Unlock()
	if _, ok := h.bar.(*NoOpProgressBar); !ok {
		// Newline after the bar so the summary does not overlap the prompt.
		_, _ = fmt.Fprintln(os.Stderr)
	}
	return nil
}
