package engine

import (
	"log/slog"
	"time"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/analysis"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/chart"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
)

// Hooks defines callbacks for status updates during a run.
// Implementations MUST be thread-safe: entries execute concurrently.
type Hooks interface {
	OnEntryStatusUpdate(index int, entry plan.Entry, status Status, message string, duration time.Duration) error
	OnRunComplete(report Report) error
}

// NoOpHooks provides a default, do-nothing implementation of Hooks.
type NoOpHooks struct{}

// OnEntryStatusUpdate implements Hooks. It performs no action.
func (h *NoOpHooks) OnEntryStatusUpdate(index int, entry plan.Entry, status Status, message string, duration time.Duration) error {
	return nil
}

// OnRunComplete implements Hooks. It performs no action.
func (h *NoOpHooks) OnRunComplete(report Report) error { return nil }

// Options holds all configuration for an engine run.
type Options struct {
	// --- Core Paths ---
	ChartDir string `mapstructure:"chartDir"` // Directory chart artifacts are written under

	// --- Behavior & Control ---
	RenderCharts bool          `mapstructure:"renderCharts"` // Disable to compute statistics only
	EntryTimeout time.Duration `mapstructure:"entryTimeout"` // Per-entry deadline; 0 = none

	// --- Performance ---
	Concurrency int `mapstructure:"concurrency"` // Number of workers (0 = NumCPU)

	// --- Analysis Tuning ---
	TopN                int      `mapstructure:"topN"`                // k for frequency analyses (default 10)
	PercentDigits       int      `mapstructure:"percentDigits"`       // Rounding of percentage figures (default 1)
	StatDigits          int      `mapstructure:"statDigits"`          // Rounding of plain statistics (default 2)
	MultiValueColumns   []string `mapstructure:"multiValueColumns"`   // Columns whose cells hold separator-joined lists
	MultiValueSeparator string   `mapstructure:"multiValueSeparator"` // Separator for the above (default ",")

	// --- Injected Dependencies ---
	Logger     slog.Handler       `mapstructure:"-"` // Required: logging backend
	EventHooks Hooks              `mapstructure:"-"` // Optional: status callbacks
	Renderer   chart.Renderer     `mapstructure:"-"` // Optional: chart backend (default gonum/plot)
	Registry   *analysis.Registry `mapstructure:"-"` // Optional: handler set (default builtins)
}
