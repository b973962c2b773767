package engine

import (
	"context"
	"errors"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/analysis"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/chart"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/dataset"
)

// --- Exported Error Variables ---
// Per-entry failures carry sentinel errors from the subpackage that owns
// the concern (dataset.ErrColumnNotFound, analysis.ErrInsufficientData,
// chart.ErrRenderFailed, ...); the engine maps them onto ErrorCategory
// values at the dispatch boundary. Only the errors below are fatal for a
// whole run and may be returned by NewEngine or Run. Library users can
// check against them with errors.Is.

var (
	// ErrConfigValidation indicates the provided Options failed the checks
	// performed by NewEngine (nil logger, unusable chart directory, ...).
	ErrConfigValidation = errors.New("invalid engine options provided")

	// ErrMalformedDataset re-exports the dataset package's structural
	// precondition violation: the one input condition per-entry isolation
	// cannot repair, reported once, aborting the whole run.
	ErrMalformedDataset = dataset.ErrMalformedDataset
)

// Categorize maps a per-entry failure onto its error category.
func Categorize(err error) ErrorCategory {
	switch {
	case errors.Is(err, dataset.ErrColumnNotFound):
		return CategoryColumnNotFound
	case errors.Is(err, dataset.ErrTypeMismatch):
		return CategorySemanticTypeMismatch
	case errors.Is(err, analysis.ErrUnsupportedType):
		return CategoryUnsupportedAnalysisType
	case errors.Is(err, analysis.ErrInsufficientData):
		return CategoryInsufficientData
	case errors.Is(err, chart.ErrRenderFailed):
		return CategoryChartRenderFailure
	case errors.Is(err, context.DeadlineExceeded):
		return CategoryTimeout
	case errors.Is(err, context.Canceled):
		return CategoryCancelled
	default:
		// Anything unforeseen is attributed to rendering: the chart is the
		// only step touching the filesystem.
		return CategoryChartRenderFailure
	}
}
