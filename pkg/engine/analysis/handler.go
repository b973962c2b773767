// Package analysis implements the per-type analysis strategies: each handler
// computes the summary statistics for one analysis type and renders its
// chart. Handlers are stateless and safe for concurrent use; the registry
// maps analysis-type identifiers onto them.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/chart"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/dataset"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/stats"
)

// ErrUnsupportedType indicates the plan references an analysis type no
// handler implements.
var ErrUnsupportedType = errors.New("unsupported analysis type")

// ErrInsufficientData indicates a target column is empty or below the
// handler's minimum sample size.
var ErrInsufficientData = errors.New("insufficient data")

// Statistics is the named summary figures one analysis produces. Values are
// JSON-serializable.
type Statistics map[string]any

// Handler is the strategy implementation for one analysis type.
type Handler interface {
	// Type returns the analysis-type identifier this handler serves.
	Type() plan.AnalysisType
	// Run computes the statistics and renders the chart for the given
	// target columns. Column existence and semantic compatibility have
	// already been validated by the dispatcher.
	Run(ctx context.Context, ds *dataset.Dataset, columns []string) (Statistics, chart.Artifact, error)
}

// Deps carries the collaborators shared by all builtin handlers.
type Deps struct {
	Renderer            chart.Renderer
	Rounding            stats.Rounding
	TopN                int
	MultiValueColumns   map[string]struct{}
	MultiValueSeparator string
	Logger              slog.Handler
}

func (d Deps) normalized() Deps {
	if d.Renderer == nil {
		d.Renderer = chart.NoopRenderer{}
	}
	if d.Rounding == (stats.Rounding{}) {
		d.Rounding = stats.DefaultRounding()
	}
	if d.TopN <= 0 {
		d.TopN = 10
	}
	if d.MultiValueSeparator == "" {
		d.MultiValueSeparator = ","
	}
	if d.Logger == nil {
		d.Logger = slog.NewTextHandler(io.Discard, nil)
	}
	return d
}

func (d Deps) componentLogger(name string) *slog.Logger {
	return slog.New(d.Logger).With(slog.String("component", name))
}

// Registry resolves analysis-type identifiers to handlers. The builtin set
// is closed and registered at construction; Register exists for features
// genuinely meant to be pluggable at process start.
type Registry struct {
	handlers map[plan.AnalysisType]Handler
}

// NewRegistry builds a registry populated with all builtin handlers.
func NewRegistry(deps Deps) *Registry {
	deps = deps.normalized()
	r := &Registry{handlers: make(map[plan.AnalysisType]Handler)}
	for _, h := range []Handler{
		newDistribution(deps),
		newTopN(deps, plan.TypeTopNCategorical),
		newTopN(deps, plan.TypeGeographic),
		newTopN(deps, plan.TypeDemographic),
		newCategoryImpact(deps),
		newTemporalTrend(deps),
		newCorrelation(deps),
		newComparativeDuration(deps),
	} {
		r.Register(h)
	}
	return r
}

// Register adds a handler; registering an already-present type replaces the
// previous handler.
func (r *Registry) Register(h Handler) {
	r.handlers[h.Type()] = h
}

// Resolve returns the handler for an analysis type, or ErrUnsupportedType.
// Identifiers inside the closed set that lack a handler (placeholders such
// as association_rules) are distinguished in the message from typos.
func (r *Registry) Resolve(t plan.AnalysisType) (Handler, error) {
	if h, ok := r.handlers[t]; ok {
		return h, nil
	}
	if _, err := plan.ParseAnalysisType(string(t)); err == nil {
		return nil, fmt.Errorf("%w: %q is recognized but not implemented", ErrUnsupportedType, t)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, t)
}

// Types returns the registered analysis types, for diagnostics.
func (r *Registry) Types() []plan.AnalysisType {
	out := make([]plan.AnalysisType, 0, len(r.handlers))
	for t := range r.handlers {
		out = append(out, t)
	}
	return out
}

func artifactFor(t plan.AnalysisType, columns []string) chart.Artifact {
	return chart.Artifact{
		Path:    chart.Name(string(t), columns),
		Type:    string(t),
		Columns: columns,
	}
}
