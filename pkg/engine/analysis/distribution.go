package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/chart"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/dataset"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/stats"
)

// distribution summarizes one numeric column: central tendency, spread,
// asymmetry and an IQR outlier count, with a histogram chart.
type distribution struct {
	deps   Deps
	logger *slog.Logger
}

func newDistribution(deps Deps) *distribution {
	return &distribution{deps: deps, logger: deps.componentLogger("distributionHandler")}
}

func (h *distribution) Type() plan.AnalysisType { return plan.TypeDistribution }

func (h *distribution) Run(ctx context.Context, ds *dataset.Dataset, columns []string) (Statistics, chart.Artifact, error) {
	artifact := artifactFor(h.Type(), columns)

	col, ok := ds.Column(columns[0])
	if !ok {
		return nil, artifact, fmt.Errorf("%w: %q", dataset.ErrColumnNotFound, columns[0])
	}
	values := col.NonMissingFloats()
	if len(values) == 0 {
		return nil, artifact, fmt.Errorf("%w: column %q has no numeric values", ErrInsufficientData, col.Name)
	}

	r := h.deps.Rounding
	result := Statistics{
		"count":    len(values),
		"mean":     r.Stat(stats.Mean(values)),
		"median":   r.Stat(stats.Median(values)),
		"std_dev":  r.Stat(stats.StdDev(values)),
		"min":      stats.Min(values),
		"max":      stats.Max(values),
		"skewness": r.Stat(stats.Skewness(values)),
		"outliers": stats.IQROutliers(values),
	}

	if err := ctx.Err(); err != nil {
		return nil, artifact, err
	}
	title := fmt.Sprintf("Distribution of %s", col.Name)
	if err := h.deps.Renderer.Histogram(artifact.Path, title, values); err != nil {
		return nil, artifact, err
	}
	h.logger.Debug("Distribution computed", slog.String("column", col.Name), slog.Int("count", len(values)))
	return result, artifact, nil
}
