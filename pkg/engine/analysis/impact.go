package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/chart"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/dataset"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
)

// categoryImpact analyzes a sparse categorical column: the frequency map is
// restricted to non-missing entries, and the missing share is surfaced
// explicitly so downstream narration can flag the column as optional.
type categoryImpact struct {
	deps   Deps
	logger *slog.Logger
}

func newCategoryImpact(deps Deps) *categoryImpact {
	return &categoryImpact{deps: deps, logger: deps.componentLogger("categoryImpactHandler")}
}

func (h *categoryImpact) Type() plan.AnalysisType { return plan.TypeCategoryImpact }

func (h *categoryImpact) Run(ctx context.Context, ds *dataset.Dataset, columns []string) (Statistics, chart.Artifact, error) {
	artifact := artifactFor(h.Type(), columns)

	col, ok := ds.Column(columns[0])
	if !ok {
		return nil, artifact, fmt.Errorf("%w: %q", dataset.ErrColumnNotFound, columns[0])
	}
	observations := col.NonMissingStrings()
	if len(observations) == 0 {
		return nil, artifact, fmt.Errorf("%w: column %q has no non-missing values", ErrInsufficientData, col.Name)
	}

	rows := ds.Rows()
	missing := rows - len(observations)
	ranked := rankByFrequency(observations)
	top := ranked
	if len(top) > h.deps.TopN {
		top = top[:h.deps.TopN]
	}

	categories := make([]CategoryCount, len(top))
	for i, rc := range top {
		categories[i] = CategoryCount{
			Value:   rc.value,
			Count:   rc.count,
			Percent: h.deps.Rounding.Percent(100 * float64(rc.count) / float64(len(observations))),
		}
	}

	result := Statistics{
		"categories":      categories,
		"distinct_values": len(ranked),
		"observed_count":  len(observations),
		"missing_count":   missing,
		"missing_ratio":   h.deps.Rounding.Stat(float64(missing) / float64(rows)),
	}

	if err := ctx.Err(); err != nil {
		return nil, artifact, err
	}
	labels := make([]string, len(categories))
	values := make([]float64, len(categories))
	for i, c := range categories {
		labels[i] = c.Value
		values[i] = float64(c.Count)
	}
	title := fmt.Sprintf("Frequency of %s (observed entries only)", col.Name)
	if err := h.deps.Renderer.Bar(artifact.Path, title, labels, values); err != nil {
		return nil, artifact, err
	}
	h.logger.Debug("Category impact computed",
		slog.String("column", col.Name),
		slog.Int("missing", missing))
	return result, artifact, nil
}
