package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/chart"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/dataset"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/stats"
)

// correlation computes the pairwise Pearson correlation matrix over two or
// more numeric columns, rendered as a heatmap. Rows with a missing value
// are excluded pairwise, not globally; the matrix is symmetric with a
// diagonal of exactly 1.0.
type correlation struct {
	deps   Deps
	logger *slog.Logger
}

func newCorrelation(deps Deps) *correlation {
	return &correlation{deps: deps, logger: deps.componentLogger("correlationHandler")}
}

func (h *correlation) Type() plan.AnalysisType { return plan.TypeCorrelation }

func (h *correlation) Run(ctx context.Context, ds *dataset.Dataset, columns []string) (Statistics, chart.Artifact, error) {
	artifact := artifactFor(h.Type(), columns)

	cols := make([]*dataset.Column, len(columns))
	for i, name := range columns {
		c, ok := ds.Column(name)
		if !ok {
			return nil, artifact, fmt.Errorf("%w: %q", dataset.ErrColumnNotFound, name)
		}
		cols[i] = c
	}

	n := len(cols)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1.0
	}

	maxPairs := 0
	var strongest struct {
		a, b string
		r    float64
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			xs, ys := pairwiseComplete(cols[i], cols[j], ds.Rows())
			if len(xs) > maxPairs {
				maxPairs = len(xs)
			}
			r := h.deps.Rounding.Stat(stats.Pearson(xs, ys))
			matrix[i][j] = r
			matrix[j][i] = r
			if math.Abs(r) > math.Abs(strongest.r) {
				strongest.a, strongest.b, strongest.r = cols[i].Name, cols[j].Name, r
			}
		}
	}
	if maxPairs < 2 {
		return nil, artifact, fmt.Errorf("%w: fewer than 2 complete row pairs across %v",
			ErrInsufficientData, columns)
	}

	result := Statistics{
		"columns":        columns,
		"matrix":         matrix,
		"strongest_pair": []string{strongest.a, strongest.b},
		"strongest_r":    strongest.r,
	}

	if err := ctx.Err(); err != nil {
		return nil, artifact, err
	}
	if err := h.deps.Renderer.Heatmap(artifact.Path, "Correlation Heatmap", columns, matrix); err != nil {
		return nil, artifact, err
	}
	h.logger.Debug("Correlation matrix computed",
		slog.Int("columns", n),
		slog.Int("maxPairs", maxPairs))
	return result, artifact, nil
}

// pairwiseComplete collects the rows where both columns have a numeric
// value, preserving row alignment.
func pairwiseComplete(a, b *dataset.Column, rows int) (xs, ys []float64) {
	for i := 0; i < rows; i++ {
		x, xok := a.FloatAt(i)
		y, yok := b.FloatAt(i)
		if xok && yok {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}
