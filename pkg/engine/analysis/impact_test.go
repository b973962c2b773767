package analysis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/analysis"
	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
)

func TestCategoryImpact_Basic(t *testing.T) {
	renderer := &recordingRenderer{}
	r := analysis.NewRegistry(analysis.Deps{Renderer: renderer})
	h, err := r.Resolve(plan.TypeCategoryImpact)
	require.NoError(t, err)

	ds := mustDataset(t, categoricalCol("discount_code", "SUMMER", "NA", "SUMMER", "NA", "WINTER", "NA", "NA", "NA"))
	result, artifact, err := h.Run(context.Background(), ds, []string{"discount_code"})
	require.NoError(t, err)

	assert.Equal(t, 3, result["observed_count"])
	assert.Equal(t, 5, result["missing_count"])
	assert.Equal(t, 0.63, result["missing_ratio"], "5 of 8 rows, rounded to two digits")
	assert.Equal(t, 2, result["distinct_values"])

	categories := result["categories"].([]analysis.CategoryCount)
	require.Len(t, categories, 2)
	assert.Equal(t, "SUMMER", categories[0].Value)
	assert.Equal(t, 2, categories[0].Count)
	assert.Equal(t, 66.7, categories[0].Percent, "percent is over observed entries, not all rows")

	assert.Equal(t, "category_impact__discount_code.png", artifact.Path)
	call := renderer.lastCall(t)
	assert.Equal(t, "bar", call.kind)
}

func TestCategoryImpact_NoMissing(t *testing.T) {
	r := analysis.NewRegistry(analysis.Deps{})
	h, _ := r.Resolve(plan.TypeCategoryImpact)

	ds := mustDataset(t, categoricalCol("c", "a", "b"))
	result, _, err := h.Run(context.Background(), ds, []string{"c"})
	require.NoError(t, err)
	assert.Equal(t, 0, result["missing_count"])
	assert.Equal(t, 0.0, result["missing_ratio"])
}

func TestCategoryImpact_AllMissing(t *testing.T) {
	r := analysis.NewRegistry(analysis.Deps{})
	h, _ := r.Resolve(plan.TypeCategoryImpact)

	ds := mustDataset(t, categoricalCol("c", "NA", "NA"))
	_, _, err := h.Run(context.Background(), ds, []string{"c"})
	assert.ErrorIs(t, err, analysis.ErrInsufficientData)
}
