package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
)

func TestParseAnalysisType(t *testing.T) {
	tests := []struct {
		input   string
		want    plan.AnalysisType
		wantErr bool
	}{
		{"distribution", plan.TypeDistribution, false},
		{"Top_N_Categorical", plan.TypeTopNCategorical, false},
		{"  temporal_trend  ", plan.TypeTemporalTrend, false},
		{"association_rules", plan.TypeAssociationRules, false},
		{"sentiment", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := plan.ParseAnalysisType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, plan.ErrUnknownAnalysisType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJSON_Valid(t *testing.T) {
	data := []byte(`{
		"recommended_eda": [
			{"analysis_type": "distribution", "target_columns": ["Price"], "rationale": "spread of prices"},
			{"analysis_type": "correlation", "target_columns": ["Price", "Rating"]}
		],
		"confidence": 0.85
	}`)
	p, err := plan.ParseJSON(data)
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())
	assert.Equal(t, plan.TypeDistribution, p.Entries[0].Type)
	assert.Equal(t, []string{"Price"}, p.Entries[0].Columns)
	assert.Equal(t, "spread of prices", p.Entries[0].Rationale)
	assert.Equal(t, plan.TypeCorrelation, p.Entries[1].Type)
	assert.Equal(t, 0.85, p.Confidence)
}

func TestParseJSON_NormalizesTypeCase(t *testing.T) {
	data := []byte(`{"recommended_eda": [{"analysis_type": " Distribution ", "target_columns": ["x"]}]}`)
	p, err := plan.ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, plan.TypeDistribution, p.Entries[0].Type)
}

func TestParseJSON_UnknownTypeFlowsThrough(t *testing.T) {
	// Unknown identifiers are a per-entry concern for the dispatcher,
	// not a reason to reject the whole plan.
	data := []byte(`{"recommended_eda": [{"analysis_type": "sentiment", "target_columns": ["Review"]}]}`)
	p, err := plan.ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, plan.AnalysisType("sentiment"), p.Entries[0].Type)
}

func TestParseJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `nope{`},
		{"missing recommended_eda", `{"confidence": 0.5}`},
		{"missing analysis_type", `{"recommended_eda": [{"target_columns": ["x"]}]}`},
		{"missing target_columns", `{"recommended_eda": [{"analysis_type": "distribution"}]}`},
		{"empty target_columns", `{"recommended_eda": [{"analysis_type": "distribution", "target_columns": []}]}`},
		{"confidence out of range", `{"recommended_eda": [], "confidence": 1.5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plan.ParseJSON([]byte(tt.data))
			assert.ErrorIs(t, err, plan.ErrPlanValidation)
		})
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
recommended_eda:
  - analysis_type: distribution
    target_columns: [Price]
  - analysis_type: top_n_categorical
    target_columns:
      - City
confidence: 0.9
`)
	p, err := plan.ParseYAML(data)
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())
	assert.Equal(t, plan.TypeDistribution, p.Entries[0].Type)
	assert.Equal(t, []string{"City"}, p.Entries[1].Columns)
	assert.Equal(t, 0.9, p.Confidence)
}

func TestParseYAML_SchemaViolation(t *testing.T) {
	data := []byte(`
recommended_eda:
  - analysis_type: distribution
    target_columns: []
`)
	_, err := plan.ParseYAML(data)
	assert.ErrorIs(t, err, plan.ErrPlanValidation)
}

func TestParseYAML_Malformed(t *testing.T) {
	_, err := plan.ParseYAML([]byte("recommended_eda: [\n  bad"))
	assert.ErrorIs(t, err, plan.ErrPlanValidation)
}
