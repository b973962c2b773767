// Package plan defines the analysis-plan contract produced by the upstream
// planner and consumed by the engine. Plans arrive as untrusted JSON (or
// YAML) and are validated against an embedded JSON schema before use.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// AnalysisType identifies one analysis strategy. The set is closed: every
// identifier the planner may emit is listed here, and anything else fails
// ParseAnalysisType loudly instead of becoming a silent no-op.
type AnalysisType string

const (
	TypeDistribution        AnalysisType = "distribution"
	TypeTopNCategorical     AnalysisType = "top_n_categorical"
	TypeTemporalTrend       AnalysisType = "temporal_trend"
	TypeCorrelation         AnalysisType = "correlation"
	TypeGeographic          AnalysisType = "geographic"
	TypeComparativeDuration AnalysisType = "comparative_duration"
	TypeCategoryImpact      AnalysisType = "category_impact"
	TypeDemographic         AnalysisType = "demographic"

	// TypeAssociationRules is a known identifier with no implementation: the
	// planner proposes it, but no handler exists yet. Entries of this type
	// are recognized here and rejected at handler resolution.
	TypeAssociationRules AnalysisType = "association_rules"
)

// ErrUnknownAnalysisType indicates an identifier outside the closed set.
var ErrUnknownAnalysisType = errors.New("unknown analysis type identifier")

// ErrPlanValidation indicates the plan document failed schema validation.
var ErrPlanValidation = errors.New("analysis plan failed validation")

// ParseAnalysisType maps a raw identifier onto the closed AnalysisType set.
// Matching is case-insensitive; surrounding whitespace is ignored.
func ParseAnalysisType(s string) (AnalysisType, error) {
	switch t := AnalysisType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeDistribution, TypeTopNCategorical, TypeTemporalTrend,
		TypeCorrelation, TypeGeographic, TypeComparativeDuration,
		TypeCategoryImpact, TypeDemographic, TypeAssociationRules:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAnalysisType, s)
	}
}

// Entry is one instruction of the analysis plan.
type Entry struct {
	Type      AnalysisType `json:"analysis_type"`
	Columns   []string     `json:"target_columns"`
	Rationale string       `json:"rationale,omitempty"`
}

// Plan is the ordered list of instructions, plus the planner's confidence
// in its own proposal (0..1, informational only).
type Plan struct {
	Entries    []Entry `json:"recommended_eda"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Len returns the number of plan entries.
func (p Plan) Len() int { return len(p.Entries) }

// ParseJSON validates raw plan JSON against the embedded schema and decodes
// it. Structural problems (missing fields, wrong types, empty column lists)
// are reported together as a single ErrPlanValidation. Unknown analysis-type
// identifiers do NOT fail parsing: they flow through so the dispatcher can
// record a per-entry failure without aborting the rest of the plan.
func ParseJSON(data []byte) (Plan, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(planSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrPlanValidation, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return Plan{}, fmt.Errorf("%w: %s", ErrPlanValidation, strings.Join(msgs, "; "))
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrPlanValidation, err)
	}
	for i := range p.Entries {
		p.Entries[i].Type = AnalysisType(strings.ToLower(strings.TrimSpace(string(p.Entries[i].Type))))
	}
	return p, nil
}

// ParseYAML accepts the same plan document in YAML form. The document is
// converted to JSON and run through the same schema validation as ParseJSON.
func ParseYAML(data []byte) (Plan, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrPlanValidation, err)
	}
	jsonData, err := json.Marshal(normalizeYAML(doc))
	if err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrPlanValidation, err)
	}
	return ParseJSON(jsonData)
}

// normalizeYAML rewrites map[interface{}]interface{} trees produced by older
// YAML decoders into map[string]interface{} so they marshal as JSON objects.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, inner := range val {
			m[fmt.Sprintf("%v", k)] = normalizeYAML(inner)
		}
		return m
	case map[string]interface{}:
		for k, inner := range val {
			val[k] = normalizeYAML(inner)
		}
		return val
	case []interface{}:
		for i, inner := range val {
			val[i] = normalizeYAML(inner)
		}
		return val
	default:
		return v
	}
}
