package dataset

import (
	"errors"
	"fmt"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/plan"
)

// ErrColumnNotFound indicates a plan entry targets a column that does not
// exist in the dataset.
var ErrColumnNotFound = errors.New("target column not found")

// ErrTypeMismatch indicates a plan entry targets columns whose semantic
// types are incompatible with the requested analysis.
var ErrTypeMismatch = errors.New("semantic type mismatch")

// Schema maps column names to their effective semantic type.
type Schema map[string]SemanticType

// Classify derives the effective per-column semantic type. Declared types
// are trusted, with one correction: a column declared numeric that has no
// parseable non-missing value degrades to categorical, so handlers never
// see an all-missing "numeric" series.
func Classify(ds *Dataset) Schema {
	s := make(Schema, ds.ColumnCount())
	for _, c := range ds.Columns() {
		t := c.Type
		if t == TypeNumeric {
			hasNumeric := false
			for i := range c.Values {
				if _, ok := c.FloatAt(i); ok {
					hasNumeric = true
					break
				}
			}
			if !hasNumeric {
				t = TypeCategorical
			}
		}
		s[c.Name] = t
	}
	return s
}

// HasDatetime reports whether any column classifies as datetime.
func (s Schema) HasDatetime() bool {
	for _, t := range s {
		if t == TypeDatetime {
			return true
		}
	}
	return false
}

// Validate checks a plan entry against the schema before dispatch: column
// existence, the arity the analysis type expects, and semantic-type
// compatibility. The switch over analysis types is exhaustive; adding a new
// type without a validation rule is a compile-visible omission here rather
// than a runtime surprise inside a handler.
func (s Schema) Validate(entry plan.Entry) error {
	if len(entry.Columns) == 0 {
		return fmt.Errorf("%w: entry %q names no target columns", ErrTypeMismatch, entry.Type)
	}
	for _, name := range entry.Columns {
		if _, ok := s[name]; !ok {
			return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
	}

	switch entry.Type {
	case plan.TypeDistribution:
		if len(entry.Columns) != 1 {
			return arityErr(entry, "exactly 1 numeric column")
		}
		return s.requireNumeric(entry.Columns[0])

	case plan.TypeTopNCategorical, plan.TypeGeographic, plan.TypeDemographic, plan.TypeCategoryImpact:
		if len(entry.Columns) != 1 {
			return arityErr(entry, "exactly 1 column")
		}
		// Any column works: numeric-looking codes are legitimately analyzed
		// as opaque categories.
		return nil

	case plan.TypeTemporalTrend:
		if len(entry.Columns) != 1 {
			return arityErr(entry, "exactly 1 numeric column")
		}
		if err := s.requireNumeric(entry.Columns[0]); err != nil {
			return err
		}
		if !s.HasDatetime() {
			return fmt.Errorf("%w: temporal trend requires a datetime column in the dataset", ErrTypeMismatch)
		}
		return nil

	case plan.TypeCorrelation:
		if len(entry.Columns) < 2 {
			return arityErr(entry, "at least 2 numeric columns")
		}
		for _, name := range entry.Columns {
			if err := s.requireNumeric(name); err != nil {
				return err
			}
		}
		return nil

	case plan.TypeComparativeDuration:
		if len(entry.Columns) != 2 {
			return arityErr(entry, "1 numeric and 1 categorical column")
		}
		numeric, categorical, err := s.SplitNumericCategorical(entry.Columns)
		if err != nil {
			return err
		}
		_, _ = numeric, categorical
		return nil

	case plan.TypeAssociationRules:
		// Recognized but unimplemented; the registry reports it unsupported.
		return nil

	default:
		// Unknown identifiers fall through to handler resolution, which
		// records the entry as unsupported.
		return nil
	}
}

// SplitNumericCategorical resolves a two-column [numeric, categorical] pair
// in either order, for analyses that compare a measure across groups.
func (s Schema) SplitNumericCategorical(cols []string) (numeric, categorical string, err error) {
	if len(cols) != 2 {
		return "", "", fmt.Errorf("%w: expected 2 columns, got %d", ErrTypeMismatch, len(cols))
	}
	a, b := cols[0], cols[1]
	switch {
	case s[a] == TypeNumeric && s[a] != s[b]:
		return a, b, nil
	case s[b] == TypeNumeric && s[a] != s[b]:
		return b, a, nil
	default:
		return "", "", fmt.Errorf("%w: need one numeric and one categorical column, got %s=%s, %s=%s",
			ErrTypeMismatch, a, s[a], b, s[b])
	}
}

func (s Schema) requireNumeric(name string) error {
	if s[name] != TypeNumeric {
		return fmt.Errorf("%w: column %q is %s, expected numeric", ErrTypeMismatch, name, s[name])
	}
	return nil
}

func arityErr(entry plan.Entry, want string) error {
	return fmt.Errorf("%w: %s expects %s, got %d", ErrTypeMismatch, entry.Type, want, len(entry.Columns))
}
