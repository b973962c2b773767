// Package dataset provides the typed tabular abstraction the engine operates
// on: ordered, named columns with a declared semantic type and an explicit
// missing-value representation. The cleaning stage upstream owns raw input
// decoding; this package only trusts and enforces its output schema.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SemanticType is the inferred meaning of a column, as opposed to its raw
// storage representation.
type SemanticType string

const (
	TypeNumeric     SemanticType = "numeric"
	TypeCategorical SemanticType = "categorical"
	TypeDatetime    SemanticType = "datetime"
)

// ErrMalformedDataset indicates a structural precondition violation, e.g.
// columns of unequal row count. This is the only fatal input condition:
// per-entry isolation cannot repair a structurally invalid table.
var ErrMalformedDataset = errors.New("malformed dataset")

// Value is a single cell. Missing cells carry Missing=true and an empty Raw;
// every consumer checks the one canonical marker instead of re-deriving
// missingness from sentinel strings.
type Value struct {
	Raw     string
	Missing bool
}

// V builds a present value. Shorthand for table construction in tests and
// loaders.
func V(raw string) Value { return Value{Raw: raw} }

// NA builds a missing value.
func NA() Value { return Value{Missing: true} }

// Column is one named, typed sequence of values.
type Column struct {
	Name   string
	Type   SemanticType
	Values []Value
}

// datetimeLayouts are the calendar formats the cleaning stage emits.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// FloatAt returns the numeric value at row i, reporting false for missing
// or unparseable cells.
func (c *Column) FloatAt(i int) (float64, bool) {
	if i < 0 || i >= len(c.Values) || c.Values[i].Missing {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(c.Values[i].Raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// StringAt returns the textual value at row i, reporting false for missing
// cells and for cells that are empty after trimming.
func (c *Column) StringAt(i int) (string, bool) {
	if i < 0 || i >= len(c.Values) || c.Values[i].Missing {
		return "", false
	}
	s := strings.TrimSpace(c.Values[i].Raw)
	if s == "" {
		return "", false
	}
	return s, true
}

// TimeAt returns the calendar timestamp at row i, reporting false for
// missing or unparseable cells.
func (c *Column) TimeAt(i int) (time.Time, bool) {
	if i < 0 || i >= len(c.Values) || c.Values[i].Missing {
		return time.Time{}, false
	}
	raw := strings.TrimSpace(c.Values[i].Raw)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NonMissingFloats returns all parseable numeric values in row order.
func (c *Column) NonMissingFloats() []float64 {
	out := make([]float64, 0, len(c.Values))
	for i := range c.Values {
		if f, ok := c.FloatAt(i); ok {
			out = append(out, f)
		}
	}
	return out
}

// NonMissingStrings returns all non-missing textual values in row order.
func (c *Column) NonMissingStrings() []string {
	out := make([]string, 0, len(c.Values))
	for i := range c.Values {
		if s, ok := c.StringAt(i); ok {
			out = append(out, s)
		}
	}
	return out
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Missing {
			n++
		}
	}
	return n
}

// Dataset is an ordered sequence of equally sized columns. It is created by
// the upstream cleaning stage and read-only to the engine.
type Dataset struct {
	columns []Column
	index   map[string]int
}

// New assembles a Dataset and enforces the equal-row-count invariant.
func New(cols ...Column) (*Dataset, error) {
	ds := &Dataset{
		columns: cols,
		index:   make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrMalformedDataset, i)
		}
		if _, dup := ds.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column name %q", ErrMalformedDataset, c.Name)
		}
		ds.index[c.Name] = i
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Validate re-checks the structural invariant: all columns have equal row
// count. A violation is fatal for the whole run.
func (ds *Dataset) Validate() error {
	if len(ds.columns) == 0 {
		return nil
	}
	rows := len(ds.columns[0].Values)
	for _, c := range ds.columns[1:] {
		if len(c.Values) != rows {
			return fmt.Errorf("%w: column %q has %d rows, expected %d",
				ErrMalformedDataset, c.Name, len(c.Values), rows)
		}
	}
	return nil
}

// Rows returns the row count.
func (ds *Dataset) Rows() int {
	if len(ds.columns) == 0 {
		return 0
	}
	return len(ds.columns[0].Values)
}

// ColumnCount returns the number of columns.
func (ds *Dataset) ColumnCount() int { return len(ds.columns) }

// Column looks a column up by name.
func (ds *Dataset) Column(name string) (*Column, bool) {
	i, ok := ds.index[name]
	if !ok {
		return nil, false
	}
	return &ds.columns[i], true
}

// Columns returns the columns in dataset order.
func (ds *Dataset) Columns() []Column { return ds.columns }

// FirstDatetimeColumn returns the first column declared datetime, in dataset
// order. It is the implicit time axis for temporal analyses.
func (ds *Dataset) FirstDatetimeColumn() (*Column, bool) {
	for i := range ds.columns {
		if ds.columns[i].Type == TypeDatetime {
			return &ds.columns[i], true
		}
	}
	return nil, false
}

// --- serialized form (cleaning-stage boundary) ---

type jsonColumn struct {
	Name   string    `json:"name"`
	Type   string    `json:"type"`
	Values []*string `json:"values"`
}

type jsonDataset struct {
	Columns []jsonColumn `json:"columns"`
}

// FromJSON decodes the cleaned-dataset interchange format: columns with a
// declared semantic type and null markers for missing cells.
func FromJSON(data []byte) (*Dataset, error) {
	var doc jsonDataset
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDataset, err)
	}
	cols := make([]Column, 0, len(doc.Columns))
	for _, jc := range doc.Columns {
		st := SemanticType(strings.ToLower(jc.Type))
		switch st {
		case TypeNumeric, TypeCategorical, TypeDatetime:
		default:
			return nil, fmt.Errorf("%w: column %q has unknown semantic type %q",
				ErrMalformedDataset, jc.Name, jc.Type)
		}
		vals := make([]Value, len(jc.Values))
		for i, raw := range jc.Values {
			if raw == nil {
				vals[i] = NA()
			} else {
				vals[i] = V(*raw)
			}
		}
		cols = append(cols, Column{Name: jc.Name, Type: st, Values: vals})
	}
	return New(cols...)
}

// MarshalJSON emits the same interchange format FromJSON accepts.
func (ds *Dataset) MarshalJSON() ([]byte, error) {
	doc := jsonDataset{Columns: make([]jsonColumn, 0, len(ds.columns))}
	for _, c := range ds.columns {
		jc := jsonColumn{Name: c.Name, Type: string(c.Type), Values: make([]*string, len(c.Values))}
		for i, v := range c.Values {
			if !v.Missing {
				raw := v.Raw
				jc.Values[i] = &raw
			}
		}
		doc.Columns = append(doc.Columns, jc)
	}
	return json.Marshal(doc)
}
