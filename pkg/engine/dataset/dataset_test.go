package dataset_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine/dataset"
)

func TestNew_Invariants(t *testing.T) {
	t.Run("valid dataset", func(t *testing.T) {
		ds, err := dataset.New(
			dataset.Column{Name: "price", Type: dataset.TypeNumeric, Values: []dataset.Value{dataset.V("1"), dataset.V("2")}},
			dataset.Column{Name: "city", Type: dataset.TypeCategorical, Values: []dataset.Value{dataset.V("a"), dataset.NA()}},
		)
		require.NoError(t, err)
		assert.Equal(t, 2, ds.Rows())
		assert.Equal(t, 2, ds.ColumnCount())
	})

	t.Run("unequal row counts", func(t *testing.T) {
		_, err := dataset.New(
			dataset.Column{Name: "a", Type: dataset.TypeNumeric, Values: []dataset.Value{dataset.V("1")}},
			dataset.Column{Name: "b", Type: dataset.TypeNumeric, Values: []dataset.Value{dataset.V("1"), dataset.V("2")}},
		)
		assert.ErrorIs(t, err, dataset.ErrMalformedDataset)
	})

	t.Run("duplicate column name", func(t *testing.T) {
		_, err := dataset.New(
			dataset.Column{Name: "a", Type: dataset.TypeNumeric},
			dataset.Column{Name: "a", Type: dataset.TypeCategorical},
		)
		assert.ErrorIs(t, err, dataset.ErrMalformedDataset)
	})

	t.Run("empty column name", func(t *testing.T) {
		_, err := dataset.New(dataset.Column{Name: "", Type: dataset.TypeNumeric})
		assert.ErrorIs(t, err, dataset.ErrMalformedDataset)
	})
}

func TestColumn_Accessors(t *testing.T) {
	col := dataset.Column{
		Name: "mixed",
		Type: dataset.TypeNumeric,
		Values: []dataset.Value{
			dataset.V("1.5"),
			dataset.NA(),
			dataset.V(" 2 "),
			dataset.V("not a number"),
			dataset.V("  "),
		},
	}

	v, ok := col.FloatAt(0)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok = col.FloatAt(1)
	assert.False(t, ok, "missing cell")
	_, ok = col.FloatAt(3)
	assert.False(t, ok, "unparseable cell")
	_, ok = col.FloatAt(99)
	assert.False(t, ok, "out of range")

	s, ok := col.StringAt(3)
	assert.True(t, ok)
	assert.Equal(t, "not a number", s)
	_, ok = col.StringAt(4)
	assert.False(t, ok, "whitespace-only cell reads as missing")

	assert.Equal(t, []float64{1.5, 2}, col.NonMissingFloats())
	assert.Equal(t, 1, col.MissingCount())
}

func TestColumn_TimeAt(t *testing.T) {
	col := dataset.Column{
		Name: "ts",
		Type: dataset.TypeDatetime,
		Values: []dataset.Value{
			dataset.V("2024-03-15"),
			dataset.V("2024-03-15 10:30:00"),
			dataset.V("2024/03/15"),
			dataset.V("2024-03-15T10:30:00Z"),
			dataset.V("yesterday"),
		},
	}
	for i := 0; i < 4; i++ {
		ts, ok := col.TimeAt(i)
		assert.True(t, ok, "layout %d should parse", i)
		assert.Equal(t, 2024, ts.Year())
		assert.Equal(t, time.March, ts.Month())
	}
	_, ok := col.TimeAt(4)
	assert.False(t, ok)
}

func TestDataset_FirstDatetimeColumn(t *testing.T) {
	ds, err := dataset.New(
		dataset.Column{Name: "price", Type: dataset.TypeNumeric, Values: []dataset.Value{dataset.V("1")}},
		dataset.Column{Name: "created", Type: dataset.TypeDatetime, Values: []dataset.Value{dataset.V("2024-01-01")}},
		dataset.Column{Name: "updated", Type: dataset.TypeDatetime, Values: []dataset.Value{dataset.V("2024-02-01")}},
	)
	require.NoError(t, err)

	col, ok := ds.FirstDatetimeColumn()
	require.True(t, ok)
	assert.Equal(t, "created", col.Name)

	noTime, err := dataset.New(
		dataset.Column{Name: "price", Type: dataset.TypeNumeric, Values: []dataset.Value{dataset.V("1")}},
	)
	require.NoError(t, err)
	_, ok = noTime.FirstDatetimeColumn()
	assert.False(t, ok)
}

func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"columns": [
			{"name": "price", "type": "numeric", "values": ["10", null, "30"]},
			{"name": "city", "type": "Categorical", "values": ["Lisbon", "Porto", null]}
		]
	}`)
	ds, err := dataset.FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows())

	price, ok := ds.Column("price")
	require.True(t, ok)
	assert.Equal(t, dataset.TypeNumeric, price.Type)
	assert.Equal(t, []float64{10, 30}, price.NonMissingFloats())
	assert.Equal(t, 1, price.MissingCount())
}

func TestFromJSON_Errors(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		_, err := dataset.FromJSON([]byte(`{`))
		assert.ErrorIs(t, err, dataset.ErrMalformedDataset)
	})
	t.Run("unknown semantic type", func(t *testing.T) {
		_, err := dataset.FromJSON([]byte(`{"columns": [{"name": "x", "type": "complex", "values": []}]}`))
		assert.ErrorIs(t, err, dataset.ErrMalformedDataset)
	})
	t.Run("ragged columns", func(t *testing.T) {
		_, err := dataset.FromJSON([]byte(`{"columns": [
			{"name": "a", "type": "numeric", "values": ["1"]},
			{"name": "b", "type": "numeric", "values": ["1", "2"]}
		]}`))
		assert.ErrorIs(t, err, dataset.ErrMalformedDataset)
	})
}

func TestMarshalJSON_RoundTrip(t *testing.T) {
	ds, err := dataset.New(
		dataset.Column{Name: "price", Type: dataset.TypeNumeric, Values: []dataset.Value{dataset.V("10"), dataset.NA()}},
	)
	require.NoError(t, err)

	data, err := json.Marshal(ds)
	require.NoError(t, err)

	back, err := dataset.FromJSON(data)
	require.NoError(t, err)
	col, ok := back.Column("price")
	require.True(t, ok)
	assert.Equal(t, []float64{10}, col.NonMissingFloats())
	assert.Equal(t, 1, col.MissingCount())
}
