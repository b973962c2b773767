package dataset

// ColumnProfile is the per-column slice of the dataset profile: missingness
// overview plus a cardinality check for downstream narration.
type ColumnProfile struct {
	Name           string       `json:"name"`
	Type           SemanticType `json:"type"`
	MissingCount   int          `json:"missingCount"`
	MissingPercent float64      `json:"missingPercent"`
	DistinctCount  int          `json:"distinctCount"`
	MostFrequent   string       `json:"mostFrequent,omitempty"`
}

// Profile summarizes the whole dataset for the report header.
type Profile struct {
	Rows     int             `json:"rows"`
	Columns  int             `json:"columns"`
	PerCol   []ColumnProfile `json:"columnProfiles"`
}

// Summarize computes the dataset profile: row/column counts and, per
// column, missingness plus distinct-value cardinality with the most
// frequent value (ties broken by first-encountered order).
func Summarize(ds *Dataset) Profile {
	rows := ds.Rows()
	p := Profile{
		Rows:    rows,
		Columns: ds.ColumnCount(),
		PerCol:  make([]ColumnProfile, 0, ds.ColumnCount()),
	}
	for i := range ds.Columns() {
		c := &ds.Columns()[i]
		cp := ColumnProfile{Name: c.Name, Type: c.Type, MissingCount: c.MissingCount()}
		if rows > 0 {
			cp.MissingPercent = 100 * float64(cp.MissingCount) / float64(rows)
		}

		counts := make(map[string]int)
		order := make([]string, 0)
		for r := range c.Values {
			s, ok := c.StringAt(r)
			if !ok {
				continue
			}
			if _, seen := counts[s]; !seen {
				order = append(order, s)
			}
			counts[s]++
		}
		cp.DistinctCount = len(counts)
		best := -1
		for _, v := range order {
			if counts[v] > best {
				best = counts[v]
				cp.MostFrequent = v
			}
		}
		p.PerCol = append(p.PerCol, cp)
	}
	return p
}
