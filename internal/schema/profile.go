package schema

import "time"

// NumericStats summarizes a numerical column.
type NumericStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// CategoryCount is one categorical value with its frequency.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TemporalStats summarizes a temporal column.
type TemporalStats struct {
	Min         time.Time `json:"min"`
	Max         time.Time `json:"max"`
	Granularity string    `json:"granularity"` // "day", "week" or "month"
}

// ColumnProfile is the inferred role plus role-specific statistics for one
// column. Only the stats block matching the role is populated; the generic
// counters are always set.
type ColumnProfile struct {
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Rows     int    `json:"rows"`
	NonNull  int    `json:"non_null"`
	Nulls    int    `json:"nulls"`
	Distinct int    `json:"distinct"`
	Samples  []any  `json:"samples,omitempty"`

	Numeric    *NumericStats   `json:"numeric,omitempty"`
	TopValues  []CategoryCount `json:"top_values,omitempty"`
	Temporal   *TemporalStats  `json:"temporal,omitempty"`
	Uniqueness float64         `json:"uniqueness,omitempty"` // distinct/non-null, identifier columns
}

// NullRatio reports the fraction of cells that are null.
func (p *ColumnProfile) NullRatio() float64 {
	if p.Rows == 0 {
		return 0
	}
	return float64(p.Nulls) / float64(p.Rows)
}

// Schema is the full role assignment for one dataset: every current column
// appears exactly once, in dataset column order. Recomputed wholesale on any
// data change; never patched incrementally.
type Schema struct {
	Dataset       string                    `json:"dataset"`
	RowCount      int                       `json:"row_count"`
	Columns       []*ColumnProfile          `json:"columns"`
	LowConfidence bool                      `json:"low_confidence"`
	byName        map[string]*ColumnProfile `json:"-"`
}

// Column returns the profile for the named column, or nil.
func (s *Schema) Column(name string) *ColumnProfile {
	return s.byName[name]
}

// ColumnsByRole returns the names of all columns carrying the given role, in
// dataset column order.
func (s *Schema) ColumnsByRole(role Role) []string {
	var out []string
	for _, c := range s.Columns {
		if c.Role == role {
			out = append(out, c.Name)
		}
	}
	return out
}
