package dataset

import "time"

// Dataset is a named, ordered collection of records. Datasets are immutable
// after construction: merge produces a new dataset, it never rewrites an
// existing one. That immutability is what lets analytic operations read a
// snapshot without holding the registry lock.
type Dataset struct {
	Name     string
	Columns  []string
	Rows     []Record
	Format   string // source serialization: "csv", "json", "merge", "memory"
	LoadedAt time.Time
}

// New constructs a Dataset and normalizes every row to the full column set,
// filling gaps with explicit nulls. Unknown keys in a row are dropped so the
// column set stays authoritative.
func New(name string, columns []string, rows []Record) *Dataset {
	cols := make([]string, len(columns))
	copy(cols, columns)
	norm := make([]Record, len(rows))
	for i, r := range rows {
		nr := make(Record, len(cols))
		for _, c := range cols {
			v, ok := r[c]
			if !ok {
				v = Null
			}
			nr[c] = v
		}
		norm[i] = nr
	}
	return &Dataset{
		Name:     name,
		Columns:  cols,
		Rows:     norm,
		Format:   "memory",
		LoadedAt: time.Now().UTC(),
	}
}

// HasColumn reports whether the dataset carries the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the ordered values of one column, with explicit nulls.
func (d *Dataset) Column(name string) ([]Value, error) {
	if !d.HasColumn(name) {
		return nil, &ColumnNotFoundError{Dataset: d.Name, Column: name}
	}
	out := make([]Value, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r[name]
	}
	return out, nil
}

// Sample returns up to n leading rows converted to native Go types, for
// previews and the export boundary. It never exposes internal Records.
func (d *Dataset) Sample(n int) []map[string]any {
	if n <= 0 || n > len(d.Rows) {
		n = len(d.Rows)
	}
	out := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		m := make(map[string]any, len(d.Columns))
		for _, c := range d.Columns {
			m[c] = d.Rows[i][c].Native()
		}
		out[i] = m
	}
	return out
}

// EstimateBytes reports advisory in-memory size: cells plus per-row map
// overhead. Used only by the memory report, never for eviction.
func (d *Dataset) EstimateBytes() int64 {
	var total int64
	for _, c := range d.Columns {
		total += int64(len(c))
	}
	for _, r := range d.Rows {
		total += 48 // map header overhead per row, approximate
		for _, v := range r {
			total += int64(v.estimateBytes())
		}
	}
	return total
}

// DuplicateRows counts rows whose full canonical key sequence repeats an
// earlier row.
func (d *Dataset) DuplicateRows() int {
	seen := make(map[string]struct{}, len(d.Rows))
	dups := 0
	for _, r := range d.Rows {
		key := ""
		for _, c := range d.Columns {
			key += r[c].Key() + "\x1f"
		}
		if _, ok := seen[key]; ok {
			dups++
		} else {
			seen[key] = struct{}{}
		}
	}
	return dups
}
