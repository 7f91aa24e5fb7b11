package registry

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/dataloom/internal/dataset"
	"github.com/KaramelBytes/dataloom/internal/schema"
)

// JoinHow selects the merge strategy.
type JoinHow string

const (
	JoinInner JoinHow = "inner"
	JoinLeft  JoinHow = "left"
	JoinOuter JoinHow = "outer"
)

// MergeResult summarizes a completed merge.
type MergeResult struct {
	Name    string  `json:"merged_dataset_name"`
	Rows    int     `json:"rows"`
	Columns int     `json:"columns"`
	How     JoinHow `json:"how"`
}

// Merge joins primary and secondary on a single key column and registers the
// result under newName (generated when empty). The key must carry compatible
// roles in both schemas. Each secondary row joins at most once, so duplicate
// keys never multiply rows: an inner join never exceeds the smaller input and
// an outer join never undershoots the larger. The merged schema is inferred
// fresh, never copied.
func (r *Registry) Merge(primary, secondary, onColumn string, how JoinHow, newName string) (*MergeResult, error) {
	switch how {
	case JoinInner, JoinLeft, JoinOuter:
	default:
		return nil, fmt.Errorf("unsupported join strategy %q: use inner, left or outer", how)
	}

	pe, err := r.Get(primary)
	if err != nil {
		return nil, err
	}
	se, err := r.Get(secondary)
	if err != nil {
		return nil, err
	}
	if !pe.Dataset.HasColumn(onColumn) {
		return nil, &dataset.ColumnNotFoundError{Dataset: primary, Column: onColumn}
	}
	if !se.Dataset.HasColumn(onColumn) {
		return nil, &dataset.ColumnNotFoundError{Dataset: secondary, Column: onColumn}
	}

	pRole := pe.Schema.Column(onColumn).Role
	sRole := se.Schema.Column(onColumn).Role
	if !mergeCompatible(pRole, sRole) {
		return nil, &dataset.SchemaMismatchError{
			Column:   onColumn,
			DatasetA: primary, RoleA: pRole.String(),
			DatasetB: secondary, RoleB: sRole.String(),
		}
	}

	// Column layout: primary columns, then secondary columns that are new.
	// Secondary columns colliding with primary names (other than the key)
	// get a suffix, mirroring pandas-style merges.
	cols := append([]string(nil), pe.Dataset.Columns...)
	rename := make(map[string]string, len(se.Dataset.Columns))
	for _, c := range se.Dataset.Columns {
		if c == onColumn {
			continue
		}
		name := c
		if pe.Dataset.HasColumn(c) {
			name = c + "_" + secondary
		}
		rename[c] = name
		cols = append(cols, name)
	}

	// Secondary rows queue up per key and each is consumed at most once, in
	// input order. A primary row with no unconsumed match behaves as
	// unmatched even when its key appeared earlier.
	index := make(map[string][]int, len(se.Dataset.Rows))
	for i, row := range se.Dataset.Rows {
		k := row[onColumn].Key()
		index[k] = append(index[k], i)
	}
	next := make(map[string]int, len(index))
	consumed := make([]bool, len(se.Dataset.Rows))

	var rows []dataset.Record
	for _, prow := range pe.Dataset.Rows {
		k := prow[onColumn].Key()
		var srow dataset.Record
		if q := index[k]; next[k] < len(q) {
			i := q[next[k]]
			next[k]++
			consumed[i] = true
			srow = se.Dataset.Rows[i]
		}
		if srow == nil && how == JoinInner {
			continue
		}
		out := make(dataset.Record, len(cols))
		for _, c := range pe.Dataset.Columns {
			out[c] = prow[c]
		}
		for sc, name := range rename {
			if srow != nil {
				out[name] = srow[sc]
			} else {
				out[name] = dataset.Null
			}
		}
		rows = append(rows, out)
	}
	if how == JoinOuter {
		for i, srow := range se.Dataset.Rows {
			if consumed[i] {
				continue
			}
			out := make(dataset.Record, len(cols))
			for _, c := range pe.Dataset.Columns {
				out[c] = dataset.Null
			}
			out[onColumn] = srow[onColumn]
			for sc, name := range rename {
				out[name] = srow[sc]
			}
			rows = append(rows, out)
		}
	}

	if newName == "" {
		newName = fmt.Sprintf("merged_%s_%s_%s", primary, secondary, uuid.NewString()[:8])
	}
	merged := dataset.New(newName, cols, rows)
	merged.Format = "merge"
	merged.LoadedAt = time.Now().UTC()

	if _, err := r.LoadDataset(merged, false); err != nil {
		return nil, err
	}
	return &MergeResult{Name: newName, Rows: len(rows), Columns: len(cols), How: how}, nil
}

// mergeCompatible reports whether two roles can key the same join. Equal
// roles always can; otherwise string-keyed roles mix freely and identifiers
// may match numerical keys. Numerical-vs-temporal and similar pairs cannot.
func mergeCompatible(a, b schema.Role) bool {
	if a == b {
		return true
	}
	stringFamily := func(r schema.Role) bool {
		return r == schema.RoleIdentifier || r == schema.RoleCategorical || r == schema.RoleText
	}
	numberFamily := func(r schema.Role) bool {
		return r == schema.RoleIdentifier || r == schema.RoleNumerical
	}
	if stringFamily(a) && stringFamily(b) {
		return true
	}
	if numberFamily(a) && numberFamily(b) {
		return true
	}
	return false
}
