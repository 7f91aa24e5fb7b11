package analytics

import (
	"context"
	"math"

	"github.com/KaramelBytes/dataloom/internal/schema"
)

// RoleChange records a column common to both datasets whose inferred role
// differs.
type RoleChange struct {
	Column string `json:"column"`
	RoleA  string `json:"role_a"`
	RoleB  string `json:"role_b"`
}

// ColumnComparison compares one commonly-named column across two datasets.
// The numeric block is present only when the column is numerical in both.
type ColumnComparison struct {
	Column    string   `json:"column"`
	RoleA     string   `json:"role_a"`
	RoleB     string   `json:"role_b"`
	DistinctA int      `json:"distinct_a"`
	DistinctB int      `json:"distinct_b"`
	NullPctA  float64  `json:"null_pct_a"`
	NullPctB  float64  `json:"null_pct_b"`
	MeanA     *float64 `json:"mean_a,omitempty"`
	MeanB     *float64 `json:"mean_b,omitempty"`
	MeanDiff  *float64 `json:"mean_diff,omitempty"`
	StdA      *float64 `json:"std_a,omitempty"`
	StdB      *float64 `json:"std_b,omitempty"`
}

// CompareResult is the structural and statistical diff of two datasets.
type CompareResult struct {
	Meta
	DatasetA    string             `json:"dataset_a"`
	DatasetB    string             `json:"dataset_b"`
	RowsA       int                `json:"rows_a"`
	RowsB       int                `json:"rows_b"`
	OnlyInA     []string           `json:"only_in_a,omitempty"`
	OnlyInB     []string           `json:"only_in_b,omitempty"`
	RoleChanges []RoleChange       `json:"role_changes,omitempty"`
	Columns     []ColumnComparison `json:"column_comparisons"`
}

// Compare diffs two dataset schemas (column sets and role assignments) and
// compares value distributions for commonly-named columns.
func (o *Operations) Compare(ctx context.Context, nameA, nameB string) (*CompareResult, error) {
	ea, err := o.reg.Get(nameA)
	if err != nil {
		return nil, err
	}
	eb, err := o.reg.Get(nameB)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &CompareResult{
		Meta:     newMeta(nameA, "compare", "", nil, len(ea.Dataset.Rows)+len(eb.Dataset.Rows)),
		DatasetA: nameA,
		DatasetB: nameB,
		RowsA:    len(ea.Dataset.Rows),
		RowsB:    len(eb.Dataset.Rows),
	}

	inB := make(map[string]bool, len(eb.Dataset.Columns))
	for _, c := range eb.Dataset.Columns {
		inB[c] = true
	}
	common := make(map[string]bool)
	for _, c := range ea.Dataset.Columns {
		if inB[c] {
			common[c] = true
		} else {
			res.OnlyInA = append(res.OnlyInA, c)
		}
	}
	for _, c := range eb.Dataset.Columns {
		if !common[c] {
			res.OnlyInB = append(res.OnlyInB, c)
		}
	}

	for _, c := range ea.Dataset.Columns {
		if !common[c] {
			continue
		}
		pa, pb := ea.Schema.Column(c), eb.Schema.Column(c)
		if pa.Role != pb.Role {
			res.RoleChanges = append(res.RoleChanges, RoleChange{
				Column: c, RoleA: pa.Role.String(), RoleB: pb.Role.String(),
			})
		}
		cc := ColumnComparison{
			Column:    c,
			RoleA:     pa.Role.String(),
			RoleB:     pb.Role.String(),
			DistinctA: pa.Distinct,
			DistinctB: pb.Distinct,
			NullPctA:  math.Round(pa.NullRatio()*10000) / 100,
			NullPctB:  math.Round(pb.NullRatio()*10000) / 100,
		}
		if pa.Role == schema.RoleNumerical && pb.Role == schema.RoleNumerical &&
			pa.Numeric != nil && pb.Numeric != nil {
			ma, mb := round4(pa.Numeric.Mean), round4(pb.Numeric.Mean)
			diff := round4(ma - mb)
			sa, sb := round4(pa.Numeric.Std), round4(pb.Numeric.Std)
			cc.MeanA, cc.MeanB, cc.MeanDiff = &ma, &mb, &diff
			cc.StdA, cc.StdB = &sa, &sb
		}
		res.Columns = append(res.Columns, cc)
	}
	return res, nil
}
