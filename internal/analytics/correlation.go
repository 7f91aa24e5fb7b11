package analytics

import (
	"context"
	"math"
	"sort"

	"github.com/KaramelBytes/dataloom/internal/schema"
)

// StrongCorrelation is one above-threshold pair from the matrix.
type StrongCorrelation struct {
	ColumnA     string  `json:"column_a"`
	ColumnB     string  `json:"column_b"`
	Correlation float64 `json:"correlation"`
	Strength    string  `json:"strength"`  // "strong" or "moderate"
	Direction   string  `json:"direction"` // "positive" or "negative"
}

// CorrelationResult holds the symmetric Pearson matrix. A nil cell means the
// coefficient is undefined for that pair (too few jointly non-null rows or
// zero variance); it is never silently reported as zero.
type CorrelationResult struct {
	Meta
	ColumnsAnalyzed []string            `json:"columns_analyzed"`
	Matrix          [][]*float64        `json:"matrix"`
	Strong          []StrongCorrelation `json:"strong_correlations"`
	Threshold       float64             `json:"threshold"`
}

// Correlate computes pairwise Pearson correlation over the given numerical
// columns, or over every numerical column when none are named. The matrix is
// symmetric with unit diagonal, except that a zero-variance column gets a nil
// diagonal cell.
func (o *Operations) Correlate(ctx context.Context, datasetName string, columns []string, threshold float64) (*CorrelationResult, error) {
	e, err := o.reg.Get(datasetName)
	if err != nil {
		return nil, err
	}
	cols, err := resolveNumericColumns(e, columns)
	if err != nil {
		return nil, err
	}
	if len(cols) < 2 {
		return nil, &InvalidColumnRoleError{Dataset: datasetName, Expected: []schema.Role{schema.RoleNumerical}}
	}
	if threshold <= 0 {
		threshold = o.cfg.CorrelationThreshold
	}

	k := len(cols)
	accs := make([][]pairAcc, k)
	for i := range accs {
		accs[i] = make([]pairAcc, k)
	}

	rowVals := make([]float64, k)
	rowOK := make([]bool, k)
	for ri, row := range e.Dataset.Rows {
		if err := o.checkCancel(ctx, ri); err != nil {
			return nil, err
		}
		for ci, c := range cols {
			rowVals[ci], rowOK[ci] = schema.ParseNumber(row[c])
		}
		for i := 0; i < k; i++ {
			if !rowOK[i] {
				continue
			}
			for j := 0; j <= i; j++ {
				if rowOK[j] {
					accs[i][j].add(rowVals[i], rowVals[j])
				}
			}
		}
	}

	res := &CorrelationResult{
		Meta:            newMeta(datasetName, "correlation", "pearson", cols, len(e.Dataset.Rows)),
		ColumnsAnalyzed: cols,
		Threshold:       threshold,
		Matrix:          make([][]*float64, k),
	}
	for i := range res.Matrix {
		res.Matrix[i] = make([]*float64, k)
	}
	for i := 0; i < k; i++ {
		for j := 0; j <= i; j++ {
			acc := accs[i][j]
			if int(acc.n) < o.cfg.MinCorrelationRows {
				continue // undefined, stays nil
			}
			r, ok := acc.r()
			if !ok {
				continue
			}
			if i == j {
				r = 1.0
			}
			v := round4(r)
			res.Matrix[i][j] = &v
			res.Matrix[j][i] = &v
			if i != j && math.Abs(r) > threshold {
				res.Strong = append(res.Strong, StrongCorrelation{
					ColumnA:     cols[j],
					ColumnB:     cols[i],
					Correlation: v,
					Strength:    strength(r),
					Direction:   direction(r),
				})
			}
		}
	}
	sort.Slice(res.Strong, func(a, b int) bool {
		av, bv := math.Abs(res.Strong[a].Correlation), math.Abs(res.Strong[b].Correlation)
		if av == bv {
			return res.Strong[a].ColumnA+res.Strong[a].ColumnB < res.Strong[b].ColumnA+res.Strong[b].ColumnB
		}
		return av > bv
	})
	return res, nil
}

func strength(r float64) string {
	if math.Abs(r) > 0.7 {
		return "strong"
	}
	return "moderate"
}

func direction(r float64) string {
	if r < 0 {
		return "negative"
	}
	return "positive"
}
