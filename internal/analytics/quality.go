package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/KaramelBytes/dataloom/internal/dataset"
	"github.com/KaramelBytes/dataloom/internal/schema"
)

// Fixed quality-score weights. The score is a documented weighted formula,
// never inferred from the data:
//
//	score = 100 - 50*nullCellRatio - 40*duplicateRowRatio - 10*(violations/columns)
//
// clamped to [0, 100].
const (
	weightMissing    = 50.0
	weightDuplicates = 40.0
	weightViolations = 10.0
)

// QualityResult is the data-quality assessment report.
type QualityResult struct {
	Meta
	TotalRows       int                `json:"total_rows"`
	TotalColumns    int                `json:"total_columns"`
	MissingPct      map[string]float64 `json:"missing_pct"` // only columns with nulls
	DuplicateRows   int                `json:"duplicate_rows"`
	Violations      []string           `json:"role_violations,omitempty"`
	Score           float64            `json:"quality_score"`
	Issues          []string           `json:"potential_issues,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
}

// AssessQuality reports per-column null ratios, the dataset-level duplicate
// row ratio and role-consistency violations, aggregated into a 0-100 score.
func (o *Operations) AssessQuality(ctx context.Context, datasetName string) (*QualityResult, error) {
	e, err := o.reg.Get(datasetName)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, sch := e.Dataset, e.Schema
	rows, cols := len(ds.Rows), len(ds.Columns)

	res := &QualityResult{
		Meta:         newMeta(datasetName, "data_quality", "", nil, rows),
		TotalRows:    rows,
		TotalColumns: cols,
		MissingPct:   make(map[string]float64),
	}

	var nullCells int
	for _, p := range sch.Columns {
		nullCells += p.Nulls
		if p.Nulls > 0 {
			res.MissingPct[p.Name] = math.Round(p.NullRatio()*10000) / 100
		}
		switch p.Role {
		case schema.RoleIdentifier:
			if p.Uniqueness < 1.0 {
				res.Violations = append(res.Violations,
					fmt.Sprintf("identifier column %q has duplicate values", p.Name))
			}
		case schema.RoleCategorical, schema.RoleText:
			if numericLeakage(ds, p.Name) {
				res.Violations = append(res.Violations,
					fmt.Sprintf("column %q is mostly numeric but contains unparseable values", p.Name))
			}
		}
	}
	res.DuplicateRows = ds.DuplicateRows()

	// Issues and recommendations mirror the violations in caller-friendly
	// prose.
	if res.DuplicateRows > 0 {
		res.Issues = append(res.Issues, fmt.Sprintf("found %d duplicate rows", res.DuplicateRows))
		res.Recommendations = append(res.Recommendations, "deduplicate rows before analysis")
	}
	for _, p := range sch.Columns {
		if pct, ok := res.MissingPct[p.Name]; ok && pct > 20 {
			res.Issues = append(res.Issues, fmt.Sprintf("column %q is missing %.1f%% of values", p.Name, pct))
			res.Recommendations = append(res.Recommendations, fmt.Sprintf("investigate the source of column %q or impute/drop it", p.Name))
		}
	}
	res.Issues = append(res.Issues, res.Violations...)
	if len(res.Issues) == 0 {
		res.Recommendations = append(res.Recommendations, "no major issues detected")
	}

	score := 100.0
	if rows > 0 && cols > 0 {
		score -= weightMissing * float64(nullCells) / float64(rows*cols)
		score -= weightDuplicates * float64(res.DuplicateRows) / float64(rows)
		score -= weightViolations * float64(len(res.Violations)) / float64(cols)
	}
	res.Score = math.Round(math.Max(0, math.Min(100, score))*10) / 10
	return res, nil
}

// numericLeakage reports whether a text-like column is at least 80% numeric,
// which usually means a numerical column polluted by residual unparseable
// values.
func numericLeakage(ds *dataset.Dataset, column string) bool {
	values, err := ds.Column(column)
	if err != nil {
		return false
	}
	nonNull, numeric := 0, 0
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		nonNull++
		if _, ok := schema.ParseNumber(v); ok {
			numeric++
		}
	}
	// A fully numeric column would have been classified numerical already,
	// so numeric < nonNull here.
	return nonNull > 0 && float64(numeric)/float64(nonNull) >= 0.8
}
