package analytics

import (
	"context"
	"math"
	"sort"

	"github.com/KaramelBytes/dataloom/internal/schema"
)

// FeatureScore is one candidate column's importance relative to the target.
type FeatureScore struct {
	Feature     string   `json:"feature"`
	Correlation *float64 `json:"correlation"` // nil when undefined
	Importance  float64  `json:"importance"`
	Rank        int      `json:"rank"`
}

// ImportanceResult ranks candidate columns by absolute correlation with the
// target. This is a documented simplification, not model-based importance.
type ImportanceResult struct {
	Meta
	Target   string         `json:"target"`
	Features []FeatureScore `json:"features"`
}

// FeatureImportance scores each candidate numerical column by the absolute
// Pearson correlation with the numerical target. Candidates default to every
// other numerical column. Undefined correlations score zero. Ranking is
// deterministic: descending importance, ties broken by column name.
func (o *Operations) FeatureImportance(ctx context.Context, datasetName, target string, candidates []string) (*ImportanceResult, error) {
	e, err := o.reg.Get(datasetName)
	if err != nil {
		return nil, err
	}
	if err := requireRole(e, target, schema.RoleNumerical); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		for _, c := range e.Schema.ColumnsByRole(schema.RoleNumerical) {
			if c != target {
				candidates = append(candidates, c)
			}
		}
		if len(candidates) == 0 {
			return nil, &InvalidColumnRoleError{Dataset: datasetName, Expected: []schema.Role{schema.RoleNumerical}}
		}
	} else {
		for _, c := range candidates {
			if err := requireRole(e, c, schema.RoleNumerical); err != nil {
				return nil, err
			}
		}
	}

	accs := make([]pairAcc, len(candidates))
	for ri, row := range e.Dataset.Rows {
		if err := o.checkCancel(ctx, ri); err != nil {
			return nil, err
		}
		y, ok := schema.ParseNumber(row[target])
		if !ok {
			continue
		}
		for ci, c := range candidates {
			if x, ok := schema.ParseNumber(row[c]); ok {
				accs[ci].add(x, y)
			}
		}
	}

	res := &ImportanceResult{
		Meta:   newMeta(datasetName, "feature_importance", "correlation", append([]string{target}, candidates...), len(e.Dataset.Rows)),
		Target: target,
	}
	for ci, c := range candidates {
		fs := FeatureScore{Feature: c}
		if int(accs[ci].n) >= o.cfg.MinCorrelationRows {
			if r, ok := accs[ci].r(); ok {
				v := round4(r)
				fs.Correlation = &v
				fs.Importance = round4(math.Abs(r))
			}
		}
		res.Features = append(res.Features, fs)
	}
	sort.Slice(res.Features, func(i, j int) bool {
		if res.Features[i].Importance == res.Features[j].Importance {
			return res.Features[i].Feature < res.Features[j].Feature
		}
		return res.Features[i].Importance > res.Features[j].Importance
	})
	for i := range res.Features {
		res.Features[i].Rank = i + 1
	}
	return res, nil
}
