package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/dataloom/internal/schema"
)

// GroupMetric is one numerical column's descriptive statistics within a
// segment.
type GroupMetric struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Segment is one group of rows sharing a categorical value.
type Segment struct {
	Value      string                 `json:"value"`
	Count      int                    `json:"count"`
	Percentage float64                `json:"percentage"`
	Metrics    map[string]GroupMetric `json:"metrics,omitempty"`
}

// SegmentationResult reports per-group statistics, groups in descending
// member count.
type SegmentationResult struct {
	Meta
	By          string    `json:"segmented_by"`
	TotalGroups int       `json:"total_groups"`
	Segments    []Segment `json:"segments"`
}

// Segment groups rows by a categorical (or boolean) column and computes
// count, mean, median, stddev, min and max for each requested numerical
// column. The segment list is capped at MaxSegments, largest groups first;
// a grouping column above the cardinality cap is refused outright.
func (o *Operations) Segment(ctx context.Context, datasetName, by string, valueColumns []string) (*SegmentationResult, error) {
	e, err := o.reg.Get(datasetName)
	if err != nil {
		return nil, err
	}
	if err := requireRole(e, by, schema.RoleCategorical, schema.RoleBoolean); err != nil {
		return nil, err
	}
	prof := e.Schema.Column(by)
	if prof.Distinct > o.cfg.SegmentCardinality {
		return nil, fmt.Errorf("column %q has %d distinct values, above the segmentation cap of %d",
			by, prof.Distinct, o.cfg.SegmentCardinality)
	}

	var numCols []string
	if len(valueColumns) == 0 {
		numCols = e.Schema.ColumnsByRole(schema.RoleNumerical) // may be empty: counts only
	} else {
		numCols, err = resolveNumericColumns(e, valueColumns)
		if err != nil {
			return nil, err
		}
	}

	groups := make(map[string][]int) // segment value -> row indices
	for ri, row := range e.Dataset.Rows {
		if err := o.checkCancel(ctx, ri); err != nil {
			return nil, err
		}
		v := row[by]
		if v.IsNull() {
			continue
		}
		key := v.Key()
		groups[key] = append(groups[key], ri)
	}

	res := &SegmentationResult{
		Meta:        newMeta(datasetName, "segmentation", "", append([]string{by}, numCols...), len(e.Dataset.Rows)),
		By:          by,
		TotalGroups: len(groups),
	}
	total := len(e.Dataset.Rows)
	for key, rows := range groups {
		seg := Segment{Value: key, Count: len(rows)}
		if total > 0 {
			seg.Percentage = math.Round(float64(len(rows))/float64(total)*10000) / 100
		}
		if len(numCols) > 0 {
			seg.Metrics = make(map[string]GroupMetric, len(numCols))
			for _, c := range numCols {
				var xs []float64
				for _, ri := range rows {
					if f, ok := schema.ParseNumber(e.Dataset.Rows[ri][c]); ok {
						xs = append(xs, f)
					}
				}
				if len(xs) == 0 {
					continue
				}
				mean, std := meanStd(xs)
				sorted := append([]float64(nil), xs...)
				sort.Float64s(sorted)
				seg.Metrics[c] = GroupMetric{
					Count:  len(xs),
					Mean:   round4(mean),
					Median: round4(schema.Quantile(sorted, 0.5)),
					Std:    round4(std),
					Min:    sorted[0],
					Max:    sorted[len(sorted)-1],
				}
			}
		}
		res.Segments = append(res.Segments, seg)
	}
	sort.Slice(res.Segments, func(i, j int) bool {
		if res.Segments[i].Count == res.Segments[j].Count {
			return res.Segments[i].Value < res.Segments[j].Value
		}
		return res.Segments[i].Count > res.Segments[j].Count
	})
	if len(res.Segments) > o.cfg.MaxSegments {
		res.Segments = res.Segments[:o.cfg.MaxSegments]
	}
	return res, nil
}
