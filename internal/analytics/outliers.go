package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/dataloom/internal/schema"
)

// OutlierMethod selects the detection method. There is no default: the
// caller must choose, so results are never silently produced under a
// different method than intended.
type OutlierMethod string

const (
	MethodIQR    OutlierMethod = "iqr"
	MethodZScore OutlierMethod = "zscore"
)

// ColumnOutliers reports the outliers found in one numerical column.
type ColumnOutliers struct {
	Column     string    `json:"column"`
	Count      int       `json:"count"`
	Percentage float64   `json:"percentage"`
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
	Samples    []float64 `json:"samples,omitempty"` // up to 10 offending values
}

// OutlierResult is the per-column outlier report.
type OutlierResult struct {
	Meta
	ByColumn []ColumnOutliers `json:"by_column"`
	Total    int              `json:"total_outliers"`
}

// DetectOutliers flags values outside the method's fences for each requested
// numerical column (all numerical columns when none are named).
func (o *Operations) DetectOutliers(ctx context.Context, datasetName string, columns []string, method OutlierMethod) (*OutlierResult, error) {
	switch method {
	case MethodIQR, MethodZScore:
	default:
		return nil, fmt.Errorf("outlier method is required: use %q or %q", MethodIQR, MethodZScore)
	}
	e, err := o.reg.Get(datasetName)
	if err != nil {
		return nil, err
	}
	cols, err := resolveNumericColumns(e, columns)
	if err != nil {
		return nil, err
	}

	res := &OutlierResult{
		Meta: newMeta(datasetName, "outlier_detection", string(method), cols, len(e.Dataset.Rows)),
	}
	for _, c := range cols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		values, err := e.Dataset.Column(c)
		if err != nil {
			return nil, err
		}
		var xs []float64
		for _, v := range values {
			if f, ok := schema.ParseNumber(v); ok {
				xs = append(xs, f)
			}
		}
		co := ColumnOutliers{Column: c}
		if len(xs) > 0 {
			var lower, upper float64
			switch method {
			case MethodIQR:
				sorted := append([]float64(nil), xs...)
				sort.Float64s(sorted)
				q1 := schema.Quantile(sorted, 0.25)
				q3 := schema.Quantile(sorted, 0.75)
				iqr := q3 - q1
				lower = q1 - o.cfg.IQRMultiplier*iqr
				upper = q3 + o.cfg.IQRMultiplier*iqr
			case MethodZScore:
				mean, std := meanStd(xs)
				if std == 0 {
					lower, upper = mean, mean
					// Constant column: nothing can be an outlier.
					xs = nil
				} else {
					lower = mean - o.cfg.ZScoreThreshold*std
					upper = mean + o.cfg.ZScoreThreshold*std
				}
			}
			for _, x := range xs {
				if x < lower || x > upper {
					co.Count++
					if len(co.Samples) < 10 {
						co.Samples = append(co.Samples, x)
					}
				}
			}
			co.LowerBound = round4(lower)
			co.UpperBound = round4(upper)
			if n := len(values); n > 0 {
				co.Percentage = math.Round(float64(co.Count)/float64(n)*10000) / 100
			}
		}
		res.Total += co.Count
		res.ByColumn = append(res.ByColumn, co)
	}
	return res, nil
}
