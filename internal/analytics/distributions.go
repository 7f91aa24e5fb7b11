package analytics

import (
	"context"
	"sort"

	"github.com/KaramelBytes/dataloom/internal/dataset"
	"github.com/KaramelBytes/dataloom/internal/schema"
)

// NumericDistribution describes a numerical column's shape.
type NumericDistribution struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // excess kurtosis
}

// DistributionResult describes one column's value distribution, numerical or
// frequency-based depending on role.
type DistributionResult struct {
	Meta
	Column       string                 `json:"column"`
	Role         string                 `json:"role"`
	TotalValues  int                    `json:"total_values"`
	Distinct     int                    `json:"distinct"`
	Nulls        int                    `json:"nulls"`
	Numeric      *NumericDistribution   `json:"numeric,omitempty"`
	TopValues    []schema.CategoryCount `json:"top_values,omitempty"`
	MostFrequent string                 `json:"most_frequent,omitempty"`
}

// Distribution summarizes the distribution of a single column. Numerical
// columns get moments and quartiles; everything else gets frequency counts.
func (o *Operations) Distribution(ctx context.Context, datasetName, column string) (*DistributionResult, error) {
	e, err := o.reg.Get(datasetName)
	if err != nil {
		return nil, err
	}
	prof := e.Schema.Column(column)
	if prof == nil {
		return nil, &dataset.ColumnNotFoundError{Dataset: datasetName, Column: column}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &DistributionResult{
		Meta:        newMeta(datasetName, "distribution", "", []string{column}, len(e.Dataset.Rows)),
		Column:      column,
		Role:        prof.Role.String(),
		TotalValues: prof.Rows,
		Distinct:    prof.Distinct,
		Nulls:       prof.Nulls,
	}

	if prof.Role == schema.RoleNumerical || prof.Role == schema.RoleIdentifier {
		values, err := e.Dataset.Column(column)
		if err != nil {
			return nil, err
		}
		var xs []float64
		for _, v := range values {
			if f, ok := schema.ParseNumber(v); ok {
				xs = append(xs, f)
			}
		}
		if len(xs) > 0 {
			mean, std := meanStd(xs)
			sorted := append([]float64(nil), xs...)
			sort.Float64s(sorted)
			nd := &NumericDistribution{
				Mean:   round4(mean),
				Median: round4(schema.Quantile(sorted, 0.5)),
				Std:    round4(std),
				Min:    sorted[0],
				Max:    sorted[len(sorted)-1],
				Q25:    round4(schema.Quantile(sorted, 0.25)),
				Q75:    round4(schema.Quantile(sorted, 0.75)),
			}
			nd.Skewness = round4(skewness(xs, mean, std))
			nd.Kurtosis = round4(kurtosis(xs, mean, std))
			res.Numeric = nd
			return res, nil
		}
	}

	// Frequency view for categorical, boolean, text and non-numeric
	// identifier columns.
	counts := make(map[string]int)
	values, err := e.Dataset.Column(column)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if !v.IsNull() {
			counts[v.Key()]++
		}
	}
	res.TopValues = topCounts(counts, 10)
	if len(res.TopValues) > 0 {
		res.MostFrequent = res.TopValues[0].Value
	}
	return res, nil
}

func topCounts(counts map[string]int, limit int) []schema.CategoryCount {
	out := make([]schema.CategoryCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, schema.CategoryCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// skewness is the adjusted Fisher-Pearson sample skewness.
func skewness(xs []float64, mean, std float64) float64 {
	n := float64(len(xs))
	if n < 3 || std == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := (x - mean) / std
		sum += d * d * d
	}
	return n / ((n - 1) * (n - 2)) * sum
}

// kurtosis is the sample excess kurtosis.
func kurtosis(xs []float64, mean, std float64) float64 {
	n := float64(len(xs))
	if n < 4 || std == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := (x - mean) / std
		sum += d * d * d * d
	}
	return n*(n+1)/((n-1)*(n-2)*(n-3))*sum - 3*(n-1)*(n-1)/((n-2)*(n-3))
}
