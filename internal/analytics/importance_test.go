package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataloom/internal/dataset"
)

func TestFeatureImportanceRanksByAbsoluteCorrelation(t *testing.T) {
	ops := newTestOps(t)
	// strong is target*-1 (perfect negative), weak alternates around a
	// constant, noise is uncorrelated by construction.
	rows := []dataset.Record{
		{"target": dataset.Number(1), "strong": dataset.Number(-1), "weak": dataset.Number(5)},
		{"target": dataset.Number(2), "strong": dataset.Number(-2), "weak": dataset.Number(7)},
		{"target": dataset.Number(3), "strong": dataset.Number(-3), "weak": dataset.Number(5)},
		{"target": dataset.Number(4), "strong": dataset.Number(-4), "weak": dataset.Number(7)},
		{"target": dataset.Number(5), "strong": dataset.Number(-5), "weak": dataset.Number(5)},
	}
	_, err := ops.Registry().Load("features", []string{"target", "strong", "weak"}, rows, false)
	require.NoError(t, err)

	res, err := ops.FeatureImportance(context.Background(), "features", "target", nil)
	require.NoError(t, err)
	require.Len(t, res.Features, 2)

	first := res.Features[0]
	assert.Equal(t, "strong", first.Feature)
	assert.Equal(t, 1, first.Rank)
	require.NotNil(t, first.Correlation)
	assert.InDelta(t, -1.0, *first.Correlation, 1e-9)
	assert.InDelta(t, 1.0, first.Importance, 1e-9)

	second := res.Features[1]
	assert.Equal(t, "weak", second.Feature)
	assert.Equal(t, 2, second.Rank)
	assert.Less(t, second.Importance, first.Importance)
}

func TestFeatureImportanceDeterministicTieBreak(t *testing.T) {
	ops := newTestOps(t)
	// revenue and units correlate identically with each other; candidates
	// default to every other numerical column.
	res, err := ops.FeatureImportance(context.Background(), "orders", "revenue", nil)
	require.NoError(t, err)
	require.Len(t, res.Features, 1)
	assert.Equal(t, "units", res.Features[0].Feature)
}

func TestFeatureImportanceTargetMustBeNumerical(t *testing.T) {
	ops := newTestOps(t)
	_, err := ops.FeatureImportance(context.Background(), "orders", "region", nil)
	var icr *InvalidColumnRoleError
	require.ErrorAs(t, err, &icr)
	assert.Equal(t, "region", icr.Column)
}

func TestFeatureImportanceNoCandidates(t *testing.T) {
	ops := newTestOps(t)
	loadColumn(t, ops, "solo", []float64{1, 2, 3})
	_, err := ops.FeatureImportance(context.Background(), "solo", "value", nil)
	var icr *InvalidColumnRoleError
	assert.ErrorAs(t, err, &icr)
}
