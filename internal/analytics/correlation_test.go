package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataloom/internal/dataset"
)

func TestCorrelatePerfectPair(t *testing.T) {
	ops := newTestOps(t)
	res, err := ops.Correlate(context.Background(), "orders", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"revenue", "units"}, res.ColumnsAnalyzed)
	require.Len(t, res.Matrix, 2)

	// Unit diagonal, symmetric off-diagonal.
	for i := range res.Matrix {
		require.NotNil(t, res.Matrix[i][i])
		assert.Equal(t, 1.0, *res.Matrix[i][i])
	}
	require.NotNil(t, res.Matrix[0][1])
	assert.Equal(t, *res.Matrix[0][1], *res.Matrix[1][0])
	assert.InDelta(t, 1.0, *res.Matrix[0][1], 1e-9)

	require.Len(t, res.Strong, 1)
	assert.Equal(t, "revenue", res.Strong[0].ColumnA)
	assert.Equal(t, "units", res.Strong[0].ColumnB)
	assert.Equal(t, "strong", res.Strong[0].Strength)
	assert.Equal(t, "positive", res.Strong[0].Direction)
}

func TestCorrelateZeroVarianceIsUndefined(t *testing.T) {
	ops := newTestOps(t)
	rows := []dataset.Record{
		{"flat": dataset.Number(5), "v": dataset.Number(1)},
		{"flat": dataset.Number(5), "v": dataset.Number(2)},
		{"flat": dataset.Number(5), "v": dataset.Number(3)},
		{"flat": dataset.Number(5), "v": dataset.Number(4)},
	}
	_, err := ops.Registry().Load("flatset", []string{"flat", "v"}, rows, false)
	require.NoError(t, err)

	res, err := ops.Correlate(context.Background(), "flatset", nil, 0)
	require.NoError(t, err)
	// The flat column has zero variance: its cells stay nil, never a
	// fabricated zero.
	assert.Nil(t, res.Matrix[0][1])
	assert.Nil(t, res.Matrix[1][0])
	assert.Nil(t, res.Matrix[0][0])
	require.NotNil(t, res.Matrix[1][1])
	assert.Empty(t, res.Strong)
}

func TestCorrelateTooFewJointRows(t *testing.T) {
	ops := newTestOps(t)
	// a and b never appear on the same row, so the pair accumulates zero
	// joint observations.
	rows := []dataset.Record{
		{"a": dataset.Number(1), "b": dataset.Null},
		{"a": dataset.Number(2), "b": dataset.Null},
		{"a": dataset.Number(3), "b": dataset.Null},
		{"a": dataset.Null, "b": dataset.Number(1)},
		{"a": dataset.Null, "b": dataset.Number(2)},
		{"a": dataset.Null, "b": dataset.Number(3)},
	}
	_, err := ops.Registry().Load("disjoint", []string{"a", "b"}, rows, false)
	require.NoError(t, err)

	res, err := ops.Correlate(context.Background(), "disjoint", nil, 0)
	require.NoError(t, err)
	assert.Nil(t, res.Matrix[0][1])
	require.NotNil(t, res.Matrix[0][0])
	require.NotNil(t, res.Matrix[1][1])
}

func TestCorrelateRequiresTwoNumericalColumns(t *testing.T) {
	ops := newTestOps(t)
	loadColumn(t, ops, "single", []float64{1, 2, 3})

	_, err := ops.Correlate(context.Background(), "single", nil, 0)
	var icr *InvalidColumnRoleError
	require.ErrorAs(t, err, &icr)
	assert.Contains(t, err.Error(), "numerical")
}

func TestCorrelateRejectsNonNumericColumn(t *testing.T) {
	ops := newTestOps(t)
	_, err := ops.Correlate(context.Background(), "orders", []string{"revenue", "region"}, 0)
	var icr *InvalidColumnRoleError
	require.ErrorAs(t, err, &icr)
	assert.Equal(t, "region", icr.Column)
}

func TestCorrelateAbsentColumnIsNotFound(t *testing.T) {
	ops := newTestOps(t)
	_, err := ops.Correlate(context.Background(), "orders", []string{"revenue", "ghost"}, 0)
	var cnf *dataset.ColumnNotFoundError
	require.ErrorAs(t, err, &cnf)
	assert.Equal(t, "ghost", cnf.Column)
}

func TestCorrelateMissingDataset(t *testing.T) {
	ops := newTestOps(t)
	_, err := ops.Correlate(context.Background(), "nope", nil, 0)
	var nf *dataset.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCorrelateCancelled(t *testing.T) {
	ops := newTestOps(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ops.Correlate(ctx, "orders", nil, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
