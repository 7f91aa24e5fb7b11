package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataloom/internal/dataset"
)

func TestCompareColumnSets(t *testing.T) {
	ops := newTestOps(t)
	rows := []dataset.Record{
		{"region": dataset.Text("east"), "revenue": dataset.Number(100), "channel": dataset.Text("web")},
		{"region": dataset.Text("west"), "revenue": dataset.Number(200), "channel": dataset.Text("web")},
		{"region": dataset.Text("east"), "revenue": dataset.Number(300), "channel": dataset.Text("store")},
		{"region": dataset.Text("east"), "revenue": dataset.Number(400), "channel": dataset.Text("web")},
		{"region": dataset.Text("west"), "revenue": dataset.Number(500), "channel": dataset.Text("store")},
	}
	_, err := ops.Registry().Load("orders_v2", []string{"region", "revenue", "channel"}, rows, false)
	require.NoError(t, err)

	res, err := ops.Compare(context.Background(), "orders", "orders_v2")
	require.NoError(t, err)

	assert.Equal(t, 8, res.RowsA)
	assert.Equal(t, 5, res.RowsB)
	assert.ElementsMatch(t, []string{"order_id", "order_date", "units"}, res.OnlyInA)
	assert.Equal(t, []string{"channel"}, res.OnlyInB)

	// region and revenue are common with unchanged roles.
	assert.Empty(t, res.RoleChanges)
	require.Len(t, res.Columns, 2)
}

func TestCompareNumericShift(t *testing.T) {
	ops := newTestOps(t)
	loadColumn(t, ops, "before", []float64{10, 20, 30})
	loadColumn(t, ops, "after", []float64{40, 50, 60})

	res, err := ops.Compare(context.Background(), "before", "after")
	require.NoError(t, err)
	require.Len(t, res.Columns, 1)

	cc := res.Columns[0]
	assert.Equal(t, "value", cc.Column)
	require.NotNil(t, cc.MeanA)
	require.NotNil(t, cc.MeanB)
	require.NotNil(t, cc.MeanDiff)
	assert.InDelta(t, 20.0, *cc.MeanA, 1e-9)
	assert.InDelta(t, 50.0, *cc.MeanB, 1e-9)
	assert.InDelta(t, -30.0, *cc.MeanDiff, 1e-9)
}

func TestCompareRoleChange(t *testing.T) {
	ops := newTestOps(t)
	_, err := ops.Registry().Load("nums", []string{"code"}, []dataset.Record{
		{"code": dataset.Text("1")},
		{"code": dataset.Text("2")},
		{"code": dataset.Text("3")},
	}, false)
	require.NoError(t, err)
	_, err = ops.Registry().Load("words", []string{"code"}, []dataset.Record{
		{"code": dataset.Text("alpha")},
		{"code": dataset.Text("beta")},
		{"code": dataset.Text("gamma")},
	}, false)
	require.NoError(t, err)

	res, err := ops.Compare(context.Background(), "nums", "words")
	require.NoError(t, err)
	require.Len(t, res.RoleChanges, 1)
	assert.Equal(t, "code", res.RoleChanges[0].Column)
	assert.Equal(t, "numerical", res.RoleChanges[0].RoleA)
	assert.Equal(t, "text", res.RoleChanges[0].RoleB)
	// The numeric block is absent when either side is non-numeric.
	assert.Nil(t, res.Columns[0].MeanA)
}

func TestCompareMissingDataset(t *testing.T) {
	ops := newTestOps(t)
	_, err := ops.Compare(context.Background(), "orders", "ghost")
	var nf *dataset.NotFoundError
	assert.ErrorAs(t, err, &nf)
}
