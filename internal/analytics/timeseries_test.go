package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataloom/internal/dataset"
)

func TestTimeSeriesDailyTrend(t *testing.T) {
	ops := newTestOps(t)
	res, err := ops.TimeSeries(context.Background(), "orders", "order_date", "revenue", "")
	require.NoError(t, err)

	assert.Equal(t, "day", res.Granularity)
	assert.Equal(t, 8, res.Points)
	assert.False(t, res.InsufficientData)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), res.Start)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), res.End)

	require.NotNil(t, res.Trend)
	assert.Equal(t, "increasing", res.Trend.Direction)
	assert.InDelta(t, 10.0, res.Trend.Slope, 1e-6)
	assert.NotEmpty(t, res.Autocorrelation)
}

func TestTimeSeriesAveragesWithinBucket(t *testing.T) {
	ops := newTestOps(t)
	rows := []dataset.Record{
		{"day": dataset.Text("2024-01-01"), "v": dataset.Number(10)},
		{"day": dataset.Text("2024-01-01"), "v": dataset.Number(30)},
		{"day": dataset.Text("2024-01-02"), "v": dataset.Number(20)},
		{"day": dataset.Text("2024-01-03"), "v": dataset.Number(20)},
	}
	_, err := ops.Registry().Load("buckets", []string{"day", "v"}, rows, false)
	require.NoError(t, err)

	res, err := ops.TimeSeries(context.Background(), "buckets", "day", "v", "day")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Points)
	assert.Equal(t, 4, res.RowsUsed)
	require.NotNil(t, res.Trend)
	// Buckets average to 20,20,20: a flat series.
	assert.Equal(t, "stable", res.Trend.Direction)
}

func TestTimeSeriesInsufficientPointsFlagged(t *testing.T) {
	ops := newTestOps(t)
	rows := []dataset.Record{
		{"day": dataset.Text("2024-01-01"), "v": dataset.Number(1)},
		{"day": dataset.Text("2024-01-02"), "v": dataset.Number(2)},
	}
	_, err := ops.Registry().Load("short", []string{"day", "v"}, rows, false)
	require.NoError(t, err)

	res, err := ops.TimeSeries(context.Background(), "short", "day", "v", "day")
	require.NoError(t, err)
	assert.True(t, res.InsufficientData)
	assert.Nil(t, res.Trend)
	assert.Empty(t, res.Autocorrelation)
}

func TestTimeSeriesNoJointPairsIsAnError(t *testing.T) {
	ops := newTestOps(t)
	// Each row is missing either the timestamp or the value, so both
	// columns infer cleanly but no row contributes a joint pair.
	rows := []dataset.Record{
		{"day": dataset.Text("2024-01-01"), "v": dataset.Null},
		{"day": dataset.Text("2024-01-02"), "v": dataset.Null},
		{"day": dataset.Null, "v": dataset.Number(1)},
		{"day": dataset.Null, "v": dataset.Number(2)},
	}
	_, err := ops.Registry().Load("sparse", []string{"day", "v"}, rows, false)
	require.NoError(t, err)

	_, err = ops.TimeSeries(context.Background(), "sparse", "day", "v", "day")
	var ide *InsufficientDataError
	require.ErrorAs(t, err, &ide)
	assert.Equal(t, 0, ide.Actual)
}

func TestTimeSeriesWeeklyBuckets(t *testing.T) {
	ops := newTestOps(t)
	// Mondays three weeks apart.
	rows := []dataset.Record{
		{"day": dataset.Text("2024-01-01"), "v": dataset.Number(1)},
		{"day": dataset.Text("2024-01-03"), "v": dataset.Number(2)},
		{"day": dataset.Text("2024-01-08"), "v": dataset.Number(3)},
		{"day": dataset.Text("2024-01-15"), "v": dataset.Number(4)},
	}
	_, err := ops.Registry().Load("weeks", []string{"day", "v"}, rows, false)
	require.NoError(t, err)

	res, err := ops.TimeSeries(context.Background(), "weeks", "day", "v", "week")
	require.NoError(t, err)
	// Jan 1 and Jan 3 share the week of Monday Jan 1.
	assert.Equal(t, 3, res.Points)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), res.Start)
}

func TestTimeSeriesRejectsWrongRoles(t *testing.T) {
	ops := newTestOps(t)
	var icr *InvalidColumnRoleError

	_, err := ops.TimeSeries(context.Background(), "orders", "revenue", "units", "day")
	require.ErrorAs(t, err, &icr)

	_, err = ops.TimeSeries(context.Background(), "orders", "order_date", "region", "day")
	require.ErrorAs(t, err, &icr)
}

func TestTimeSeriesRejectsUnknownGranularity(t *testing.T) {
	ops := newTestOps(t)
	_, err := ops.TimeSeries(context.Background(), "orders", "order_date", "revenue", "hourly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported granularity")
	// A bad argument is a validation failure, not an underpowered series.
	var ide *InsufficientDataError
	assert.False(t, errors.As(err, &ide))
}
