package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataloom/internal/dataset"
	"github.com/KaramelBytes/dataloom/internal/registry"
	"github.com/KaramelBytes/dataloom/internal/schema"
)

// newTestOps returns an operation library over a fresh registry preloaded
// with the "orders" fixture: an identifier, a temporal, a categorical and
// two perfectly correlated numerical columns.
func newTestOps(t *testing.T) *Operations {
	t.Helper()
	reg := registry.New(schema.NewEngine(schema.DefaultOptions()), nil)
	ops := NewOperations(reg, DefaultConfig())

	columns := []string{"order_id", "order_date", "region", "revenue", "units"}
	var rows []dataset.Record
	dates := []string{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08",
	}
	regions := []string{"east", "west", "east", "west", "east", "west", "east", "west"}
	for i := 0; i < 8; i++ {
		rows = append(rows, dataset.Record{
			"order_id":   dataset.Text("o" + string(rune('1'+i))),
			"order_date": dataset.Text(dates[i]),
			"region":     dataset.Text(regions[i]),
			"revenue":    dataset.Number(float64((i + 1) * 10)),
			"units":      dataset.Number(float64(i + 1)),
		})
	}
	_, err := reg.Load("orders", columns, rows, false)
	require.NoError(t, err)
	return ops
}

// loadColumn registers a single-column numerical dataset under name.
func loadColumn(t *testing.T, ops *Operations, name string, vals []float64) {
	t.Helper()
	rows := make([]dataset.Record, len(vals))
	for i, v := range vals {
		rows[i] = dataset.Record{"value": dataset.Number(v)}
	}
	_, err := ops.Registry().Load(name, []string{"value"}, rows, false)
	require.NoError(t, err)
}
