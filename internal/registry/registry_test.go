package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataloom/internal/dataset"
	"github.com/KaramelBytes/dataloom/internal/schema"
)

func newTestRegistry() *Registry {
	return New(schema.NewEngine(schema.DefaultOptions()), nil)
}

func numRows(vals ...float64) []dataset.Record {
	rows := make([]dataset.Record, len(vals))
	for i, v := range vals {
		rows[i] = dataset.Record{"v": dataset.Number(v)}
	}
	return rows
}

func TestLoadAndGet(t *testing.T) {
	r := newTestRegistry()
	entry, err := r.Load("nums", []string{"v"}, numRows(1, 2, 3), false)
	require.NoError(t, err)
	assert.Equal(t, 3, len(entry.Dataset.Rows))
	assert.Equal(t, schema.RoleNumerical, entry.Schema.Column("v").Role)

	got, err := r.Get("nums")
	require.NoError(t, err)
	assert.Same(t, entry, got)
}

func TestGetMissing(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Get("absent")
	var nf *dataset.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "absent", nf.Name)
}

func TestLoadCollisionKeepsOriginal(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Load("nums", []string{"v"}, numRows(1, 2, 3), false)
	require.NoError(t, err)

	_, err = r.Load("nums", []string{"v"}, numRows(9), false)
	var al *dataset.AlreadyLoadedError
	require.ErrorAs(t, err, &al)

	entry, err := r.Get("nums")
	require.NoError(t, err)
	assert.Len(t, entry.Dataset.Rows, 3)
}

func TestLoadOverwriteReplaces(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Load("nums", []string{"v"}, numRows(1, 2, 3), false)
	require.NoError(t, err)
	_, err = r.Load("nums", []string{"v"}, numRows(9), true)
	require.NoError(t, err)

	entry, err := r.Get("nums")
	require.NoError(t, err)
	assert.Len(t, entry.Dataset.Rows, 1)
}

func TestLoadEmptyIsAllOrNothing(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Load("empty", []string{"v"}, nil, false)
	var ede *dataset.EmptyDatasetError
	require.ErrorAs(t, err, &ede)

	_, err = r.Get("empty")
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Load("nums", []string{"v"}, numRows(1), false)
	require.NoError(t, err)

	require.NoError(t, r.Clear("nums"))
	_, err = r.Get("nums")
	assert.Error(t, err)

	var nf *dataset.NotFoundError
	assert.ErrorAs(t, r.Clear("nums"), &nf)
}

func TestClearAll(t *testing.T) {
	r := newTestRegistry()
	for _, name := range []string{"a", "b", "c"} {
		_, err := r.Load(name, []string{"v"}, numRows(1, 2), false)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, r.ClearAll())
	assert.Empty(t, r.List())
	assert.Equal(t, 0, r.ClearAll())
}

func TestListSortedByName(t *testing.T) {
	r := newTestRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := r.Load(name, []string{"v"}, numRows(1, 2), false)
		require.NoError(t, err)
	}
	infos := r.List()
	require.Len(t, infos, 3)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, "mid", infos[1].Name)
	assert.Equal(t, "zeta", infos[2].Name)
	assert.Equal(t, 2, infos[0].Rows)
	assert.Equal(t, 1, infos[0].Columns)
}

func TestMemoryReport(t *testing.T) {
	r := newTestRegistry()
	// 51 distinct notes keeps the column above the categorical cap so it
	// stays text; three repetitions each puts uniqueness below 0.5, which
	// draws a compaction hint.
	var rows []dataset.Record
	for i := 0; i < 51; i++ {
		for j := 0; j < 3; j++ {
			rows = append(rows, dataset.Record{
				"note": dataset.Text(fmt.Sprintf("note-%02d", i)),
				"v":    dataset.Number(float64(i)),
			})
		}
	}
	_, err := r.Load("notes", []string{"note", "v"}, rows, false)
	require.NoError(t, err)

	rep := r.Memory()
	assert.Greater(t, rep.TotalBytes, int64(0))
	require.Len(t, rep.Datasets, 1)
	assert.Equal(t, "notes", rep.Datasets[0].Name)
	require.Len(t, rep.Hints, 1)
	assert.Equal(t, "note", rep.Hints[0].Column)
}
