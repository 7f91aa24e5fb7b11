package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataloom/internal/dataset"
)

func TestParseCSV(t *testing.T) {
	in := "name,age,city\nalice,30,berlin\nbob,,paris\n"
	p, err := ParseCSV(strings.NewReader(in), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "city"}, p.Columns)
	require.Len(t, p.Rows, 2)
	assert.Equal(t, "alice", p.Rows[0]["name"].Str)
	// Cells stay text; typing happens at inference.
	assert.Equal(t, dataset.KindText, p.Rows[0]["age"].Kind)
	assert.True(t, p.Rows[1]["age"].IsNull())
	assert.Equal(t, "csv", p.Format)
}

func TestParseCSVShortRow(t *testing.T) {
	in := "a,b,c\n1,2\n"
	p, err := ParseCSV(strings.NewReader(in), 0)
	require.NoError(t, err)
	require.Len(t, p.Rows, 1)
	assert.True(t, p.Rows[0]["c"].IsNull())
}

func TestParseCSVEmptyInput(t *testing.T) {
	p, err := ParseCSV(strings.NewReader(""), 0)
	require.NoError(t, err)
	assert.Empty(t, p.Columns)
	assert.Empty(t, p.Rows)
}

func TestParseTSVDelimiter(t *testing.T) {
	in := "a\tb\n1\t2\n"
	p, err := ParseCSV(strings.NewReader(in), '\t')
	require.NoError(t, err)
	require.Len(t, p.Rows, 1)
	assert.Equal(t, "1", p.Rows[0]["a"].Str)
	assert.Equal(t, "2", p.Rows[0]["b"].Str)
}

func TestParseJSON(t *testing.T) {
	in := `[
		{"name": "alice", "age": 30, "active": true},
		{"name": "bob", "age": null, "city": "paris"}
	]`
	p, err := ParseJSON([]byte(in))
	require.NoError(t, err)

	// First-seen order, new keys sorted per object.
	assert.Equal(t, []string{"active", "age", "name", "city"}, p.Columns)
	require.Len(t, p.Rows, 2)
	assert.Equal(t, 30.0, p.Rows[0]["age"].Num)
	assert.True(t, p.Rows[0]["active"].Bool)
	assert.True(t, p.Rows[1]["age"].IsNull())
	assert.Equal(t, "json", p.Format)
}

func TestParseJSONNestedFlattensToText(t *testing.T) {
	in := `[{"tags": ["a", "b"], "v": 1}]`
	p, err := ParseJSON([]byte(in))
	require.NoError(t, err)
	require.Len(t, p.Rows, 1)
	assert.Equal(t, dataset.KindText, p.Rows[0]["tags"].Kind)
	assert.JSONEq(t, `["a","b"]`, p.Rows[0]["tags"].Str)
}

func TestParseJSONRejectsNonArray(t *testing.T) {
	_, err := ParseJSON([]byte(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestParseFileUnsupportedExtension(t *testing.T) {
	_, err := ParseFile("data.parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestSampleRows(t *testing.T) {
	rows := make([]dataset.Record, 10)
	for i := range rows {
		rows[i] = dataset.Record{"i": dataset.Number(float64(i))}
	}

	assert.Len(t, SampleRows(rows, 0), 10)
	assert.Len(t, SampleRows(rows, 10), 10)
	assert.Len(t, SampleRows(rows, 20), 10)

	s := SampleRows(rows, 4)
	require.Len(t, s, 4)
	// Original order is preserved.
	for i := 1; i < len(s); i++ {
		assert.Less(t, s[i-1]["i"].Num, s[i]["i"].Num)
	}
	// Fixed seed: sampling is reproducible.
	assert.Equal(t, s, SampleRows(rows, 4))
}
