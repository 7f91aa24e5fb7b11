// Package parser is the ingestion boundary: it turns delimited-text and
// structured-record files into typed records the core consumes. The core
// never touches file bytes itself.
package parser

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/dataloom/internal/dataset"
)

// Parsed is the decoded content of one file: the declared column order and
// the typed rows, ready for the registry.
type Parsed struct {
	Columns []string
	Rows    []dataset.Record
	Format  string
}

// ParseFile decodes path by extension. Supported: .csv, .tsv, .json.
func ParseFile(path string) (*Parsed, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return ParseCSVFile(path)
	case ".json":
		return ParseJSONFile(path)
	default:
		return nil, fmt.Errorf("unsupported file format %q: use .csv, .tsv or .json", filepath.Ext(path))
	}
}

// sampleSeed fixes the sampling RNG so a sampled load is reproducible.
const sampleSeed = 42

// SampleRows returns n rows drawn without replacement, preserving original
// order. n <= 0 or n >= len(rows) returns rows unchanged.
func SampleRows(rows []dataset.Record, n int) []dataset.Record {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	rng := rand.New(rand.NewSource(sampleSeed))
	idx := rng.Perm(len(rows))[:n]
	// Restore original order so sampled data keeps its time structure.
	picked := make(map[int]bool, n)
	for _, i := range idx {
		picked[i] = true
	}
	out := make([]dataset.Record, 0, n)
	for i, r := range rows {
		if picked[i] {
			out = append(out, r)
		}
	}
	return out
}
