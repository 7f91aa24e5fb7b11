package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/KaramelBytes/dataloom/internal/dataset"
)

// ParseJSONFile reads an array of flat objects into typed records. Column
// order is first-seen order across all objects, so later objects may extend
// the column set; missing keys become explicit nulls at dataset
// construction.
func ParseJSONFile(path string) (*Parsed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open json: %w", err)
	}
	return ParseJSON(b)
}

// ParseJSON decodes a JSON array of objects.
func ParseJSON(b []byte) (*Parsed, error) {
	var raw []map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode json: expected an array of objects: %w", err)
	}

	var columns []string
	seen := make(map[string]bool)
	rows := make([]dataset.Record, 0, len(raw))
	for _, obj := range raw {
		// Deterministic column order: sort new keys before appending.
		newKeys := make([]string, 0)
		for k := range obj {
			if !seen[k] {
				newKeys = append(newKeys, k)
			}
		}
		sort.Strings(newKeys)
		for _, k := range newKeys {
			seen[k] = true
			columns = append(columns, k)
		}

		row := make(dataset.Record, len(obj))
		for k, v := range obj {
			row[k] = toValue(v)
		}
		rows = append(rows, row)
	}
	return &Parsed{Columns: columns, Rows: rows, Format: "json"}, nil
}

func toValue(v any) dataset.Value {
	switch x := v.(type) {
	case nil:
		return dataset.Null
	case float64:
		return dataset.Number(x)
	case bool:
		return dataset.Boolean(x)
	case string:
		if x == "" {
			return dataset.Null
		}
		return dataset.Text(x)
	default:
		// Nested arrays/objects flatten to their JSON text.
		b, err := json.Marshal(x)
		if err != nil {
			return dataset.Null
		}
		return dataset.Text(string(b))
	}
}
