package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KaramelBytes/dataloom/internal/dataset"
)

// ParseCSVFile reads a delimited-text file into typed records. The first
// row is the header. Cells stay text values; role inference decides later
// what they mean. Empty cells become explicit nulls.
func ParseCSVFile(path string) (*Parsed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ParseCSV(f, sniffDelimiter(path))
}

// ParseCSV decodes delimited text from r with the given delimiter (0 means
// comma).
func ParseCSV(r io.Reader, delim rune) (*Parsed, error) {
	if delim == 0 {
		delim = ','
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Parsed{Format: "csv"}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	var rows []dataset.Record
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		row := make(dataset.Record, len(columns))
		for i, c := range columns {
			if i >= len(rec) {
				row[c] = dataset.Null
				continue
			}
			v := strings.TrimSpace(rec[i])
			if v == "" {
				row[c] = dataset.Null
			} else {
				row[c] = dataset.Text(v)
			}
		}
		rows = append(rows, row)
	}
	return &Parsed{Columns: columns, Rows: rows, Format: "csv"}, nil
}

// sniffDelimiter picks the delimiter from the filename; .tsv means tab,
// everything else comma.
func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
