// Package table reads the engine's comma-delimited output tables into a
// column-major form. Cells are kept as text.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Table is a parsed delimited text table.
type Table struct {
	// Header in on-disk column order
	Header []string
	// Columns maps a column name to its values, one per data row. Sequences
	// of distinct columns may differ in length when rows are ragged.
	Columns map[string][]string
}

// Column returns the values of a column and whether it exists.
func (t *Table) Column(name string) ([]string, bool) {
	values, ok := t.Columns[name]
	return values, ok
}

// ParseError is returned when a table cannot be read.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to read table %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Read parses the table stored at path.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return t, nil
}

// Parse reads a table from r. The first record is the header. A data row
// shorter than the header only extends the columns it covers, and fields
// beyond the header are dropped.
func Parse(r io.Reader) (*Table, error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1
	rdr.LazyQuotes = true

	t := &Table{Columns: make(map[string][]string)}

	header, err := rdr.Read()
	if errors.Is(err, io.EOF) {
		return t, nil
	}
	if err != nil {
		return nil, err
	}
	t.Header = header
	for _, col := range header {
		if _, ok := t.Columns[col]; !ok {
			t.Columns[col] = []string{}
		}
	}

	for {
		row, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		for i, item := range row {
			if i >= len(header) {
				break
			}
			col := header[i]
			t.Columns[col] = append(t.Columns[col], item)
		}
	}

	return t, nil
}
