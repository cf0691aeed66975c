// Package csv writes batches as UTF-8 CSV and reads URL lists from CSV files.
package csv

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/fwojciec/newsfetch"
	"github.com/fwojciec/newsfetch/fs"
)

// BOM is the UTF-8 byte order mark written at the start of every file so
// spreadsheet applications detect the encoding.
const BOM = "\ufeff"

// Ensure Sink implements newsfetch.Sink at compile time.
var _ newsfetch.Sink = (*Sink)(nil)

// Sink writes a batch to a single CSV file with a header row.
type Sink struct {
	path string
}

// NewSink creates a Sink writing to path.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// Format returns "csv".
func (s *Sink) Format() string { return "csv" }

// Path returns the output file path.
func (s *Sink) Path() string { return s.path }

// Write serializes the batch and replaces the output file.
func (s *Sink) Write(ctx context.Context, batch *newsfetch.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	table := newsfetch.NewTable(batch.Records)
	return fs.WriteFile(s.path, func(w io.Writer) error {
		return Encode(w, table)
	})
}

// Encode writes t to w as a BOM-prefixed CSV document. Absent values are
// empty cells; structured values are compact JSON.
func Encode(w io.Writer, t *newsfetch.Table) error {
	if _, err := io.WriteString(w, BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if len(t.Columns) > 0 {
		if err := cw.Write(t.Columns); err != nil {
			return err
		}
	}
	line := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			line[i] = newsfetch.CellText(v)
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
