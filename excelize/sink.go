// Package excelize writes batches to XLSX spreadsheets and reads URL lists
// from them using excelize.
package excelize

import (
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/newsfetch"
	"github.com/fwojciec/newsfetch/fs"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the batch.
const SheetName = "Sheet1"

// Ensure Sink implements newsfetch.Sink at compile time.
var _ newsfetch.Sink = (*Sink)(nil)

// Sink writes a batch to an XLSX workbook. Every cell is passed through
// newsfetch.SanitizeCell.
type Sink struct {
	path string
}

// NewSink creates a Sink writing to path.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// Format returns "xlsx".
func (s *Sink) Format() string { return "xlsx" }

// Path returns the output file path.
func (s *Sink) Path() string { return s.path }

// Write builds the workbook and replaces the output file.
func (s *Sink) Write(ctx context.Context, batch *newsfetch.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := Workbook(newsfetch.NewTable(batch.Records))
	if err != nil {
		return err
	}
	defer f.Close()

	return fs.WriteFile(s.path, func(w io.Writer) error {
		return f.Write(w)
	})
}

// Workbook returns a workbook with a header row of t's columns followed by
// one sanitized row per table row.
func Workbook(t *newsfetch.Table) (*excelize.File, error) {
	f := excelize.NewFile()

	if len(t.Columns) > 0 {
		header := make([]any, len(t.Columns))
		for i, col := range t.Columns {
			header[i] = newsfetch.SanitizeCell(col)
		}
		if err := setRow(f, 1, header); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = newsfetch.SanitizeCell(v)
		}
		if err := setRow(f, i+2, cells); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *excelize.File, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}
