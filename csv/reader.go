package csv

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/newsfetch"
)

// Ensure Reader implements newsfetch.InputReader at compile time.
var _ newsfetch.InputReader = (*Reader)(nil)

// Reader reads URL lists from CSV files with a header row.
type Reader struct{}

// ReadInput reads the URL column of the CSV file at path.
func (Reader) ReadInput(path string, opts newsfetch.InputOptions) (*newsfetch.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, newsfetch.Errorf(newsfetch.EINVALID, "%s has no header row", path)
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], BOM)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return newsfetch.SelectColumns(header, rows, opts)
}
