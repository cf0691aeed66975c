// Package json writes batches as a JSON array of objects.
package json

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/fwojciec/newsfetch"
	"github.com/fwojciec/newsfetch/fs"
)

// Ensure Sink implements newsfetch.Sink at compile time.
var _ newsfetch.Sink = (*Sink)(nil)

// Sink writes a batch to a single JSON file. Every object carries the union
// of all keys in the batch, in column order, so consumers see one schema.
type Sink struct {
	path string
}

// NewSink creates a Sink writing to path.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// Format returns "json".
func (s *Sink) Format() string { return "json" }

// Path returns the output file path.
func (s *Sink) Path() string { return s.path }

// Write serializes the batch and replaces the output file.
func (s *Sink) Write(ctx context.Context, batch *newsfetch.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Marshal(newsfetch.NewTable(batch.Records))
	if err != nil {
		return err
	}
	return fs.WriteFile(s.path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Marshal encodes t as an indented JSON array of objects with keys in
// column order. HTML characters are not escaped.
func Marshal(t *newsfetch.Table) ([]byte, error) {
	var raw bytes.Buffer
	enc := json.NewEncoder(&raw)
	enc.SetEscapeHTML(false)

	raw.WriteByte('[')
	for i, row := range t.Rows {
		if i > 0 {
			raw.WriteByte(',')
		}
		raw.WriteByte('{')
		for j, col := range t.Columns {
			if j > 0 {
				raw.WriteByte(',')
			}
			if err := enc.Encode(col); err != nil {
				return nil, err
			}
			raw.WriteByte(':')
			if err := enc.Encode(row[j]); err != nil {
				return nil, err
			}
		}
		raw.WriteByte('}')
	}
	raw.WriteByte(']')

	// Encode terminates each value with a newline, which Indent discards.
	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
