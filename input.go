package newsfetch

import "strings"

// DefaultColumn is the input column holding URLs when none is named.
const DefaultColumn = "url"

// Input is the URL list read from a tabular file.
type Input struct {
	URLs []string

	// Extra is aligned with URLs and holds the kept columns of each row.
	// Nil when no extra columns were requested.
	Extra []map[string]any
}

// InputOptions selects what an InputReader extracts.
type InputOptions struct {
	// Column is the header naming the URL column. Defaults to DefaultColumn.
	Column string

	// Keep lists additional columns to carry into records.
	Keep []string
}

// InputReader reads URLs from one column of a tabular file. Rows with an
// empty URL cell are dropped. A missing column is an EINVALID error.
type InputReader interface {
	ReadInput(path string, opts InputOptions) (*Input, error)
}

// SelectColumns builds an Input from a header row and data rows. Header
// names are matched after trimming whitespace. Rows whose URL cell is empty
// are dropped. Short rows read as empty cells.
func SelectColumns(header []string, rows [][]string, opts InputOptions) (*Input, error) {
	column := opts.Column
	if column == "" {
		column = DefaultColumn
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	urlIdx, ok := index[column]
	if !ok {
		return nil, Errorf(EINVALID, "column %q not found", column)
	}
	keepIdx := make([]int, len(opts.Keep))
	for i, name := range opts.Keep {
		idx, ok := index[name]
		if !ok {
			return nil, Errorf(EINVALID, "column %q not found", name)
		}
		keepIdx[i] = idx
	}

	in := &Input{}
	for _, row := range rows {
		u := strings.TrimSpace(cell(row, urlIdx))
		if u == "" {
			continue
		}
		in.URLs = append(in.URLs, u)
		if len(opts.Keep) == 0 {
			continue
		}
		extra := make(map[string]any, len(opts.Keep))
		for i, name := range opts.Keep {
			extra[name] = cell(row, keepIdx[i])
		}
		in.Extra = append(in.Extra, extra)
	}
	return in, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
