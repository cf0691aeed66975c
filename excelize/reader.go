package excelize

import (
	"github.com/fwojciec/newsfetch"
	"github.com/xuri/excelize/v2"
)

// Ensure Reader implements newsfetch.InputReader at compile time.
var _ newsfetch.InputReader = (*Reader)(nil)

// Reader reads URL lists from the first worksheet of a workbook. The first
// row is the header.
type Reader struct{}

// ReadInput reads the URL column of the workbook at path.
func (Reader) ReadInput(path string, opts newsfetch.InputOptions) (*newsfetch.Input, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, newsfetch.Errorf(newsfetch.EINVALID, "%s has no worksheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, newsfetch.Errorf(newsfetch.EINVALID, "%s has no header row", path)
	}
	return newsfetch.SelectColumns(rows[0], rows[1:], opts)
}
