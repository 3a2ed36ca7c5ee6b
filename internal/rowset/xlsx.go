package rowset

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first worksheet of a workbook. The first non-blank row
// is the header. Spreadsheet rows omit trailing empty cells, so short rows
// are padded instead of dropped.
func ParseXLSX(r io.Reader) (RowSet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return RowSet{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return RowSet{}, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return RowSet{}, fmt.Errorf("read rows: %w", err)
	}

	var rs RowSet
	for _, cells := range rows {
		if blank(cells) {
			continue
		}
		if rs.Header == nil {
			rs.Header = UniqueHeader(trimAll(cells))
			continue
		}
		rs.Append(cells)
	}
	return rs, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
