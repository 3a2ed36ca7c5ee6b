package preview

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/mind-engage/h5pimporter/internal/rowset"
)

// ParseError wraps an upload that could not be decoded at all, such as a
// broken workbook or an unreadable source. Its message is shown to the
// editor as is.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes an upload for preview. Quoted fields may span lines, and
// quoting is lazy like the import fallback: a stray quote inside a field is
// kept as text, so whatever the import accepts can also be previewed. The
// first record is the header; rows shorter than the header show empty cells
// and longer rows are cut to the header.
func Parse(data []byte) (rowset.RowSet, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rs rowset.RowSet
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rowset.RowSet{}, &ParseError{Err: err}
		}
		if rs.Header == nil {
			rs.Header = rowset.UniqueHeader(rec)
			continue
		}
		rs.Append(rec)
	}
	return rs, nil
}
