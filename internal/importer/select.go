package importer

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mind-engage/h5pimporter/internal/preview"
	"github.com/mind-engage/h5pimporter/internal/rowset"
)

var (
	ErrNoFile             = errors.New("no CSV file found")
	ErrNoData             = errors.New("no data found in CSV file")
	ErrUnknownContentType = errors.New("unknown content type")
)

// Upload is a file as it arrived from the editor.
type Upload struct {
	Filename string
	Data     []byte
}

// IsWorkbook reports whether the upload should be read as a spreadsheet.
func (u *Upload) IsWorkbook() bool {
	return strings.EqualFold(filepath.Ext(u.Filename), ".xlsx")
}

// Source names where the rows of a build came from.
type Source string

const (
	SourcePreview Source = "preview"
	SourceCSV     Source = "csv"
	SourceXLSX    Source = "xlsx"
)

// SelectRows picks the rows to build from. Edited preview data wins when it
// decodes to at least one row; otherwise the raw file is parsed leniently.
// Undecodable preview data is a hard error and the file is not consulted.
func SelectRows(previewData string, file *Upload) (rowset.RowSet, Source, error) {
	previewGiven := strings.TrimSpace(previewData) != ""
	if previewGiven {
		rs, err := rowset.DecodeHandoff(previewData)
		if err != nil {
			return rowset.RowSet{}, "", err
		}
		if !rs.Empty() {
			return rs, SourcePreview, nil
		}
	}

	if file == nil {
		if previewGiven {
			return rowset.RowSet{}, SourcePreview, ErrNoData
		}
		return rowset.RowSet{}, "", ErrNoFile
	}

	var (
		rs     rowset.RowSet
		source Source
	)
	if file.IsWorkbook() {
		var err error
		if rs, err = rowset.ParseXLSX(bytes.NewReader(file.Data)); err != nil {
			return rowset.RowSet{}, SourceXLSX, &preview.ParseError{Err: fmt.Errorf("%s: %w", file.Filename, err)}
		}
		source = SourceXLSX
	} else {
		rs = rowset.ParseCSV(string(file.Data))
		source = SourceCSV
	}
	if rs.Empty() {
		return rs, source, ErrNoData
	}
	return rs, source, nil
}

// PreviewRows parses an upload for the editable preview: multi-line CSV decoding
// for text files, the first sheet for workbooks.
func PreviewRows(file *Upload) (rowset.RowSet, error) {
	if file == nil {
		return rowset.RowSet{}, ErrNoFile
	}
	if file.IsWorkbook() {
		rs, err := rowset.ParseXLSX(bytes.NewReader(file.Data))
		if err != nil {
			return rowset.RowSet{}, &preview.ParseError{Err: err}
		}
		return rs, nil
	}
	return preview.Parse(file.Data)
}
