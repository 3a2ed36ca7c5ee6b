package rowset

import (
	"encoding/csv"
	"strings"
)

// ParseCSV is the lenient fallback used when no edited preview came with a
// submission. It works line by line: blank lines are discarded, the first
// remaining line is the header, and a data line is dropped when it has
// fewer fields than the header. Longer lines are kept and truncated to the
// header length so trailing delimiters do not lose a row.
//
// Quoted fields cannot span lines here. That matches how uploads have
// always been read on this path.
func ParseCSV(text string) RowSet {
	lines := make([]string, 0)
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return RowSet{}
	}

	rs := RowSet{Header: UniqueHeader(splitLine(lines[0]))}
	for _, line := range lines[1:] {
		fields := splitLine(line)
		if len(fields) == 0 || len(fields) < len(rs.Header) {
			continue
		}
		rs.Append(fields)
	}
	return rs
}

// splitLine field-splits a single CSV line with lazy quoting, so stray quotes
// end up in the field text instead of failing the whole upload.
func splitLine(line string) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil {
		return strings.Split(line, ",")
	}
	return fields
}
