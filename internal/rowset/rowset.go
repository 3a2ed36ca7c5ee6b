package rowset

import (
	"strconv"
	"strings"
)

// Row maps a column name to its cell value.
type Row map[string]string

// Value returns the cell for key, or "" when the column is absent.
func (r Row) Value(key string) string {
	if r == nil {
		return ""
	}
	return r[key]
}

// Has reports whether the row carries the column at all.
func (r Row) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// RowSet is an ordered collection of rows sharing one header.
// Every row holds exactly the header's keys.
type RowSet struct {
	Header []string
	Rows   []Row
}

// Len returns the number of data rows.
func (rs RowSet) Len() int { return len(rs.Rows) }

// Empty reports whether there is nothing to build from.
func (rs RowSet) Empty() bool { return len(rs.Rows) == 0 }

// HasColumn reports whether name is part of the header.
func (rs RowSet) HasColumn(name string) bool {
	for _, h := range rs.Header {
		if h == name {
			return true
		}
	}
	return false
}

// Append zips fields with the header positionally. Missing trailing fields
// become "" and fields past the header length are ignored.
func (rs *RowSet) Append(fields []string) {
	row := make(Row, len(rs.Header))
	for i, key := range rs.Header {
		if i < len(fields) {
			row[key] = fields[i]
		} else {
			row[key] = ""
		}
	}
	rs.Rows = append(rs.Rows, row)
}

// Equal compares header order and every cell.
func (rs RowSet) Equal(other RowSet) bool {
	if len(rs.Header) != len(other.Header) || len(rs.Rows) != len(other.Rows) {
		return false
	}
	for i := range rs.Header {
		if rs.Header[i] != other.Header[i] {
			return false
		}
	}
	for i := range rs.Rows {
		a, b := rs.Rows[i], other.Rows[i]
		if len(a) != len(b) {
			return false
		}
		for k, v := range a {
			if bv, ok := b[k]; !ok || bv != v {
				return false
			}
		}
	}
	return true
}

const bom = "\ufeff"

// UniqueHeader trims the BOM off the first column and renames repeated
// names to name_1, name_2, ... so that every row can hold every column.
func UniqueHeader(fields []string) []string {
	out := make([]string, len(fields))
	seen := make(map[string]int, len(fields))
	for i, f := range fields {
		if i == 0 {
			f = strings.TrimPrefix(f, bom)
		}
		name := f
		if n, dup := seen[f]; dup {
			for {
				name = f + "_" + strconv.Itoa(n)
				n++
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[f] = n
		} else {
			seen[f] = 1
		}
		seen[name] = 1
		out[i] = name
	}
	return out
}
