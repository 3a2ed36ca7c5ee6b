package rowset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// HandoffError reports an edited-preview payload that could not be decoded.
// Submissions carrying one are rejected before any document is built.
type HandoffError struct {
	Err error
}

func (e *HandoffError) Error() string { return "decode preview data: " + e.Err.Error() }

func (e *HandoffError) Unwrap() error { return e.Err }

// MarshalJSON writes the rows as an array of objects whose keys follow the
// header order, so the hand-off string is stable for a given grid.
func (rs RowSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rs.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, key := range rs.Header {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(&buf, key); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			if err := writeString(&buf, row.Value(key)); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON is the inverse of MarshalJSON; see DecodeHandoff.
func (rs *RowSet) UnmarshalJSON(data []byte) error {
	out, err := decode(data)
	if err != nil {
		return err
	}
	*rs = out
	return nil
}

// EncodeHandoff renders the canonical hidden-field value for rs.
func EncodeHandoff(rs RowSet) (string, error) {
	b, err := rs.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeHandoff parses the hidden-field value back into a RowSet. The header
// is the union of object keys in first-seen order; a row lacking a column
// gets "" for it. Scalars other than strings keep their literal JSON text.
func DecodeHandoff(s string) (RowSet, error) {
	rs, err := decode([]byte(s))
	if err != nil {
		return RowSet{}, &HandoffError{Err: err}
	}
	return rs, nil
}

func decode(data []byte) (RowSet, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return RowSet{}, err
	}

	var rs RowSet
	index := map[string]bool{}
	for dec.More() {
		row, keys, err := decodeObject(dec)
		if err != nil {
			return RowSet{}, fmt.Errorf("row %d: %w", len(rs.Rows)+1, err)
		}
		for _, k := range keys {
			if !index[k] {
				index[k] = true
				rs.Header = append(rs.Header, k)
			}
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return RowSet{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return RowSet{}, errors.New("unexpected data after row array")
	}

	for _, row := range rs.Rows {
		for _, key := range rs.Header {
			if _, ok := row[key]; !ok {
				row[key] = ""
			}
		}
	}
	return rs, nil
}

func decodeObject(dec *json.Decoder) (Row, []string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	row := Row{}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}
		val, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		cell, err := cellText(key, val)
		if err != nil {
			return nil, nil, err
		}
		if _, dup := row[key]; !dup {
			keys = append(keys, key)
		}
		row[key] = cell
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return row, keys, nil
}

func cellText(key string, tok json.Token) (string, error) {
	switch v := tok.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("column %q: nested values are not supported", key)
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("expected %q, got end of input", want)
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
