package h5p

import (
	"bytes"
	"encoding/json"
)

// MarshalDocument encodes a params document the way it is stored: indented
// with four spaces and with <, > and & left as is, since question and answer
// texts are HTML fragments.
func MarshalDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
