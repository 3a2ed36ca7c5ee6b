package rowset_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/mind-engage/h5pimporter/internal/rowset"
)

func TestEncodeHandoff_HeaderOrder(t *testing.T) {
	rs := rowset.RowSet{Header: []string{"question", "answers", "correct_answer", "feedback"}}
	rs.Append([]string{"2+2?", "3;4", "2", "<b>ok</b>"})

	got, err := rowset.EncodeHandoff(rs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `[{"question":"2+2?","answers":"3;4","correct_answer":"2","feedback":"<b>ok</b>"}]`
	if got != want {
		t.Fatalf("handoff\n got: %s\nwant: %s", got, want)
	}
}

func TestEncodeHandoff_Empty(t *testing.T) {
	got, err := rowset.EncodeHandoff(rowset.RowSet{Header: []string{"a"}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != "[]" {
		t.Fatalf("got %s, want []", got)
	}
}

func TestHandoff_RoundTrip(t *testing.T) {
	rs := rowset.ParseCSV("z,a,m\n1,\"x, y\",\"quote \"\"q\"\"\"\n2,,\n")
	s, err := rowset.EncodeHandoff(rs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := rowset.DecodeHandoff(s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !back.Equal(rs) {
		t.Fatalf("round trip mismatch\n got: %+v\nwant: %+v", back, rs)
	}
}

func TestDecodeHandoff_Normalizes(t *testing.T) {
	back, err := rowset.DecodeHandoff(`[{"b":"1","a":2},{"a":true,"c":null}]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(back.Header, ",") != "b,a,c" {
		t.Fatalf("header = %v, want first-seen order b,a,c", back.Header)
	}
	r0, r1 := back.Rows[0], back.Rows[1]
	if r0.Value("a") != "2" || !r0.Has("c") || r0.Value("c") != "" {
		t.Fatalf("row 0 = %v", r0)
	}
	if r1.Value("a") != "true" || r1.Value("b") != "" || !r1.Has("b") {
		t.Fatalf("row 1 = %v", r1)
	}
}

func TestDecodeHandoff_Errors(t *testing.T) {
	cases := map[string]string{
		"not json":      `question,answers`,
		"object":        `{"question":"q"}`,
		"nested":        `[{"question":{"x":1}}]`,
		"array value":   `[{"question":["a"]}]`,
		"scalar row":    `["q"]`,
		"trailing data": `[] []`,
		"truncated":     `[{"question":"q"`,
		"empty":         ``,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := rowset.DecodeHandoff(in)
			var he *rowset.HandoffError
			if !errors.As(err, &he) {
				t.Fatalf("DecodeHandoff(%q) err = %v, want *HandoffError", in, err)
			}
		})
	}
}

func TestDecodeHandoff_EmptyArray(t *testing.T) {
	rs, err := rowset.DecodeHandoff(`[]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !rs.Empty() {
		t.Fatalf("rows = %d", rs.Len())
	}
}

func TestDecodeHandoff_NumericKeysKeepColumnOrder(t *testing.T) {
	back, err := rowset.DecodeHandoff(`[{"question":"Q","2024":"x","1":"y"}]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(back.Header, ",") != "question,2024,1" {
		t.Fatalf("header = %v", back.Header)
	}
}
