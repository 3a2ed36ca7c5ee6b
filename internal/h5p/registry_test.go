package h5p_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/mind-engage/h5pimporter/internal/h5p"
	"github.com/mind-engage/h5pimporter/internal/rowset"
)

func TestDefaultRegistry(t *testing.T) {
	reg := h5p.NewDefaultRegistry(zap.NewNop())

	ct, ok := reg.Lookup("questionset")
	if !ok {
		t.Fatal("questionset not registered")
	}
	if ct.Library() != "H5P.QuestionSet" {
		t.Fatalf("library = %q", ct.Library())
	}
	if _, ok := reg.Lookup("flashcards"); ok {
		t.Fatal("unexpected content type")
	}

	rs := rowset.ParseCSV("question,answers,correct_answer,feedback\nQ,a|b,3,F\n")
	res, err := ct.BuildContent(rs)
	if err != nil {
		t.Fatalf("BuildContent: %v", err)
	}
	if _, ok := res.Document.(h5p.QuestionSet); !ok {
		t.Fatalf("document type = %T", res.Document)
	}
	if res.Questions != 1 || len(res.Warnings) != 1 {
		t.Fatalf("result = %+v", res)
	}

	types := reg.Types()
	if len(types) != 1 || types[0].ID != "questionset" || types[0].Label != "Question Set" {
		t.Fatalf("types = %+v", types)
	}
}

type stubType struct{}

func (stubType) Library() string { return "H5P.Stub" }
func (stubType) BuildContent(rowset.RowSet) (h5p.Result, error) {
	return h5p.Result{Document: map[string]string{}}, nil
}

func TestRegistry_RegisterSorted(t *testing.T) {
	reg := h5p.NewRegistry()
	reg.Register("zeta", "Zeta", stubType{})
	reg.Register("alpha", "Alpha", stubType{})
	reg.Register("alpha", "Alpha 2", stubType{})

	types := reg.Types()
	if len(types) != 2 || types[0].ID != "alpha" || types[0].Label != "Alpha 2" || types[1].Library != "H5P.Stub" {
		t.Fatalf("types = %+v", types)
	}
}

func TestMarshalDocument_NoHTMLEscaping(t *testing.T) {
	b, err := h5p.MarshalDocument(map[string]string{"k": "<p>a & b</p>"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "{\n    \"k\": \"<p>a & b</p>\"\n}" {
		t.Fatalf("got %s", b)
	}
}
