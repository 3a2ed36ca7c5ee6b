package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	api "github.com/mind-engage/h5pimporter/internal/api/http"
	"github.com/mind-engage/h5pimporter/internal/content"
	"github.com/mind-engage/h5pimporter/internal/h5p"
	"github.com/mind-engage/h5pimporter/internal/importer"
	"github.com/mind-engage/h5pimporter/internal/storage"
)

const quizCSV = "question,answers,correct_answer,feedback\n\"What is 2+2?\",\"3|4|5\",2,\"Good job\"\n"

type fixture struct {
	store  *content.MemoryStore
	router http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := content.NewMemoryStore()
	reg := h5p.NewDefaultRegistry(zap.NewNop())
	svc := importer.NewService(reg, store, zap.NewNop())
	blobs, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	svc.Blobs = blobs

	r := chi.NewRouter()
	r.Get("/", api.FormHandler(reg))
	r.Get("/content-types", api.ContentTypesHandler(reg))
	r.Post("/importer/preview", api.PreviewHandler(svc, 1<<20, zap.NewNop()))
	r.Post("/importer/import", api.ImportHandler(svc, reg, 1<<20, zap.NewNop()))
	r.Get("/content/{id}", api.GetContentHandler(store))
	r.Get("/node/{id}", api.GetNodeHandler(store))
	return &fixture{store: store, router: r}
}

func multipartBody(t *testing.T, fields map[string]string, filename, file string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile(api.FieldFile, filename)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		_, _ = fw.Write([]byte(file))
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func (f *fixture) post(t *testing.T, path string, fields map[string]string, filename, file string, jsonResp bool) *httptest.ResponseRecorder {
	t.Helper()
	body, ctype := multipartBody(t, fields, filename, file)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ctype)
	if jsonResp {
		req.Header.Set("Accept", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestPreviewHandler_Fragment(t *testing.T) {
	f := newFixture(t)
	rec := f.post(t, "/importer/preview", nil, "quiz.csv", quizCSV, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body=%s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	for _, want := range []string{`<div id="csv-data-preview"`, `<th>correct_answer</th>`, `<td contenteditable="true">What is 2&#43;2?</td>`} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
}

func TestPreviewHandler_JSON(t *testing.T) {
	f := newFixture(t)
	rec := f.post(t, "/importer/preview", nil, "quiz.csv", quizCSV, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body=%s", rec.Code, rec.Body)
	}
	var p importer.Preview
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := `[{"question":"What is 2+2?","answers":"3|4|5","correct_answer":"2","feedback":"Good job"}]`
	if p.Handoff != want {
		t.Fatalf("handoff = %s", p.Handoff)
	}
	if !strings.HasPrefix(p.FileKey, "uploads/") {
		t.Fatalf("file key = %q", p.FileKey)
	}
}

func TestPreviewHandler_ParseError(t *testing.T) {
	f := newFixture(t)
	rec := f.post(t, "/importer/preview", nil, "bad.xlsx", "not a zip", true)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Error parsing CSV: ") {
		t.Fatalf("body = %s", rec.Body)
	}
}

func TestPreviewHandler_StrayQuote(t *testing.T) {
	f := newFixture(t)
	rec := f.post(t, "/importer/preview", nil, "quote.csv", "a,b\nx,y\"z\n", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body=%s", rec.Code, rec.Body)
	}
	var p importer.Preview
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(p.Grid.Rows) != 1 || p.Grid.Rows[0][1].Text != `y"z` {
		t.Fatalf("grid = %+v", p.Grid)
	}
}

func TestPreviewHandler_NoFile(t *testing.T) {
	f := newFixture(t)
	rec := f.post(t, "/importer/preview", map[string]string{"x": "y"}, "", "", false)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), api.MsgInvalidUpload) {
		t.Fatalf("code = %d body=%s", rec.Code, rec.Body)
	}
}

func TestImportHandler_PreviewThenImport(t *testing.T) {
	f := newFixture(t)

	prev := f.post(t, "/importer/preview", nil, "quiz.csv", quizCSV, true)
	var p importer.Preview
	if err := json.NewDecoder(prev.Body).Decode(&p); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	edited := strings.Replace(p.Handoff, "What is 2+2?", "What is 3+3?", 1)

	rec := f.post(t, "/importer/import", map[string]string{
		api.FieldPreviewData: edited,
		api.FieldFileKey:     p.FileKey,
		api.FieldTitle:       "Arithmetic",
	}, "", "", true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d body=%s", rec.Code, rec.Body)
	}
	var res importer.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Message != importer.SuccessMessage || res.Source != importer.SourcePreview {
		t.Fatalf("result = %+v", res)
	}

	c, err := f.store.GetContent(context.Background(), res.ContentID)
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if c.Title != "Arithmetic" || !strings.Contains(c.Parameters, "What is 3+3?") {
		t.Fatalf("content = %+v", c)
	}
}

func TestImportHandler_HTMLSuccessMessage(t *testing.T) {
	f := newFixture(t)
	rec := f.post(t, "/importer/import", nil, "quiz.csv", quizCSV, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "H5P quiz and node created successfully.") {
		t.Fatalf("body = %s", rec.Body)
	}
}

func TestImportHandler_Errors(t *testing.T) {
	cases := []struct {
		name     string
		fields   map[string]string
		filename string
		file     string
		code     int
		msg      string
	}{
		{"nothing sent", map[string]string{api.FieldTitle: "x"}, "", "", http.StatusBadRequest, api.MsgInvalidUpload},
		{"empty file", nil, "empty.csv", "", http.StatusUnprocessableEntity, "No data found in CSV file."},
		{"staged file gone", map[string]string{api.FieldFileKey: "uploads/nope/q.csv"}, "", "", http.StatusBadRequest, api.MsgNoFile},
		{"bad preview data", map[string]string{api.FieldPreviewData: "{"}, "quiz.csv", quizCSV, http.StatusBadRequest, "Preview data could not be decoded: "},
		{"unknown type", map[string]string{api.FieldContentType: "flashcards"}, "quiz.csv", quizCSV, http.StatusBadRequest, "unknown content type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.post(t, "/importer/import", tc.fields, tc.filename, tc.file, true)
			if rec.Code != tc.code {
				t.Fatalf("code = %d, want %d (body=%s)", rec.Code, tc.code, rec.Body)
			}
			var out map[string]string
			_ = json.NewDecoder(rec.Body).Decode(&out)
			if !strings.Contains(out["error"], tc.msg) {
				t.Fatalf("error = %q, want %q", out["error"], tc.msg)
			}
			if _, err := f.store.GetContent(context.Background(), 1); err == nil {
				t.Fatalf("no content should be stored")
			}
		})
	}
}

func TestContentAndNodeHandlers(t *testing.T) {
	f := newFixture(t)
	rec := f.post(t, "/importer/import", nil, "quiz.csv", quizCSV, true)
	var res importer.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	crec := get("/content/" + itoa(res.ContentID))
	if crec.Code != http.StatusOK {
		t.Fatalf("content code = %d", crec.Code)
	}
	var c struct {
		Library    string `json:"library"`
		Parameters struct {
			Questions []json.RawMessage `json:"questions"`
		} `json:"parameters"`
	}
	if err := json.NewDecoder(crec.Body).Decode(&c); err != nil {
		t.Fatalf("decode content: %v", err)
	}
	if c.Library != "H5P.QuestionSet" || len(c.Parameters.Questions) != 1 {
		t.Fatalf("content = %+v", c)
	}

	if nrec := get("/node/" + itoa(res.NodeID)); nrec.Code != http.StatusOK || !strings.Contains(nrec.Body.String(), `"type":"h5p"`) {
		t.Fatalf("node code = %d body=%s", nrec.Code, nrec.Body)
	}
	if rec := get("/content/999"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing content code = %d", rec.Code)
	}
	if rec := get("/node/abc"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id code = %d", rec.Code)
	}
}

func TestContentTypesHandler(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/content-types", nil))
	var types []h5p.TypeInfo
	if err := json.NewDecoder(rec.Body).Decode(&types); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(types) != 1 || types[0].ID != "questionset" || types[0].Library != "H5P.QuestionSet" {
		t.Fatalf("types = %+v", types)
	}
}

func TestRateLimiter(t *testing.T) {
	l := api.NewRateLimiter(2, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/importer/preview", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	other := httptest.NewRequest(http.MethodPost, "/importer/preview", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	if rec.Code != 200 {
		t.Fatalf("other client code = %d", rec.Code)
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
