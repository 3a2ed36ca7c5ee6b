package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mind-engage/h5pimporter/internal/importer"
	"github.com/mind-engage/h5pimporter/internal/preview"
	"github.com/mind-engage/h5pimporter/internal/rowset"
)

// User-facing messages of the import form.
const (
	MsgInvalidUpload = "Please upload a valid CSV file."
	MsgNoFile        = "No CSV file found."
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// userError maps an import failure to a status code and the message shown
// to the editor. Unexpected failures get a generic message.
func userError(err error) (int, string) {
	var (
		perr *preview.ParseError
		herr *rowset.HandoffError
	)
	switch {
	case errors.Is(err, importer.ErrNoFile):
		return http.StatusBadRequest, MsgNoFile
	case errors.Is(err, importer.ErrNoData):
		return http.StatusUnprocessableEntity, preview.EmptyMessage
	case errors.As(err, &perr):
		return http.StatusBadRequest, "Error parsing CSV: " + perr.Error()
	case errors.As(err, &herr):
		return http.StatusBadRequest, "Preview data could not be decoded: " + herr.Err.Error()
	case errors.Is(err, importer.ErrUnknownContentType):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "import failed"
	}
}
