package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/h5pimporter/internal/content"
	"github.com/mind-engage/h5pimporter/internal/h5p"
)

// GET /content-types
func ContentTypesHandler(reg *h5p.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, reg.Types())
	}
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// GET /content/{id}
// The parameters document is embedded as JSON, not as a string.
func GetContentHandler(store content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		c, err := store.GetContent(r.Context(), id)
		if errors.Is(err, content.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			content.Content
			Parameters json.RawMessage `json:"parameters"`
			Authors    json.RawMessage `json:"authors"`
		}{c, json.RawMessage(c.Parameters), json.RawMessage(c.Authors)})
	}
}

// GET /node/{id}
func GetNodeHandler(store content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		n, err := store.GetNode(r.Context(), id)
		if errors.Is(err, content.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, n)
	}
}
