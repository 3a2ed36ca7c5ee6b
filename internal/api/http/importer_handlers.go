package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	auth "github.com/mind-engage/h5pimporter/internal/auth/middleware"
	"github.com/mind-engage/h5pimporter/internal/h5p"
	"github.com/mind-engage/h5pimporter/internal/importer"
	"github.com/mind-engage/h5pimporter/internal/preview"
	"github.com/mind-engage/h5pimporter/web"
)

// Form fields of the import form.
const (
	FieldFile        = "csv_file"
	FieldFileKey     = "csv_file_key"
	FieldPreviewData = "csv_preview_data"
	FieldContentType = "content_type"
	FieldTitle       = "title"
)

// readUpload returns the uploaded csv_file, or nil when none was sent.
func readUpload(r *http.Request, maxBytes int64) (*importer.Upload, error) {
	f, hdr, err := r.FormFile(FieldFile)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, errors.New("file too large")
	}
	return &importer.Upload{Filename: hdr.Filename, Data: data}, nil
}

// GET /
func FormHandler(reg *h5p.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := web.RenderForm(w, web.FormPage{Types: reg.Types(), DefaultType: h5p.DefaultTypeID}); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

// POST /importer/preview (multipart: csv_file)
// Responds with the preview fragment, or JSON when asked for it.
func PreviewHandler(svc *importer.Service, maxBytes int64, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			http.Error(w, MsgInvalidUpload, http.StatusBadRequest)
			return
		}
		file, err := readUpload(r, maxBytes)
		if err != nil {
			http.Error(w, MsgInvalidUpload, http.StatusBadRequest)
			return
		}
		if file == nil {
			http.Error(w, MsgInvalidUpload, http.StatusBadRequest)
			return
		}

		p, err := svc.Preview(r.Context(), file)
		if err != nil {
			var perr *preview.ParseError
			if !errors.As(err, &perr) {
				log.Error("preview failed", zap.String("file", file.Filename), zap.Error(err))
				http.Error(w, "preview failed", http.StatusInternalServerError)
				return
			}
			if wantsJSON(r) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "Error parsing CSV: " + perr.Error()})
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = web.RenderPreview(w, web.PreviewFragment{Error: perr.Error()})
			return
		}

		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, p)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := web.RenderPreview(w, web.PreviewFragment{Grid: p.Grid, Handoff: p.Handoff, FileKey: p.FileKey}); err != nil {
			log.Error("render preview", zap.Error(err))
		}
	}
}

// POST /importer/import
// multipart: csv_file or csv_file_key, csv_preview_data, content_type, title
func ImportHandler(svc *importer.Service, reg *h5p.Registry, maxBytes int64, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
		if err := r.ParseMultipartForm(maxBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			fail(w, r, reg, http.StatusBadRequest, MsgInvalidUpload)
			return
		}
		file, err := readUpload(r, maxBytes)
		if err != nil {
			fail(w, r, reg, http.StatusBadRequest, MsgInvalidUpload)
			return
		}
		sub := importer.Submission{
			PreviewData: r.FormValue(FieldPreviewData),
			File:        file,
			FileKey:     strings.TrimSpace(r.FormValue(FieldFileKey)),
			ContentType: r.FormValue(FieldContentType),
			Title:       strings.TrimSpace(r.FormValue(FieldTitle)),
			Author:      auth.SubjectFromContext(r.Context()),
		}
		if sub.File == nil && sub.FileKey == "" && strings.TrimSpace(sub.PreviewData) == "" {
			fail(w, r, reg, http.StatusBadRequest, MsgInvalidUpload)
			return
		}

		res, err := svc.Import(r.Context(), sub)
		if err != nil {
			code, msg := userError(err)
			if code == http.StatusInternalServerError {
				log.Error("import failed", zap.Error(err))
			}
			fail(w, r, reg, code, msg)
			return
		}

		if wantsJSON(r) {
			writeJSON(w, http.StatusCreated, res)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = web.RenderForm(w, web.FormPage{Types: reg.Types(), DefaultType: h5p.DefaultTypeID, Message: res.Message})
	}
}

func fail(w http.ResponseWriter, r *http.Request, reg *h5p.Registry, code int, msg string) {
	if wantsJSON(r) {
		writeJSON(w, code, map[string]string{"error": msg})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_ = web.RenderForm(w, web.FormPage{Types: reg.Types(), DefaultType: h5p.DefaultTypeID, Error: msg})
}
