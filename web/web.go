// Package web holds the import form, the preview fragment and the script
// that keeps the hidden preview field in sync with edited cells.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/mind-engage/h5pimporter/internal/h5p"
	"github.com/mind-engage/h5pimporter/internal/preview"
)

//go:embed templates/*.html static
var embedded embed.FS

var templates = template.Must(template.ParseFS(embedded, "templates/*.html"))

// Static returns the file system rooted at the static directory.
func Static() (fs.FS, error) {
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		return nil, fmt.Errorf("web: open static assets: %w", err)
	}
	return sub, nil
}

// FormPage is the data of the import form.
type FormPage struct {
	Types       []h5p.TypeInfo
	DefaultType string
	Message     string
	Error       string
}

// PreviewFragment is the data of the preview table.
type PreviewFragment struct {
	Grid    preview.Grid
	Handoff string
	FileKey string
	Error   string
}

func RenderForm(w io.Writer, page FormPage) error {
	return templates.ExecuteTemplate(w, "form.html", page)
}

func RenderPreview(w io.Writer, frag PreviewFragment) error {
	return templates.ExecuteTemplate(w, "preview.html", frag)
}
