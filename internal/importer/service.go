package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/mind-engage/h5pimporter/internal/content"
	"github.com/mind-engage/h5pimporter/internal/h5p"
	"github.com/mind-engage/h5pimporter/internal/metrics"
	"github.com/mind-engage/h5pimporter/internal/preview"
	"github.com/mind-engage/h5pimporter/internal/rowset"
	"github.com/mind-engage/h5pimporter/internal/storage"
	syncx "github.com/mind-engage/h5pimporter/internal/sync"
	"github.com/mind-engage/h5pimporter/internal/tracing"
)

// Fixed values of every imported content record.
const (
	DefaultTitle   = "Imported Quiz"
	License        = "CC BY"
	LicenseVersion = "4.0"
	LicenseExtras  = "Imported from an LMS quiz export."

	SuccessMessage = "H5P quiz and node created successfully."
)

// EventAppender receives an event per finished import.
type EventAppender interface {
	Append(ctx context.Context, e syncx.Event) error
}

// Submission is one press of the import button.
type Submission struct {
	PreviewData string  // hidden csv_preview_data field
	File        *Upload // may be nil when FileKey names a staged upload
	FileKey     string
	ContentType string // registry id, "questionset" when empty
	Title       string
	Language    string
	Author      string // display name of the submitting user
}

type Result struct {
	ContentID    int64         `json:"content_id"`
	NodeID       int64         `json:"node_id"`
	Source       Source        `json:"source"`
	Library      string        `json:"library"`
	LibraryFound bool          `json:"library_found"`
	Questions    int           `json:"questions"`
	Warnings     []h5p.Warning `json:"warnings,omitempty"`
	Message      string        `json:"message"`
	Parameters   string        `json:"-"`
}

// Preview is what the editor sees after choosing a file.
type Preview struct {
	Grid    preview.Grid `json:"grid"`
	Handoff string       `json:"csv_preview_data"`
	FileKey string       `json:"csv_file_key,omitempty"`
	Message string       `json:"message,omitempty"`
}

type Service struct {
	Registry *h5p.Registry
	Store    content.Store
	Blobs    storage.BlobStore // optional upload staging
	Events   EventAppender     // optional
	Metrics  *metrics.Metrics  // optional
	Log      *zap.Logger

	DefaultLanguage string
}

func NewService(reg *h5p.Registry, store content.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Registry: reg, Store: store, Log: log, DefaultLanguage: "und"}
}

// Preview parses an upload into an editable grid and stages the file so the
// import step can refer to it by key.
func (s *Service) Preview(ctx context.Context, file *Upload) (*Preview, error) {
	rs, err := PreviewRows(file)
	if err != nil {
		return nil, err
	}
	ed, err := preview.NewEditor(rs)
	if err != nil {
		return nil, err
	}
	out := &Preview{Grid: ed.Grid(), Handoff: ed.Handoff(), Message: ed.Grid().EmptyMessage()}
	if s.Blobs != nil {
		key, err := s.stage(ctx, file)
		if err != nil {
			return nil, err
		}
		out.FileKey = key
	}
	return out, nil
}

func (s *Service) stage(ctx context.Context, file *Upload) (string, error) {
	key := path.Join(storage.UploadPrefix, uuid.NewString(), path.Base("/"+file.Filename))
	key, err := s.Blobs.Put(ctx, key, bytes.NewReader(file.Data))
	if err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}
	return key, nil
}

func (s *Service) loadStaged(ctx context.Context, key string) (*Upload, error) {
	if s.Blobs == nil {
		return nil, ErrNoFile
	}
	// the prefix check only holds for a key that is already in clean form
	if path.Clean(key) != key || !strings.HasPrefix(key, storage.UploadPrefix) {
		return nil, fmt.Errorf("%w: %q", storage.ErrBadKey, key)
	}
	rc, err := s.Blobs.Get(ctx, key)
	if err != nil {
		s.Log.Warn("staged upload unavailable", zap.String("key", key), zap.Error(err))
		return nil, ErrNoFile
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read staged upload: %w", err)
	}
	return &Upload{Filename: path.Base(key), Data: data}, nil
}

// Import turns a submission into a stored content record and the node that
// wraps it. Nothing is written unless a document was built.
func (s *Service) Import(ctx context.Context, sub Submission) (res *Result, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "importer.Import")
	defer span.End()

	var source Source
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		rows, warnings := 0, 0
		if res != nil {
			rows, warnings = res.Questions, len(res.Warnings)
		}
		s.Metrics.ObserveImport(string(source), outcome, rows, warnings)
	}()

	s.Log.Debug("preview data on submit", zap.String("data", sub.PreviewData))

	file := sub.File
	if file == nil && sub.FileKey != "" {
		// an unreadable staged upload only matters when the preview is unusable
		file, _ = s.loadStaged(ctx, sub.FileKey)
	}

	rows, source, err := SelectRows(sub.PreviewData, file)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("import.source", string(source)), attribute.Int("import.rows", rows.Len()))

	typeID := sub.ContentType
	if typeID == "" {
		typeID = h5p.DefaultTypeID
	}
	ct, ok := s.Registry.Lookup(typeID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContentType, typeID)
	}

	built, err := s.build(ctx, ct, rows)
	if err != nil {
		return nil, err
	}
	params, err := h5p.MarshalDocument(built.Document)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	s.Log.Debug("imported quiz JSON", zap.ByteString("json", params))

	c, node, err := s.persist(ctx, sub, ct.Library(), string(params))
	if err != nil {
		return nil, err
	}
	s.Log.Info("h5p content imported",
		zap.Int64("content_id", c.ID), zap.Int64("node_id", node.ID),
		zap.String("source", string(source)), zap.Int("questions", built.Questions),
		zap.Int("warnings", len(built.Warnings)))

	res = &Result{
		ContentID:    c.ID,
		NodeID:       node.ID,
		Source:       source,
		Library:      c.Library,
		LibraryFound: c.LibraryID != nil,
		Questions:    built.Questions,
		Warnings:     built.Warnings,
		Message:      SuccessMessage,
		Parameters:   c.Parameters,
	}
	s.appendEvent(ctx, res, sub)
	return res, nil
}

func (s *Service) build(ctx context.Context, ct h5p.ContentType, rows rowset.RowSet) (h5p.Result, error) {
	_, span := tracing.Tracer().Start(ctx, "h5p.BuildContent")
	defer span.End()
	span.SetAttributes(attribute.String("h5p.library", ct.Library()))

	res, err := ct.BuildContent(rows)
	if err != nil {
		span.RecordError(err)
		return h5p.Result{}, fmt.Errorf("build content: %w", err)
	}
	span.SetAttributes(attribute.Int("h5p.questions", res.Questions), attribute.Int("h5p.warnings", len(res.Warnings)))
	return res, nil
}

// persist writes the content record and its node together.
func (s *Service) persist(ctx context.Context, sub Submission, library, params string) (content.Content, content.Node, error) {
	title := sub.Title
	if title == "" {
		title = DefaultTitle
	}
	lang := sub.Language
	if lang == "" {
		lang = s.DefaultLanguage
	}
	authors, err := json.Marshal([]h5p.Author{{Name: sub.Author, Role: "Author"}})
	if err != nil {
		return content.Content{}, content.Node{}, err
	}

	c := content.Content{
		Title:          title,
		A11yTitle:      title,
		Library:        library,
		Parameters:     params,
		Language:       lang,
		Authors:        string(authors),
		License:        License,
		LicenseVersion: LicenseVersion,
		LicenseExtras:  LicenseExtras,
		CreatedBy:      sub.Author,
	}

	libID, err := s.Store.LibraryID(ctx, library)
	switch {
	case err == nil:
		c.LibraryID = &libID
	case errors.Is(err, content.ErrLibraryNotFound):
		s.Log.Warn("library ID not found", zap.String("library", library))
	default:
		return content.Content{}, content.Node{}, fmt.Errorf("look up library: %w", err)
	}

	c, n, err := s.Store.CreateContentWithNode(ctx, c, content.Node{
		Type:      content.NodeTypeH5P,
		Title:     title,
		CreatedBy: sub.Author,
	})
	if err != nil {
		return content.Content{}, content.Node{}, fmt.Errorf("create content: %w", err)
	}
	return c, n, nil
}

func (s *Service) appendEvent(ctx context.Context, res *Result, sub Submission) {
	if s.Events == nil {
		return
	}
	ev, err := syncx.NewEvent(syncx.TypeContentImported, strconv.FormatInt(res.ContentID, 10), map[string]any{
		"node_id":   res.NodeID,
		"source":    res.Source,
		"library":   res.Library,
		"questions": res.Questions,
		"warnings":  len(res.Warnings),
		"author":    sub.Author,
	})
	if err == nil {
		err = s.Events.Append(ctx, ev)
	}
	if err != nil {
		// the import itself already succeeded
		s.Log.Warn("append import event", zap.Error(err))
	}
}
