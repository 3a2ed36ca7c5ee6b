package h5p

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/mind-engage/h5pimporter/internal/rowset"
)

// ContentType builds the params document of one H5P library from rows.
type ContentType interface {
	// Library is the H5P machine name the document is stored under.
	Library() string
	BuildContent(rows rowset.RowSet) (Result, error)
}

// Result is a built document plus what was tolerated on the way.
type Result struct {
	Document  any
	Questions int
	Warnings  []Warning
}

// TypeInfo describes a registered content type.
type TypeInfo struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Library string `json:"library"`
}

// Registry of content types by id (e.g. "questionset").
type Registry struct {
	mu    sync.RWMutex
	types map[string]entry
}

type entry struct {
	label string
	ct    ContentType
}

func NewRegistry() *Registry {
	return &Registry{types: map[string]entry{}}
}

// DefaultTypeID is used when a submission names no content type.
const DefaultTypeID = "questionset"

// NewDefaultRegistry registers every built-in content type.
func NewDefaultRegistry(log *zap.Logger, opts ...Option) *Registry {
	r := NewRegistry()
	r.Register(DefaultTypeID, "Question Set", NewQuestionSetBuilder(append([]Option{WithLogger(log)}, opts...)...))
	return r
}

// Register a content type. A later registration under the same id wins.
func (r *Registry) Register(id, label string, ct ContentType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[id] = entry{label: label, ct: ct}
}

// Lookup returns a registered content type.
func (r *Registry) Lookup(id string) (ContentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.types[id]
	return e.ct, ok
}

// Types lists registered content types sorted by id.
func (r *Registry) Types() []TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TypeInfo, 0, len(r.types))
	for id, e := range r.types {
		out = append(out, TypeInfo{ID: id, Label: e.label, Library: e.ct.Library()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
