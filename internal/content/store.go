package content

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrLibraryNotFound = errors.New("library not found")
)

type Store interface {
	// LibraryID resolves a machine name such as "H5P.QuestionSet".
	// It returns ErrLibraryNotFound when the library is not installed.
	LibraryID(ctx context.Context, machineName string) (int64, error)
	// EnsureLibrary registers a library if missing and returns its id.
	EnsureLibrary(ctx context.Context, machineName, title string) (int64, error)

	CreateContent(ctx context.Context, c Content) (Content, error)
	GetContent(ctx context.Context, id int64) (Content, error)

	CreateNode(ctx context.Context, n Node) (Node, error)
	GetNode(ctx context.Context, id int64) (Node, error)

	// CreateContentWithNode stores c and a node pointing at it atomically.
	// n.FieldH5P is overwritten with the new content id. On error neither
	// row exists.
	CreateContentWithNode(ctx context.Context, c Content, n Node) (Content, Node, error)
}
