package driven

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// DocumentSource gives read access to the vault.
// Paths are slash separated and relative to the vault root.
type DocumentSource interface {
	// List returns the paths of all documents, sorted.
	List(ctx context.Context) ([]string, error)

	// Read returns the document at path.
	// Returns domain.ErrNotFound if it does not exist.
	Read(ctx context.Context, path string) (domain.Document, error)

	// Exists reports whether a document exists at path.
	Exists(path string) bool
}
