package driven

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// IndexStateStore persists the local ledger of synced paths.
type IndexStateStore interface {
	// Save stores or replaces the entry for state.Path.
	Save(ctx context.Context, state domain.IndexState) error

	// Get retrieves the entry for a path.
	// Returns domain.ErrNotFound if the path has no entry.
	Get(ctx context.Context, path string) (*domain.IndexState, error)

	// Delete removes the entry for a path. Missing entries are ignored.
	Delete(ctx context.Context, path string) error

	// List returns all entries ordered by path.
	List(ctx context.Context) ([]domain.IndexState, error)
}
