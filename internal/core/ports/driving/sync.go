package driving

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// SyncService keeps the remote index in step with the vault.
type SyncService interface {
	// Sync replaces every indexed chunk of path with the chunks of content.
	// It is idempotent and safe to retry.
	Sync(ctx context.Context, path, content string) error

	// Delete removes every indexed chunk of path.
	Delete(ctx context.Context, path string) error

	// SyncAll syncs each document in turn. Failures of individual paths do
	// not stop the others; they are joined into the returned error.
	SyncAll(ctx context.Context, docs []domain.Document, opts domain.SyncOptions) (domain.SyncReport, error)

	// Status returns the ledger of synced paths.
	Status(ctx context.Context) ([]domain.IndexState, error)
}
