package driving

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// SearchService provides semantic search to external actors.
type SearchService interface {
	// Search returns up to topK chunks most similar to query, in the
	// index's ranking order. topK <= 0 uses the configured default.
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}
