package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// Ensure QueryEngine implements the interface.
var _ driving.SearchService = (*QueryEngine)(nil)

// QueryEngine answers free-text queries with the index's nearest
// neighbours. Results are returned exactly as ranked; chunks of the same
// document are not merged.
type QueryEngine struct {
	conn        ClientProvider
	defaultTopK int
}

// NewQueryEngine creates a query engine. A non-positive defaultTopK uses
// domain.DefaultTopK.
func NewQueryEngine(conn ClientProvider, defaultTopK int) *QueryEngine {
	if defaultTopK <= 0 {
		defaultTopK = domain.DefaultTopK
	}
	return &QueryEngine{
		conn:        conn,
		defaultTopK: defaultTopK,
	}
}

// Search returns up to topK chunks most similar to query.
func (q *QueryEngine) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	text := strings.TrimSpace(query)
	if text == "" {
		return nil, &domain.QueryError{Query: query, Err: domain.ErrInvalidInput}
	}
	if topK <= 0 {
		topK = q.defaultTopK
	}

	logger.Section("Search")
	logger.Debug("Query: %q (top %d)", text, topK)

	client, err := q.conn.Acquire(ctx)
	if err != nil {
		return nil, &domain.QueryError{Query: text, Err: err}
	}

	records, err := client.QueryBySimilarity(ctx, text, topK)
	if err != nil {
		return nil, &domain.QueryError{Query: text, Err: err}
	}

	results := make([]domain.SearchResult, len(records))
	for i, r := range records {
		results[i] = domain.SearchResult{
			Path:       r.Path,
			ChunkIndex: r.ChunkIndex,
			Content:    r.Content,
		}
		logger.Debug("%d. %s#%d", i+1, r.Path, r.ChunkIndex)
	}
	return results, nil
}
