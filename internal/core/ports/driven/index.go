package driven

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// IndexClient is a live connection to the remote vector index.
// The index computes embeddings itself from record content, and ranks
// similarity queries with its own nearest-neighbour engine.
type IndexClient interface {
	// EnsureSchema creates the table and its indexes if they do not exist.
	EnsureSchema(ctx context.Context) error

	// Upsert inserts or overwrites the record with the same ID.
	Upsert(ctx context.Context, record domain.ChunkRecord) error

	// DeleteByID removes one record. Deleting a missing record is not an
	// error.
	DeleteByID(ctx context.Context, id string) error

	// DeleteByPath removes every record whose path equals path and returns
	// how many were removed.
	DeleteByPath(ctx context.Context, path string) (int, error)

	// FindByPath returns every record whose path equals path.
	FindByPath(ctx context.Context, path string) ([]domain.ChunkRecord, error)

	// QueryBySimilarity returns up to topK records ranked by similarity to
	// text, most similar first.
	QueryBySimilarity(ctx context.Context, text string, topK int) ([]domain.ChunkRecord, error)

	// Close releases the connection.
	Close() error
}

// IndexDialer opens index clients.
type IndexDialer interface {
	// Dial connects with the given settings. It does not create the schema.
	Dial(ctx context.Context, settings domain.ConnectionSettings) (IndexClient, error)
}
