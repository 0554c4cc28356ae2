package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

const (
	toolSearch       = "search"
	toolSyncDocument = "sync_document"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the text to find similar notes for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (default from settings)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single matching chunk.
type SearchResultOutput struct {
	Path       string `json:"path"`
	URI        string `json:"uri"`
	ChunkIndex int    `json:"chunk_index"`
	Content    string `json:"content"`
}

// SyncDocumentInput is the input schema for the sync_document tool.
type SyncDocumentInput struct {
	Path string `json:"path" jsonschema:"vault relative path of the note, e.g. journal/today.md"`
}

// SyncDocumentOutput is the output schema for the sync_document tool.
type SyncDocumentOutput struct {
	Path string `json:"path"`
	// Action is "synced" or "deleted" when the note no longer exists.
	Action string `json:"action"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolSearch,
		Description: "Find the note chunks most similar to a query",
	}, s.handleSearch)

	if s.ports.CanSync() {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        toolSyncDocument,
			Description: "Re-index one note from the vault, or remove it from the index if it was deleted",
		}, s.handleSyncDocument)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	// A zero limit uses the configured default
	results, err := s.ports.Search.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			Path:       results[i].Path,
			URI:        documentURI(results[i].Path),
			ChunkIndex: results[i].ChunkIndex,
			Content:    results[i].Content,
		}
	}

	return nil, output, nil
}

// handleSyncDocument handles the sync_document tool invocation.
func (s *Server) handleSyncDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncDocumentInput,
) (*mcp.CallToolResult, SyncDocumentOutput, error) {
	if !s.ports.CanSync() {
		return nil, SyncDocumentOutput{}, ErrSyncUnavailable
	}

	path := domain.NormalisePath(input.Path)
	if path == "" {
		return nil, SyncDocumentOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	doc, err := s.ports.Source.Read(ctx, path)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := s.ports.Sync.Delete(ctx, path); err != nil {
			return nil, SyncDocumentOutput{}, err
		}
		return nil, SyncDocumentOutput{Path: path, Action: "deleted"}, nil
	case err != nil:
		return nil, SyncDocumentOutput{}, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := s.ports.Sync.Sync(ctx, doc.Path, doc.Content); err != nil {
		return nil, SyncDocumentOutput{}, err
	}
	return nil, SyncDocumentOutput{Path: doc.Path, Action: "synced"}, nil
}
