// Package mcp provides an MCP (Model Context Protocol) server adapter for vecsync.
// It lets AI assistants search the vault index and keep individual notes in sync.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrSyncUnavailable is returned by sync_document when the server was built
// without a sync service or document source.
var ErrSyncUnavailable = errors.New("mcp: syncing is not available")
