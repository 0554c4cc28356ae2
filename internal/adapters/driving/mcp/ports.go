package mcp

import (
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
)

// Ports aggregates the services the MCP server exposes.
type Ports struct {
	// Search answers similarity queries.
	Search driving.SearchService

	// Sync re-indexes single documents. Optional.
	Sync driving.SyncService

	// Source reads vault documents. Optional.
	Source driven.DocumentSource
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}

// CanSync reports whether both ports needed by sync_document are set.
func (p *Ports) CanSync() bool {
	return p.Sync != nil && p.Source != nil
}
