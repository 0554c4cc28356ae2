// Package tui provides an interactive terminal user interface for vecsync.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
)

// Ports aggregates the services the TUI drives.
type Ports struct {
	// Search runs similarity queries. Required.
	Search driving.SearchService

	// Sync exposes the ledger and bulk sync. Optional; the index status
	// view reports it as unavailable when nil.
	Sync driving.SyncService

	// Source is the vault read by a bulk sync. Optional.
	Source driven.DocumentSource

	// TopK is the result limit for searches. Zero uses the service default.
	TopK int
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(search driving.SearchService, sync driving.SyncService, source driven.DocumentSource) *Ports {
	return &Ports{
		Search: search,
		Sync:   sync,
		Source: source,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.TopK < 0 {
		return ErrInvalidPorts
	}
	return nil
}
