// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// SearchRequested is a command to perform a search.
type SearchRequested struct {
	Query string
	TopK  int
}

// SearchCompleted carries search results back to the model.
// Results is empty whenever Err is set.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewLedger lists the index state of every synced note.
	ViewLedger
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewLedger:
		return "ledger"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// LedgerLoaded carries the index state of every synced note.
type LedgerLoaded struct {
	States []domain.IndexState
	Err    error
}

// SyncCompleted signals that a full vault sync finished.
type SyncCompleted struct {
	Report domain.SyncReport
	Err    error
}
