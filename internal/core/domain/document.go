package domain

import "strings"

// Document is a note in the vault.
// Path is unique within the vault and always slash separated.
type Document struct {
	// Path is relative to the vault root, e.g. "projects/ideas.md".
	Path string

	// Content is the full text of the note.
	Content string
}

// ChunkRecord is one indexed chunk of a document.
// The embedding is computed by the remote index from Content; it never
// passes through the core.
type ChunkRecord struct {
	// ID is derived from Path and ChunkIndex and is the upsert key.
	ID string

	// Path is the originating document path.
	Path string

	// ChunkIndex is the zero-based position within the current split.
	ChunkIndex int

	// Content is the chunk text.
	Content string
}

// ChangeType represents the type of vault change.
type ChangeType int

const (
	// ChangeCreated indicates a new document.
	ChangeCreated ChangeType = iota

	// ChangeModified indicates an edited document.
	ChangeModified

	// ChangeRenamed indicates a document moved to a new path.
	ChangeRenamed

	// ChangeDeleted indicates a removed document.
	ChangeDeleted
)

// String returns the lower-case name of the change type.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeModified:
		return "modified"
	case ChangeRenamed:
		return "renamed"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change is a single vault event.
// Content is set for created, modified and renamed changes.
// OldPath is only set for renames.
type Change struct {
	Type    ChangeType
	Path    string
	OldPath string
	Content string
}

// NormalisePath converts a path to the slash separated form used as
// document identity, trimming surrounding space and any leading "./" or "/".
func NormalisePath(path string) string {
	p := strings.ReplaceAll(strings.TrimSpace(path), "\\", "/")
	p = strings.TrimPrefix(p, "./")
	return strings.TrimLeft(p, "/")
}
