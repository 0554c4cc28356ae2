// Package domain defines the core entities for vecsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A note in the vault, identified by its path
//   - ChunkRecord: One indexed chunk of a document in the remote index
//   - ConnectionSettings: Where the remote index lives and how to reach it
//   - IndexState: The local ledger entry for a synced path
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
