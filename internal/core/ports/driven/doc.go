// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - IndexDialer: Opens a client for a given set of connection settings
//   - IndexClient: The remote vector index holding chunk records
//   - IndexStateStore: Local ledger of which paths are indexed
//   - DocumentSource: Lists and reads vault documents
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
