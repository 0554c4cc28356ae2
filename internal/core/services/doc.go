// Package services implements the driving port interfaces.
//
// The sync engine, debounce coalescer, change router, query engine and
// connection manager live here. They depend only on domain types and
// driven ports, so every adapter can be swapped out in tests.
package services
