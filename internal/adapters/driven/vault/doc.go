// Package vault implements driven.DocumentSource over a local directory.
//
// Document paths are slash separated and relative to the vault root, e.g.
// "journal/2026-01-01.md". Hidden files and directories (any path segment
// starting with a dot) are never listed or read, and only files with a
// configured extension count as documents.
package vault
