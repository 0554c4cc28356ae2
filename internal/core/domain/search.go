package domain

import "strings"

// DefaultTopK is the number of results returned when no limit is given.
const DefaultTopK = 3

// SearchResult is one chunk returned by a similarity query, in the order
// the index ranked it. Several results may share a path.
type SearchResult struct {
	Path       string `json:"path"`
	ChunkIndex int    `json:"chunk_index"`
	Content    string `json:"content"`
}

// Preview returns the content collapsed onto one line and cut to at most
// maxLen runes, with "..." appended when it was cut.
func (r SearchResult) Preview(maxLen int) string {
	flat := strings.Join(strings.Fields(r.Content), " ")
	runes := []rune(flat)
	if maxLen <= 3 || len(runes) <= maxLen {
		return flat
	}
	return string(runes[:maxLen-3]) + "..."
}
