package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChangeType_String(t *testing.T) {
	assert.Equal(t, "created", ChangeCreated.String())
	assert.Equal(t, "modified", ChangeModified.String())
	assert.Equal(t, "renamed", ChangeRenamed.String())
	assert.Equal(t, "deleted", ChangeDeleted.String())
	assert.Equal(t, "unknown", ChangeType(42).String())
}

func TestNormalisePath(t *testing.T) {
	tests := map[string]string{
		"notes/a.md":    "notes/a.md",
		"./notes/a.md":  "notes/a.md",
		"/notes/a.md":   "notes/a.md",
		`notes\sub\a.md`: "notes/sub/a.md",
		"a.md":          "a.md",
		"  a.md ":       "a.md",
		"   ":           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalisePath(in), in)
	}
}

func TestSearchResult_Preview(t *testing.T) {
	r := SearchResult{Content: "line one\n\nline   two"}
	assert.Equal(t, "line one line two", r.Preview(100))
	assert.Equal(t, "line o...", r.Preview(9))

	unicode := SearchResult{Content: "ééééééééé"}
	assert.Equal(t, "éééé...", unicode.Preview(7))
}

func TestIndexState_Current(t *testing.T) {
	s := IndexState{Path: "a.md", Status: IndexStatusIndexed, ContentHash: "abc", UpdatedAt: time.Now()}
	assert.True(t, s.Current("abc"))
	assert.False(t, s.Current("def"))

	s.Status = IndexStatusFailed
	assert.False(t, s.Current("abc"))
}
