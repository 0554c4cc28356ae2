package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vecsync/internal/core/domain"
)

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{Path: "fruit/banana.md", ChunkIndex: 0, Content: "Bananas are yellow."},
		{Path: "fruit/apple.md", ChunkIndex: 2, Content: "Apples are red\nor green."},
		{Path: "fruit/banana.md", ChunkIndex: 1, Content: "They grow in bunches."},
	}
}

func TestNewResultList(t *testing.T) {
	r := NewResultList(styles.DefaultStyles())

	require.NotNil(t, r)
	assert.True(t, r.IsEmpty())
	assert.Equal(t, 0, r.Selected())
	assert.Equal(t, 80, r.Width())
	assert.Equal(t, 10, r.Height())
	assert.Nil(t, r.Init())
}

func TestNewResultList_NilStyles(t *testing.T) {
	r := NewResultList(nil)

	assert.NotNil(t, r.styles)
}

func TestResultList_View_Empty(t *testing.T) {
	r := NewResultList(nil)

	assert.Contains(t, r.View(), "No results found.")
}

func TestResultList_View_KeepsOrderAndDuplicates(t *testing.T) {
	r := NewResultList(nil)
	r.SetDimensions(100, 40)
	r.SetResults(sampleResults())

	view := r.View()

	assert.Contains(t, view, "Results (3)")
	first := strings.Index(view, "fruit/banana.md#0")
	second := strings.Index(view, "fruit/apple.md#2")
	third := strings.Index(view, "fruit/banana.md#1")
	require.True(t, first >= 0 && second >= 0 && third >= 0, view)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
	assert.Contains(t, view, "Apples are red or green.", "preview is one line")
}

func TestResultList_View_TruncatesPreview(t *testing.T) {
	r := NewResultList(nil)
	r.SetDimensions(30, 20)
	r.SetResults([]domain.SearchResult{{Path: "a.md", Content: strings.Repeat("word ", 40)}})

	assert.Contains(t, r.View(), "...")
}

func TestResultList_View_Scrolls(t *testing.T) {
	results := make([]domain.SearchResult, 10)
	for i := range results {
		results[i] = domain.SearchResult{Path: "n.md", ChunkIndex: i, Content: "c"}
	}
	r := NewResultList(nil)
	r.SetDimensions(80, 8)
	r.SetResults(results)
	r.SetSelected(9)

	view := r.View()

	assert.Contains(t, view, "n.md#9")
	assert.NotContains(t, view, "n.md#0")
}

func TestResultList_Navigation(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(sampleResults())

	r.MoveUp()
	assert.Equal(t, 0, r.Selected(), "stays at top")

	r.MoveDown()
	r.MoveDown()
	r.MoveDown()
	assert.Equal(t, 2, r.Selected(), "stays at bottom")

	r, _ = r.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, r.Selected())
	r, _ = r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, r.Selected())
	r, _ = r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, r.Selected())
	r, _ = r.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, r.Selected())
}

func TestResultList_SelectedResult(t *testing.T) {
	r := NewResultList(nil)
	assert.Nil(t, r.SelectedResult())

	r.SetResults(sampleResults())
	r.SetSelected(1)

	got := r.SelectedResult()
	require.NotNil(t, got)
	assert.Equal(t, "fruit/apple.md", got.Path)

	r.SetSelected(7)
	assert.Equal(t, 1, r.Selected(), "out of range is ignored")
}

func TestResultList_ToggleExpanded(t *testing.T) {
	r := NewResultList(nil)

	r.ToggleExpanded()
	assert.False(t, r.Expanded(), "nothing to expand")

	r.SetResults(sampleResults())
	r.SetSelected(1)
	r.ToggleExpanded()

	assert.True(t, r.Expanded())
	view := r.View()
	assert.Contains(t, view, "Apples are red")
	assert.Contains(t, view, "or green.")
	assert.NotContains(t, view, "Apples are red or green.")

	r.MoveDown()
	assert.False(t, r.Expanded(), "moving collapses")
}

func TestResultList_SetResults_Resets(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(sampleResults())
	r.SetSelected(2)
	r.ToggleExpanded()

	r.SetResults(sampleResults()[:1])

	assert.Equal(t, 0, r.Selected())
	assert.False(t, r.Expanded())
	assert.Equal(t, 1, r.Count())

	r.Clear()
	assert.True(t, r.IsEmpty())
	assert.Nil(t, r.Results())
}
