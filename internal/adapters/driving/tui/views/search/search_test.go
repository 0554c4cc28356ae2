package search

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecsync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vecsync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vecsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)

	query string
	topK  int
	calls int
}

func (m *MockSearchService) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	m.query = query
	m.topK = topK
	m.calls++
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, topK)
	}
	return []domain.SearchResult{}, nil
}

func testSearchResults() []domain.SearchResult {
	return []domain.SearchResult{
		{Path: "fruit/banana.md", ChunkIndex: 0, Content: "Bananas are yellow."},
		{Path: "fruit/apple.md", ChunkIndex: 1, Content: "Apples are red."},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeQuery types text into the view one rune at a time.
func typeQuery(v *View, text string) {
	for _, r := range text {
		v.Update(keyRunes(string(r)))
	}
}

// readyView returns a sized view wired to mock.
func readyView(mock *MockSearchService, topK int) *View {
	v := NewView(nil, nil, mock, topK)
	v.SetDimensions(100, 40)
	return v
}

// submit presses enter and runs the resulting command.
func submit(t *testing.T, v *View) tea.Msg {
	t.Helper()
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	return cmd()
}

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles(), keymap.DefaultKeyMap(), &MockSearchService{}, 0)

	require.NotNil(t, view)
	assert.False(t, view.Ready())
	assert.Equal(t, "", view.Query())
	assert.True(t, view.InputFocused())
	assert.NotNil(t, view.Init(), "input blink")
}

func TestNewView_NilDependencies(t *testing.T) {
	view := NewView(nil, nil, nil, 0)

	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
}

func TestView_WithContext(t *testing.T) {
	view := NewView(nil, nil, nil, 0)
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, view, view.WithContext(ctx))
	assert.Equal(t, ctx, view.ctx)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, nil, nil, 0)

	_, cmd := view.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	assert.True(t, view.Ready())
	assert.Equal(t, 120, view.Width())
	assert.Equal(t, 40, view.Height())
}

func TestView_Search_PassesQueryAndLimit(t *testing.T) {
	mock := &MockSearchService{
		SearchFunc: func(context.Context, string, int) ([]domain.SearchResult, error) {
			return testSearchResults(), nil
		},
	}
	view := readyView(mock, 5)
	typeQuery(view, "which fruit is yellow")

	msg := submit(t, view)

	completed, ok := msg.(messages.SearchCompleted)
	require.True(t, ok)
	assert.Equal(t, "which fruit is yellow", completed.Query)
	assert.Equal(t, "which fruit is yellow", mock.query)
	assert.Equal(t, 5, mock.topK)
	assert.False(t, view.InputFocused())

	view.Update(completed)

	assert.Equal(t, testSearchResults(), view.Results())
	assert.NoError(t, view.Err())
	assert.Contains(t, view.View(), "fruit/banana.md#0")
}

func TestView_Search_EmptyQueryIgnored(t *testing.T) {
	mock := &MockSearchService{}
	view := readyView(mock, 0)
	typeQuery(view, "   ")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, view.InputFocused())
	assert.Equal(t, 0, mock.calls)
}

func TestView_Search_NoService(t *testing.T) {
	view := NewView(nil, nil, nil, 0)
	view.SetDimensions(100, 40)
	typeQuery(view, "bananas")

	msg := submit(t, view)

	errMsg, ok := msg.(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, errMsg.Err, ErrNoSearchService)
}

func TestView_Search_ErrorClearsResults(t *testing.T) {
	failure := errors.New("index unreachable")
	calls := 0
	mock := &MockSearchService{
		SearchFunc: func(context.Context, string, int) ([]domain.SearchResult, error) {
			calls++
			if calls == 1 {
				return testSearchResults(), nil
			}
			return nil, failure
		},
	}
	view := readyView(mock, 0)
	typeQuery(view, "first")
	view.Update(submit(t, view))
	require.Len(t, view.Results(), 2)

	view.Update(keyRunes("n"))
	typeQuery(view, "second")
	view.Update(submit(t, view))

	assert.ErrorIs(t, view.Err(), failure)
	assert.Empty(t, view.Results())
	output := view.View()
	assert.Contains(t, output, "index unreachable")
	assert.Contains(t, output, "No results found.")
}

func TestView_ResultsMode_Navigation(t *testing.T) {
	view := readyView(&MockSearchService{}, 0)
	view.Update(messages.SearchCompleted{Query: "q", Results: testSearchResults()})

	view.Update(keyRunes("j"))
	assert.Equal(t, 1, view.SelectedIndex())
	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, view.SelectedIndex())
	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "fruit/apple.md", view.SelectedResult().Path)
	view.Update(keyRunes("k"))
	assert.Equal(t, 0, view.SelectedIndex())
}

func TestView_ResultsMode_EnterExpands(t *testing.T) {
	view := readyView(&MockSearchService{}, 0)
	view.Update(messages.SearchCompleted{Query: "q", Results: testSearchResults()})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, view.Expanded())

	view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, view.Expanded())
}

func TestView_ResultsMode_NewSearch(t *testing.T) {
	view := readyView(&MockSearchService{}, 0)
	view.SetQuery("old")
	view.Update(messages.SearchCompleted{Query: "old", Results: testSearchResults()})
	require.False(t, view.InputFocused())

	view.Update(keyRunes("n"))

	assert.True(t, view.InputFocused())
	assert.Equal(t, "", view.Query())

	typeQuery(view, "nj")
	assert.Equal(t, "nj", view.Query(), "keys type while the input is focused")
}

func TestView_EscGoesToMenu(t *testing.T) {
	for _, focused := range []bool{true, false} {
		view := readyView(&MockSearchService{}, 0)
		if !focused {
			view.Update(messages.SearchCompleted{Results: testSearchResults()})
		}

		_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

		require.NotNil(t, cmd)
		assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
	}
}

func TestView_ErrorOccurred(t *testing.T) {
	view := readyView(&MockSearchService{}, 0)
	view.Update(messages.SearchCompleted{Results: testSearchResults()})

	view.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, view.Err(), "boom")
	assert.Empty(t, view.Results())

	view.ClearError()
	assert.NoError(t, view.Err())
}

func TestView_View_NotReady(t *testing.T) {
	view := NewView(nil, nil, nil, 0)

	assert.Equal(t, "Initialising...", view.View())
}

func TestView_View_Ready(t *testing.T) {
	view := readyView(&MockSearchService{}, 0)

	output := view.View()

	assert.Contains(t, output, "vecsync")
	assert.Contains(t, output, "Query")
	assert.Contains(t, output, "No results found.")
}

func TestView_Reset(t *testing.T) {
	view := readyView(&MockSearchService{}, 0)
	view.SetQuery("bananas")
	view.Update(messages.SearchCompleted{Results: testSearchResults()})
	view.Update(messages.ErrorOccurred{Err: errors.New("x")})

	view.Reset()

	assert.True(t, view.InputFocused())
	assert.Equal(t, "", view.Query())
	assert.Empty(t, view.Results())
	assert.NoError(t, view.Err())
}
