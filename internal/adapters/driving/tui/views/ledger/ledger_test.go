package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecsync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vecsync/internal/core/domain"
)

type mockSyncService struct {
	states    []domain.IndexState
	statusErr error
	report    domain.SyncReport
	syncErr   error

	synced []domain.Document
	opts   domain.SyncOptions
}

func (m *mockSyncService) Sync(context.Context, string, string) error { return nil }

func (m *mockSyncService) Delete(context.Context, string) error { return nil }

func (m *mockSyncService) SyncAll(
	_ context.Context,
	docs []domain.Document,
	opts domain.SyncOptions,
) (domain.SyncReport, error) {
	m.synced = docs
	m.opts = opts
	return m.report, m.syncErr
}

func (m *mockSyncService) Status(context.Context) ([]domain.IndexState, error) {
	return m.states, m.statusErr
}

type mockSource struct {
	docs    map[string]string
	order   []string
	listErr error
}

func (m *mockSource) List(context.Context) ([]string, error) {
	return m.order, m.listErr
}

func (m *mockSource) Read(_ context.Context, path string) (domain.Document, error) {
	content, ok := m.docs[path]
	if !ok {
		return domain.Document{}, domain.ErrNotFound
	}
	return domain.Document{Path: path, Content: content}, nil
}

func (m *mockSource) Exists(path string) bool {
	_, ok := m.docs[path]
	return ok
}

func sampleStates() []domain.IndexState {
	at := time.Date(2026, 3, 4, 5, 6, 0, 0, time.UTC)
	return []domain.IndexState{
		{Path: "a.md", Status: domain.IndexStatusIndexed, Chunks: 3, UpdatedAt: at},
		{Path: "b.md", Status: domain.IndexStatusFailed, LastError: "upsert: timeout", UpdatedAt: at},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// load runs Init and feeds the result back into the view.
func load(t *testing.T, v *View) {
	t.Helper()
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.Empty(t, v.States())
	assert.Nil(t, v.SelectedState())
}

func TestView_Init_LoadsLedger(t *testing.T) {
	v := NewView(nil, &mockSyncService{states: sampleStates()}, nil)

	cmd := v.Init()
	assert.Contains(t, v.View(), "Loading index status...")
	v.Update(cmd())

	assert.NoError(t, v.Err())
	assert.Equal(t, sampleStates(), v.States())
	output := v.View()
	assert.Contains(t, output, "a.md")
	assert.Contains(t, output, "indexed")
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "3 chunks")
}

func TestView_Init_NoService(t *testing.T) {
	v := NewView(nil, nil, nil)

	load(t, v)

	assert.ErrorIs(t, v.Err(), ErrNoSyncService)
	assert.Contains(t, v.View(), "sync service not available")
}

func TestView_Init_StatusError(t *testing.T) {
	v := NewView(nil, &mockSyncService{statusErr: errors.New("db locked")}, nil)

	load(t, v)

	assert.EqualError(t, v.Err(), "db locked")
}

func TestView_Empty(t *testing.T) {
	v := NewView(nil, &mockSyncService{}, nil)

	load(t, v)

	assert.Contains(t, v.View(), "Nothing synced yet")
}

func TestView_Navigation_ShowsLastError(t *testing.T) {
	v := NewView(nil, &mockSyncService{states: sampleStates()}, nil)
	v.SetDimensions(120, 40)
	load(t, v)

	v.Update(key("k"))
	assert.Equal(t, 0, v.SelectedIndex())
	assert.NotContains(t, v.View(), "Last error")

	v.Update(key("j"))
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, v.SelectedIndex())
	assert.Contains(t, v.View(), "Last error: upsert: timeout")

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_Refresh(t *testing.T) {
	svc := &mockSyncService{}
	v := NewView(nil, svc, nil)
	load(t, v)
	require.Empty(t, v.States())

	svc.states = sampleStates()
	_, cmd := v.Update(key("r"))
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Len(t, v.States(), 2)
}

func TestView_Refresh_ClampsSelection(t *testing.T) {
	svc := &mockSyncService{states: sampleStates()}
	v := NewView(nil, svc, nil)
	load(t, v)
	v.Update(key("j"))

	svc.states = sampleStates()[:1]
	_, cmd := v.Update(key("r"))
	v.Update(cmd())

	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_SyncVault(t *testing.T) {
	svc := &mockSyncService{report: domain.SyncReport{Synced: 1, Skipped: 1}}
	src := &mockSource{
		docs:  map[string]string{"a.md": "alpha", "b.md": "beta"},
		order: []string{"a.md", "b.md"},
	}
	v := NewView(nil, svc, src)
	load(t, v)

	_, cmd := v.Update(key("s"))
	require.NotNil(t, cmd)
	assert.True(t, v.Syncing())
	assert.Contains(t, v.View(), "Syncing vault...")

	done := cmd()
	completed, ok := done.(messages.SyncCompleted)
	require.True(t, ok)
	assert.NoError(t, completed.Err)
	assert.Equal(t, []domain.Document{{Path: "a.md", Content: "alpha"}, {Path: "b.md", Content: "beta"}}, svc.synced)
	assert.True(t, svc.opts.SkipUnchanged)

	svc.states = sampleStates()
	_, reload := v.Update(done)
	require.NotNil(t, reload, "sync reloads the ledger")
	v.Update(reload())

	assert.False(t, v.Syncing())
	require.NotNil(t, v.Report())
	assert.Contains(t, v.View(), "Synced 1, skipped 1, failed 0.")
	assert.Len(t, v.States(), 2)
}

func TestView_SyncVault_WhileSyncingIgnored(t *testing.T) {
	v := NewView(nil, &mockSyncService{}, &mockSource{})
	v.Update(key("s"))

	_, cmd := v.Update(key("s"))
	assert.Nil(t, cmd)
	_, cmd = v.Update(key("r"))
	assert.Nil(t, cmd)
}

func TestView_SyncVault_ReadFailuresCounted(t *testing.T) {
	svc := &mockSyncService{report: domain.SyncReport{Synced: 1}}
	src := &mockSource{
		docs:  map[string]string{"a.md": "alpha"},
		order: []string{"a.md", "gone.md"},
	}
	v := NewView(nil, svc, src)

	_, cmd := v.Update(key("s"))
	completed := cmd().(messages.SyncCompleted)

	assert.ErrorIs(t, completed.Err, domain.ErrNotFound)
	assert.Equal(t, domain.SyncReport{Synced: 1, Failed: 1}, completed.Report)
	assert.Len(t, svc.synced, 1)

	v.Update(completed)
	assert.ErrorIs(t, v.Err(), domain.ErrNotFound)
}

func TestView_SyncVault_ErrorSurvivesReload(t *testing.T) {
	svc := &mockSyncService{syncErr: errors.New("index down"), report: domain.SyncReport{Failed: 1}}
	src := &mockSource{docs: map[string]string{"a.md": "x"}, order: []string{"a.md"}}
	v := NewView(nil, svc, src)

	_, cmd := v.Update(key("s"))
	_, reload := v.Update(cmd())
	v.Update(reload())

	assert.EqualError(t, v.Err(), "index down")
	assert.Contains(t, v.View(), "Synced 0, skipped 0, failed 1.")
}

func TestView_SyncVault_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		view *View
		want error
	}{
		{"no sync service", NewView(nil, nil, &mockSource{}), ErrNoSyncService},
		{"no source", NewView(nil, &mockSyncService{}, nil), ErrNoSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := tt.view.Update(key("s"))
			completed := cmd().(messages.SyncCompleted)
			assert.ErrorIs(t, completed.Err, tt.want)
		})
	}
}

func TestView_SyncVault_ListError(t *testing.T) {
	v := NewView(nil, &mockSyncService{}, &mockSource{listErr: errors.New("permission denied")})

	_, cmd := v.Update(key("s"))
	completed := cmd().(messages.SyncCompleted)

	assert.ErrorContains(t, completed.Err, "listing vault")
}

func TestView_Esc(t *testing.T) {
	v := NewView(nil, nil, nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil, nil)

	v.Update(tea.WindowSizeMsg{Width: 90, Height: 30})

	assert.Equal(t, 90, v.width)
	assert.Equal(t, 30, v.height)
}

func TestFormatReport(t *testing.T) {
	assert.Equal(t, "Synced 3, skipped 2, failed 1.", FormatReport(domain.SyncReport{Synced: 3, Skipped: 2, Failed: 1}))
}
