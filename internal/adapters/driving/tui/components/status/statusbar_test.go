package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecsync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vecsync/internal/adapters/driving/tui/styles"
)

func newWideBar() *Bar {
	b := NewBar(nil, nil)
	b.SetWidth(200)
	return b
}

func TestNewBar(t *testing.T) {
	b := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, b)
	assert.Equal(t, StateReady, b.State())
	assert.Empty(t, b.Message())
	assert.Equal(t, 0, b.ResultCount())
	assert.Equal(t, 80, b.Width())
}

func TestNewBar_NilDependencies(t *testing.T) {
	b := NewBar(nil, nil)

	assert.NotNil(t, b.styles)
	assert.NotNil(t, b.keymap)
}

func TestBar_InitAndUpdate(t *testing.T) {
	b := NewBar(nil, nil)

	assert.Nil(t, b.Init())
	updated, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Same(t, b, updated)
	assert.Nil(t, cmd)
}

func TestBar_View_States(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		count   int
		want    []string
	}{
		{"ready", StateReady, "", 0, []string{"Ready", "enter: search"}},
		{"searching", StateSearching, "", 0, []string{"Searching..."}},
		{"syncing", StateSyncing, "", 0, []string{"Syncing vault..."}},
		{"error with message", StateError, "index unreachable", 0, []string{"Error: index unreachable"}},
		{"error without message", StateError, "", 0, []string{"Error"}},
		{"help", StateHelp, "", 0, []string{"Help"}},
		{"results", StateResults, "", 3, []string{"3 results", "n: new search", "enter: expand"}},
		{"results empty", StateResults, "", 0, []string{"Ready", "enter: search"}},
		{"ledger count", StateLedger, "", 4, []string{"4 documents", "s: sync vault", "r: refresh"}},
		{"ledger message", StateLedger, "Synced 2, skipped 0, failed 0.", 2, []string{"Synced 2, skipped 0, failed 0."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newWideBar()
			b.SetState(tt.state)
			b.SetMessage(tt.message)
			b.SetResultCount(tt.count)

			view := b.View()

			for _, want := range tt.want {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestBar_Clear(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetState(StateError)
	b.SetMessage("boom")
	b.SetResultCount(5)

	b.Clear()

	assert.Equal(t, StateReady, b.State())
	assert.Empty(t, b.Message())
	assert.Equal(t, 0, b.ResultCount())
}

func TestBar_SetWidth(t *testing.T) {
	b := NewBar(nil, nil)

	b.SetWidth(120)

	assert.Equal(t, 120, b.Width())
}
