package input

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecsync/internal/adapters/driving/tui/styles"
)

func TestNewQueryInput(t *testing.T) {
	in := NewQueryInput(styles.DefaultStyles())

	require.NotNil(t, in)
	assert.Equal(t, "", in.Value())
	assert.True(t, in.Focused())
	assert.Equal(t, 60, in.Width())
}

func TestNewQueryInput_NilStyles(t *testing.T) {
	in := NewQueryInput(nil)

	require.NotNil(t, in)
	assert.NotNil(t, in.styles)
}

func TestQueryInput_Init(t *testing.T) {
	in := NewQueryInput(nil)

	assert.NotNil(t, in.Init(), "blink command")
}

func TestQueryInput_Update_Typing(t *testing.T) {
	in := NewQueryInput(nil)

	for _, r := range "fruit" {
		in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "fruit", in.Value())
}

func TestQueryInput_Update_Blurred(t *testing.T) {
	in := NewQueryInput(nil)
	in.Blur()

	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	assert.Equal(t, "", in.Value(), "blurred input ignores keys")
	assert.False(t, in.Focused())
}

func TestQueryInput_View(t *testing.T) {
	in := NewQueryInput(nil)

	assert.Contains(t, in.View(), "Query")
}

func TestQueryInput_Query_Trims(t *testing.T) {
	in := NewQueryInput(nil)
	in.SetValue("  which fruit is yellow  ")

	assert.Equal(t, "  which fruit is yellow  ", in.Value())
	assert.Equal(t, "which fruit is yellow", in.Query())
}

func TestQueryInput_CharLimit(t *testing.T) {
	in := NewQueryInput(nil)

	in.SetValue(strings.Repeat("x", MaxQueryLength+10))

	assert.Len(t, in.Value(), MaxQueryLength)
}

func TestQueryInput_FocusAndReset(t *testing.T) {
	in := NewQueryInput(nil)
	in.SetValue("query")
	in.Blur()

	in.Focus()
	in.Reset()

	assert.True(t, in.Focused())
	assert.Equal(t, "", in.Value())
}

func TestQueryInput_SetWidth(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		wantInner int
	}{
		{"wide", 100, 90},
		{"narrow uses minimum", 15, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewQueryInput(nil)
			in.SetWidth(tt.width)

			assert.Equal(t, tt.width, in.Width())
			assert.Equal(t, tt.wantInner, in.textinput.Width)
		})
	}
}
