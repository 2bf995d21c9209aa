package bubbletea_test

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/prscope/bubbletea"
	"github.com/stretchr/testify/assert"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDefaultKeyMap_Matches(t *testing.T) {
	t.Parallel()

	km := bubbletea.DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		msgs    []tea.KeyMsg
	}{
		{"up", km.Up, []tea.KeyMsg{runes("k"), {Type: tea.KeyUp}}},
		{"down", km.Down, []tea.KeyMsg{runes("j"), {Type: tea.KeyDown}}},
		{"half page up", km.HalfPageUp, []tea.KeyMsg{{Type: tea.KeyCtrlU}, {Type: tea.KeyPgUp}}},
		{"half page down", km.HalfPageDown, []tea.KeyMsg{{Type: tea.KeyCtrlD}, {Type: tea.KeyPgDown}}},
		{"top", km.GotoTop, []tea.KeyMsg{runes("g")}},
		{"bottom", km.GotoBottom, []tea.KeyMsg{runes("G")}},
		{"copy", km.Copy, []tea.KeyMsg{runes("y")}},
		{"quit", km.Quit, []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for _, msg := range tt.msgs {
				assert.True(t, key.Matches(msg, tt.binding), "%s should match", msg.String())
			}
		})
	}
}

func TestKeyMap_Help(t *testing.T) {
	t.Parallel()

	km := bubbletea.DefaultKeyMap()

	for _, b := range km.ShortHelp() {
		assert.NotEmpty(t, b.Help().Key)
		assert.NotEmpty(t, b.Help().Desc)
	}
	assert.Contains(t, km.ShortHelp(), km.Copy)

	var total int
	for _, group := range km.FullHelp() {
		total += len(group)
	}
	assert.Equal(t, 8, total, "every binding appears in full help")
}
