package prscope_test

import (
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/stretchr/testify/assert"
)

func TestTheme(t *testing.T) {
	t.Parallel()

	t.Run("returns styles", func(t *testing.T) {
		t.Parallel()

		theme := &mockTheme{
			styles: prscope.Styles{
				Added:          prscope.ColorPair{Foreground: "#00ff00"},
				HighComplexity: prscope.ColorPair{Foreground: "#ff0000", Background: "#330000"},
			},
		}

		result := theme.Styles()
		assert.Equal(t, "#00ff00", result.Added.Foreground)
		assert.Equal(t, "#330000", result.HighComplexity.Background)
	})
}

// mockTheme implements prscope.Theme for testing.
type mockTheme struct {
	styles prscope.Styles
}

func (m *mockTheme) Styles() prscope.Styles {
	return m.styles
}

var _ prscope.Theme = (*mockTheme)(nil)
