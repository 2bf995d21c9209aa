package lipgloss_test

import (
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestThemes(t *testing.T) {
	t.Parallel()

	themes := map[string]*lipgloss.Theme{
		"dark":  lipgloss.DarkTheme(),
		"light": lipgloss.LightTheme(),
	}

	for name, theme := range themes {
		t.Run(name+" implements Theme interface", func(t *testing.T) {
			t.Parallel()

			var _ prscope.Theme = theme
		})

		t.Run(name+" colors every report element", func(t *testing.T) {
			t.Parallel()

			styles := theme.Styles()

			assert.NotEmpty(t, styles.Heading.Foreground)
			assert.NotEmpty(t, styles.FileHeader.Foreground)
			assert.NotEmpty(t, styles.HunkHeader.Foreground)
			assert.NotEmpty(t, styles.Added.Foreground)
			assert.NotEmpty(t, styles.Deleted.Foreground)
			assert.NotEmpty(t, styles.Muted.Foreground)
			assert.NotEmpty(t, styles.Recommendation.Foreground)
			assert.NotEmpty(t, styles.HighComplexity.Background)
		})
	}

	t.Run("dark and light differ", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, lipgloss.DarkTheme().Styles(), lipgloss.LightTheme().Styles())
	})
}
