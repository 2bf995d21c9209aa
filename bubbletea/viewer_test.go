package bubbletea_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/bubbletea"
	prlipgloss "github.com/fwojciec/prscope/lipgloss"
	"github.com/fwojciec/prscope/mock"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asciiRenderer creates a lipgloss renderer without colors so rendered
// output can be compared as plain text.
func asciiRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return r
}

// trueColorRenderer creates a lipgloss renderer that outputs true colors.
func trueColorRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return r
}

func sampleReport() *prscope.Report {
	return &prscope.Report{
		FileAnalyses: []prscope.FileAnalysis{
			{
				FilePath:       "src/main.py",
				StaticAnalysis: "Detected language: python.\nNo critical issues found in diff.",
				RuleCompliance: "No violations.",
				ChangeSummary: prscope.ChangeSummary{
					LinesChanged: 3,
					HunkHeaders:  []string{"@@ -10,7 +10,7 @@"},
					Operation:    "modified",
					Language:     "Python",
				},
				ContextAnalysis: &prscope.ContextAnalysis{
					Dependencies:    []string{"import utils"},
					Impact:          prscope.ImpactMetrics{LinesAdded: 2, LinesRemoved: 1, NetChange: 1, Complexity: prscope.ComplexityLow},
					CrossReferences: []string{"src/utils.py"},
				},
			},
		},
		Summary: prscope.Summary{
			TotalFilesChanged:  1,
			TotalLinesChanged:  3,
			AnalysisScope:      prscope.ScopeFull,
			HasCodebaseContext: true,
		},
		Recommendations: []string{prscope.RecommendMultiFileImpact},
	}
}

func readyModel(t *testing.T, opts ...bubbletea.ModelOption) bubbletea.Model {
	t.Helper()

	opts = append([]bubbletea.ModelOption{bubbletea.WithRenderer(asciiRenderer())}, opts...)
	m := bubbletea.NewModel(sampleReport(), prlipgloss.DarkTheme(), opts...)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 5})
	return updated.(bubbletea.Model)
}

func TestModel_Init(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewModel(sampleReport(), prlipgloss.DarkTheme())

	assert.Nil(t, m.Init(), "Init should return nil command")
}

func TestModel_ViewBeforeReady(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewModel(sampleReport(), prlipgloss.DarkTheme())

	assert.Contains(t, m.View(), "Loading")
}

func TestModel_ViewAfterReady(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewModel(sampleReport(), prlipgloss.DarkTheme(), bubbletea.WithRenderer(asciiRenderer()))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := updated.View()

	assert.Contains(t, view, "Summary")
	assert.Contains(t, view, "1 files, 3 changed lines, scope full")
	assert.Contains(t, view, prscope.RecommendMultiFileImpact)
	assert.Contains(t, view, "src/main.py (modified) [Python]")
	assert.Contains(t, view, "@@ -10,7 +10,7 @@")
	assert.Contains(t, view, "+2 -1 complexity Low")
	assert.Contains(t, view, "src/utils.py")
	assert.Contains(t, view, "No critical issues found in diff.")
}

func TestModel_RendersColorsWithTrueColorRenderer(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewModel(sampleReport(), prlipgloss.DarkTheme(), bubbletea.WithRenderer(trueColorRenderer()))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Contains(t, updated.View(), "\x1b[", "expected ANSI escape sequences")
}

func TestModel_QuitKey(t *testing.T) {
	t.Parallel()

	m := readyModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_Scrolling(t *testing.T) {
	t.Parallel()

	t.Run("j scrolls down one line", func(t *testing.T) {
		t.Parallel()

		m := readyModel(t)
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})

		assert.Equal(t, 1, updated.(bubbletea.Model).YOffset())
	})

	t.Run("G goes to bottom and gg returns to top", func(t *testing.T) {
		t.Parallel()

		m := readyModel(t)
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
		m = updated.(bubbletea.Model)
		require.False(t, m.AtTop())

		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
		m = updated.(bubbletea.Model)
		assert.False(t, m.AtTop(), "single g should not move")

		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
		assert.True(t, updated.(bubbletea.Model).AtTop())
	})
}

func TestModel_Program(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewModel(sampleReport(), prlipgloss.LightTheme(), bubbletea.WithRenderer(asciiRenderer()))
	tm := teatest.NewTestModel(t, m,
		teatest.WithInitialTermSize(100, 40),
	)

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("src/main.py"))
	}, teatest.WithDuration(2*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).View()
	assert.True(t, strings.Contains(final, "Summary"))
}

func TestModel_Copy(t *testing.T) {
	t.Parallel()

	press := func(t *testing.T, m bubbletea.Model) bubbletea.Model {
		t.Helper()
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
		require.NotNil(t, cmd)
		updated, _ := m.Update(cmd())
		return updated.(bubbletea.Model)
	}

	t.Run("copies plain text report", func(t *testing.T) {
		t.Parallel()

		var copied string
		m := readyModel(t, bubbletea.WithClipboard(&mock.Clipboard{
			CopyFn: func(content string) error {
				copied = content
				return nil
			},
		}))

		m = press(t, m)

		assert.Contains(t, copied, "=== FILE: src/main.py (modified, Python, 3 lines) ===")
		assert.Equal(t, "Report copied to clipboard", m.Status())
		assert.Contains(t, m.View(), "Report copied to clipboard")
	})

	t.Run("reports clipboard failure", func(t *testing.T) {
		t.Parallel()

		m := readyModel(t, bubbletea.WithClipboard(&mock.Clipboard{
			CopyFn: func(content string) error {
				return errors.New("xclip not found")
			},
		}))

		m = press(t, m)

		assert.Equal(t, "Copy failed: xclip not found", m.Status())
	})

	t.Run("without clipboard", func(t *testing.T) {
		t.Parallel()

		m := press(t, readyModel(t))

		assert.Equal(t, "Copy failed: no clipboard configured", m.Status())
	})
}

func TestModel_FooterShowsKeyHelp(t *testing.T) {
	t.Parallel()

	m := readyModel(t)

	assert.Contains(t, m.View(), "copy")
	assert.Empty(t, m.Status())
}
