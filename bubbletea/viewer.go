// Package bubbletea provides a terminal UI viewer for analysis reports using
// the Bubble Tea framework.
package bubbletea

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/prscope"
)

// Model is the Bubble Tea model for viewing reports.
type Model struct {
	report   *prscope.Report
	styles   prscope.Styles
	renderer *lipgloss.Renderer
	keymap   KeyMap
	viewport  viewport.Model
	ready     bool
	pendingG  bool // first "g" of "gg" was pressed
	clipboard prscope.Clipboard
	status    string // footer message, replaces the key help when set
}

// copiedMsg reports the result of copying the report.
type copiedMsg struct {
	err error
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithRenderer sets the lipgloss renderer used for styling.
func WithRenderer(r *lipgloss.Renderer) ModelOption {
	return func(m *Model) {
		m.renderer = r
	}
}

// WithKeyMap overrides the default key bindings.
func WithKeyMap(km KeyMap) ModelOption {
	return func(m *Model) {
		m.keymap = km
	}
}

// WithClipboard enables copying the report as plain text.
func WithClipboard(cb prscope.Clipboard) ModelOption {
	return func(m *Model) {
		m.clipboard = cb
	}
}

// NewModel creates a new Model for the given report and theme.
func NewModel(report *prscope.Report, theme prscope.Theme, opts ...ModelOption) Model {
	m := Model{
		report: report,
		keymap: DefaultKeyMap(),
	}
	if theme != nil {
		m.styles = theme.Styles()
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		gPressed := m.pendingG
		m.pendingG = false
		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case !m.ready:
			return m, nil
		case key.Matches(msg, m.keymap.Copy):
			return m, m.copyReport()
		case key.Matches(msg, m.keymap.Up):
			m.viewport.ScrollUp(1)
			return m, nil
		case key.Matches(msg, m.keymap.Down):
			m.viewport.ScrollDown(1)
			return m, nil
		case key.Matches(msg, m.keymap.HalfPageUp):
			m.viewport.HalfPageUp()
			return m, nil
		case key.Matches(msg, m.keymap.HalfPageDown):
			m.viewport.HalfPageDown()
			return m, nil
		case key.Matches(msg, m.keymap.GotoBottom):
			m.viewport.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keymap.GotoTop):
			if gPressed {
				m.viewport.GotoTop()
			} else {
				m.pendingG = true
			}
			return m, nil
		}
	case copiedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Copy failed: %v", msg.err)
		} else {
			m.status = "Report copied to clipboard"
		}
		return m, nil
	case tea.WindowSizeMsg:
		height := max(msg.Height-1, 1) // last line is the footer
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.viewport.SetContent(m.render(msg.Width))
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.footer()
}

// Status returns the footer message set by the last action.
func (m Model) Status() string {
	return m.status
}

func (m Model) footer() string {
	if m.status != "" {
		return styleFromColorPair(m.styles.Muted, m.renderer).Render(m.status)
	}
	h := help.New()
	h.Width = m.viewport.Width
	return h.View(m.keymap)
}

// copyReport copies the plain-text report in the background.
func (m Model) copyReport() tea.Cmd {
	cb, report := m.clipboard, m.report
	return func() tea.Msg {
		if cb == nil {
			return copiedMsg{err: errors.New("no clipboard configured")}
		}
		text := (&prscope.DefaultFormatter{}).Format(report)
		return copiedMsg{err: cb.Copy(text)}
	}
}

// AtTop reports whether the viewport is scrolled to the top.
func (m Model) AtTop() bool {
	return m.viewport.AtTop()
}

// YOffset returns the vertical scroll offset of the viewport.
func (m Model) YOffset() int {
	return m.viewport.YOffset
}

func (m Model) render(width int) string {
	return renderReport(renderConfig{
		report:   m.report,
		styles:   m.styles,
		renderer: m.renderer,
		width:    width,
	})
}

// Compile-time interface verification.
var _ prscope.ReportViewer = (*Viewer)(nil)

// Viewer implements prscope.ReportViewer using a Bubble Tea TUI.
type Viewer struct {
	theme prscope.Theme
	opts  []ModelOption
}

// NewViewer creates a new Viewer. The options apply to every model it
// shows.
func NewViewer(theme prscope.Theme, opts ...ModelOption) *Viewer {
	return &Viewer{theme: theme, opts: opts}
}

// View displays the report and blocks until the user exits.
func (v *Viewer) View(ctx context.Context, report *prscope.Report) error {
	m := NewModel(report, v.theme, v.opts...)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
