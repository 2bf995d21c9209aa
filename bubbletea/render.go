package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/prscope"
)

// renderConfig holds all rendering parameters for renderReport.
type renderConfig struct {
	report   *prscope.Report
	styles   prscope.Styles
	renderer *lipgloss.Renderer
	width    int
}

// renderReport converts a Report to a styled string.
// If renderer is nil, the default lipgloss renderer is used.
func renderReport(cfg renderConfig) string {
	report := cfg.report
	if report == nil {
		return ""
	}

	headingStyle := styleFromColorPair(cfg.styles.Heading, cfg.renderer).Bold(true)
	fileHeaderStyle := styleFromColorPair(cfg.styles.FileHeader, cfg.renderer).Bold(true)
	hunkHeaderStyle := styleFromColorPair(cfg.styles.HunkHeader, cfg.renderer)
	addedStyle := styleFromColorPair(cfg.styles.Added, cfg.renderer)
	deletedStyle := styleFromColorPair(cfg.styles.Deleted, cfg.renderer)
	mutedStyle := styleFromColorPair(cfg.styles.Muted, cfg.renderer)
	recStyle := styleFromColorPair(cfg.styles.Recommendation, cfg.renderer)
	highStyle := styleFromColorPair(cfg.styles.HighComplexity, cfg.renderer)

	var sb strings.Builder

	s := report.Summary
	sb.WriteString(headingStyle.Render("Summary"))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("%d files, %d changed lines, scope %s, codebase context %t",
		s.TotalFilesChanged, s.TotalLinesChanged, s.AnalysisScope, s.HasCodebaseContext)))
	sb.WriteString("\n")
	for _, r := range report.Recommendations {
		sb.WriteString(recStyle.Render("• " + r))
		sb.WriteString("\n")
	}

	for _, fa := range report.FileAnalyses {
		sb.WriteString("\n")
		sb.WriteString(fileHeaderStyle.Render(padRight(fileTitle(fa), cfg.width)))
		sb.WriteString("\n")
		for _, h := range fa.ChangeSummary.HunkHeaders {
			sb.WriteString(hunkHeaderStyle.Render(h))
			sb.WriteString("\n")
		}

		if ca := fa.ContextAnalysis; ca != nil {
			m := ca.Impact
			sb.WriteString(addedStyle.Render(fmt.Sprintf("+%d", m.LinesAdded)))
			sb.WriteString(" ")
			sb.WriteString(deletedStyle.Render(fmt.Sprintf("-%d", m.LinesRemoved)))
			sb.WriteString(" ")
			complexity := string(m.Complexity)
			if m.Complexity == prscope.ComplexityHigh {
				complexity = highStyle.Render(complexity)
			}
			sb.WriteString(mutedStyle.Render("complexity "))
			sb.WriteString(complexity)
			sb.WriteString("\n")
			renderList(&sb, "Dependencies", ca.Dependencies, headingStyle, mutedStyle)
			renderList(&sb, "Referenced by", ca.CrossReferences, headingStyle, mutedStyle)
		}

		renderBlock(&sb, "Static analysis", fa.StaticAnalysis, headingStyle, mutedStyle)
		renderBlock(&sb, "Rule compliance", fa.RuleCompliance, headingStyle, mutedStyle)
	}

	return sb.String()
}

func fileTitle(fa prscope.FileAnalysis) string {
	title := fa.FilePath
	if op := fa.ChangeSummary.Operation; op != "" {
		title += " (" + op + ")"
	}
	if lang := fa.ChangeSummary.Language; lang != "" {
		title += " [" + lang + "]"
	}
	return fmt.Sprintf("%s · %d lines", title, fa.ChangeSummary.LinesChanged)
}

func renderList(sb *strings.Builder, title string, items []string, titleStyle, itemStyle lipgloss.Style) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	for _, item := range items {
		sb.WriteString(itemStyle.Render("  " + item))
		sb.WriteString("\n")
	}
}

func renderBlock(sb *strings.Builder, title, body string, titleStyle, emptyStyle lipgloss.Style) {
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	body = strings.TrimRight(body, "\n")
	if body == "" {
		sb.WriteString(emptyStyle.Render("  (none)"))
		sb.WriteString("\n")
		return
	}
	for _, line := range strings.Split(body, "\n") {
		sb.WriteString("  ")
		sb.WriteString(strings.ReplaceAll(line, "\t", tabSpaces))
		sb.WriteString("\n")
	}
}

// tabSpaces replaces each tab in tool output.
const tabSpaces = "    "

// padRight pads s with spaces to width so backgrounds span the terminal.
func padRight(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func styleFromColorPair(cp prscope.ColorPair, renderer *lipgloss.Renderer) lipgloss.Style {
	var style lipgloss.Style
	if renderer != nil {
		style = renderer.NewStyle()
	} else {
		style = lipgloss.NewStyle()
	}
	if cp.Foreground != "" {
		style = style.Foreground(lipgloss.Color(cp.Foreground))
	}
	if cp.Background != "" {
		style = style.Background(lipgloss.Color(cp.Background))
	}
	return style
}
