package prscope

import (
	"fmt"
	"strings"
)

// ReportFormatter renders a report as text.
type ReportFormatter interface {
	Format(report *Report) string
}

// DefaultFormatter implements ReportFormatter with a plain-text layout.
type DefaultFormatter struct{}

// Format renders the report as structured plain text.
func (f *DefaultFormatter) Format(report *Report) string {
	var sb strings.Builder

	s := report.Summary
	sb.WriteString("<summary>\n")
	sb.WriteString(fmt.Sprintf("Files changed: %d\n", s.TotalFilesChanged))
	sb.WriteString(fmt.Sprintf("Lines changed: %d\n", s.TotalLinesChanged))
	sb.WriteString(fmt.Sprintf("Scope: %s\n", s.AnalysisScope))
	sb.WriteString(fmt.Sprintf("Codebase context: %t\n", s.HasCodebaseContext))
	if len(report.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, r := range report.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", r))
		}
	}
	sb.WriteString("</summary>\n")

	for _, fa := range report.FileAnalyses {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("=== FILE: %s (%s) ===\n", fa.FilePath, fileLabel(fa.ChangeSummary)))
		for _, h := range fa.ChangeSummary.HunkHeaders {
			sb.WriteString(h)
			sb.WriteString("\n")
		}
		writeSection(&sb, "Static analysis", fa.StaticAnalysis)
		writeSection(&sb, "Rule compliance", fa.RuleCompliance)

		if ca := fa.ContextAnalysis; ca != nil {
			m := ca.Impact
			sb.WriteString(fmt.Sprintf("Impact: +%d/-%d (net %d, %s complexity)\n",
				m.LinesAdded, m.LinesRemoved, m.NetChange, m.Complexity))
			writeList(&sb, "Dependencies", ca.Dependencies)
			writeList(&sb, "Referenced by", ca.CrossReferences)
		}
	}

	return sb.String()
}

// fileLabel describes the change of a file, e.g. "modified, Go, 4 lines".
func fileLabel(cs ChangeSummary) string {
	parts := make([]string, 0, 3)
	if cs.Operation != "" {
		parts = append(parts, cs.Operation)
	}
	if cs.Language != "" {
		parts = append(parts, cs.Language)
	}
	parts = append(parts, fmt.Sprintf("%d lines", cs.LinesChanged))
	return strings.Join(parts, ", ")
}

func writeSection(sb *strings.Builder, title, body string) {
	fmt.Fprintf(sb, "%s:\n", title)
	body = strings.TrimRight(body, "\n")
	if body == "" {
		sb.WriteString("  (none)\n")
		return
	}
	for _, line := range strings.Split(body, "\n") {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(sb, "  - %s\n", item)
	}
}
