package prscope

import "strings"

// ComplexityThreshold is the number of changed lines at which a file's
// change is considered high complexity.
const ComplexityThreshold = 10

// AnalyzeImpact computes change metrics for a file's changed lines.
func AnalyzeImpact(changedLines []string) ImpactMetrics {
	var m ImpactMetrics
	for _, line := range changedLines {
		switch {
		case strings.HasPrefix(line, "+"):
			m.LinesAdded++
		case strings.HasPrefix(line, "-"):
			m.LinesRemoved++
		}
	}
	m.NetChange = m.LinesAdded - m.LinesRemoved
	m.Complexity = ComplexityLow
	if m.LinesAdded+m.LinesRemoved >= ComplexityThreshold {
		m.Complexity = ComplexityHigh
	}
	return m
}
