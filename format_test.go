package prscope_test

import (
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/stretchr/testify/assert"
)

func TestDefaultFormatter_Format(t *testing.T) {
	t.Parallel()

	t.Run("renders summary and files", func(t *testing.T) {
		t.Parallel()

		report := &prscope.Report{
			FileAnalyses: []prscope.FileAnalysis{
				{
					FilePath:       "src/main.py",
					StaticAnalysis: "Detected language: python.\nNo critical issues found in diff.",
					RuleCompliance: "Compliant.",
					ChangeSummary: prscope.ChangeSummary{
						LinesChanged: 4,
						HunkHeaders:  []string{"@@ -1,3 +1,5 @@"},
						Operation:    "modified",
						Language:     "Python",
					},
					ContextAnalysis: &prscope.ContextAnalysis{
						Dependencies:    []string{"import os"},
						Impact:          prscope.ImpactMetrics{LinesAdded: 3, LinesRemoved: 1, NetChange: 2, Complexity: prscope.ComplexityLow},
						CrossReferences: []string{"src/utils.py"},
					},
				},
			},
			Summary: prscope.Summary{
				TotalFilesChanged:  1,
				TotalLinesChanged:  4,
				AnalysisScope:      prscope.ScopeFull,
				HasCodebaseContext: true,
			},
			Recommendations: []string{prscope.RecommendMultiFileImpact},
		}

		want := `<summary>
Files changed: 1
Lines changed: 4
Scope: full
Codebase context: true

Recommendations:
- multi-file impact, ensure integration testing.
</summary>
