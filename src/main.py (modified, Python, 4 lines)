@@ -1,3 +1,5 @@
Static analysis:
  Detected language: python.
  No critical issues found in diff.
Rule compliance:
  Compliant.
Impact: +3/-1 (net 2, Low complexity)
Dependencies:
  - import os
Referenced by:
  - src/utils.py
`
		assert.Equal(t, want, (&prscope.DefaultFormatter{}).Format(report))
	})

	t.Run("renders empty sections", func(t *testing.T) {
		t.Parallel()

		report := &prscope.Report{
			FileAnalyses: []prscope.FileAnalysis{
				{FilePath: "a.py", ChangeSummary: prscope.ChangeSummary{}},
			},
			Summary: prscope.Summary{TotalFilesChanged: 1, AnalysisScope: prscope.ScopeDiffOnly},
		}

		want := `<summary>
Files changed: 1
Lines changed: 0
Scope: diff_only
Codebase context: false
</summary>
