from src.main import run
`

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func okStatic() *mock.StaticAnalyzer {
	return &mock.StaticAnalyzer{
		AnalyzeFn: func(ctx context.Context, source string) string {
			return "No critical issues found in diff."
		},
	}
}

func okRules() *mock.RuleChecker {
	return &mock.RuleChecker{
		CheckFn: func(ctx context.Context, query string) string {
			return "Compliant."
		},
	}
}

func newTestAnalyzer(static prscope.StaticAnalyzer, rules prscope.RuleChecker, opts ...prscope.AnalyzerOption) *prscope.Analyzer {
	opts = append([]prscope.AnalyzerOption{
		prscope.WithLogger(quietLogger()),
		prscope.WithRunID(func() string { return "run-1" }),
	}, opts...)
	return prscope.NewAnalyzer(static, rules, opts...)
}

func codebase(s string) *string {
	return &s
}

func TestAnalyzer_Analyze_DiffOnly(t *testing.T) {
	t.Parallel()

	var sources, queries []string
	var mu sync.Mutex
	static := &mock.StaticAnalyzer{
		AnalyzeFn: func(ctx context.Context, source string) string {
			mu.Lock()
			defer mu.Unlock()
			sources = append(sources, source)
			return "No critical issues found in diff."
		},
	}
	rules := &mock.RuleChecker{
		CheckFn: func(ctx context.Context, query string) string {
			mu.Lock()
			defer mu.Unlock()
			queries = append(queries, query)
			return "Compliant."
		},
	}

	report, err := newTestAnalyzer(static, rules).Analyze(context.Background(), prscope.Request{
		Diff:  sampleDiff,
		Scope: prscope.ScopeDiffOnly,
	})

	require.NoError(t, err)
	assert.Equal(t, "run-1", report.RunID)
	require.Len(t, report.FileAnalyses, 2)

	main := report.FileAnalyses[0]
	assert.Equal(t, "src/main.py", main.FilePath)
	assert.Equal(t, "No critical issues found in diff.", main.StaticAnalysis)
	assert.Equal(t, "Compliant.", main.RuleCompliance)
	assert.Equal(t, 4, main.ChangeSummary.LinesChanged)
	assert.Equal(t, []string{"@@ -1,3 +1,5 @@"}, main.ChangeSummary.HunkHeaders)
	assert.Nil(t, main.ContextAnalysis)
	assert.Equal(t, "README.md", report.FileAnalyses[1].FilePath)

	assert.Equal(t, []string{"+import sys\n+print(sys.argv)\n+x = 1\n-y = 2", "-Old title\n+New title"}, sources)
	assert.Equal(t, prscope.RuleQueryPrefix+"+import sys\n+print(sys.argv)\n+x = 1\n-y = 2", queries[0])

	assert.Equal(t, prscope.Summary{
		TotalFilesChanged:  2,
		TotalLinesChanged:  6,
		AnalysisScope:      prscope.ScopeDiffOnly,
		HasCodebaseContext: false,
		Recommendations:    []string{},
	}, report.Summary)
	assert.Equal(t, []string{}, report.Recommendations)
}

func TestAnalyzer_Analyze_FullScope(t *testing.T) {
	t.Parallel()

	report, err := newTestAnalyzer(okStatic(), okRules()).Analyze(context.Background(), prscope.Request{
		Diff:     sampleDiff,
		Codebase: codebase(sampleCodebase),
		Scope:    prscope.ScopeFull,
	})

	require.NoError(t, err)
	require.Len(t, report.FileAnalyses, 2)

	ca := report.FileAnalyses[0].ContextAnalysis
	require.NotNil(t, ca)
	assert.Equal(t, []string{"import os", "from typing import List"}, ca.Dependencies)
	assert.Equal(t, prscope.ImpactMetrics{LinesAdded: 3, LinesRemoved: 1, NetChange: 2, Complexity: prscope.ComplexityLow}, ca.Impact)
	assert.Equal(t, []string{"src/utils.py"}, ca.CrossReferences)

	assert.Nil(t, report.FileAnalyses[1].ContextAnalysis, "README.md is not in the snapshot")
	assert.True(t, report.Summary.HasCodebaseContext)
	assert.Equal(t, []string{prscope.RecommendMultiFileImpact}, report.Recommendations)
}

func TestAnalyzer_Analyze_DiffOnlyIgnoresSnapshot(t *testing.T) {
	t.Parallel()

	report, err := newTestAnalyzer(okStatic(), okRules()).Analyze(context.Background(), prscope.Request{
		Diff:     sampleDiff,
		Codebase: codebase(sampleCodebase),
		Scope:    prscope.ScopeDiffOnly,
	})

	require.NoError(t, err)
	for _, fa := range report.FileAnalyses {
		assert.Nil(t, fa.ContextAnalysis)
		data, err := json.Marshal(fa)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "context_analysis")
	}
	assert.True(t, report.Summary.HasCodebaseContext)
	assert.Empty(t, report.Recommendations, "cross references are only collected with context")
}

func TestAnalyzer_Analyze_UnknownScopeBehavesAsDiffOnly(t *testing.T) {
	t.Parallel()

	report, err := newTestAnalyzer(okStatic(), okRules()).Analyze(context.Background(), prscope.Request{
		Diff:     sampleDiff,
		Codebase: codebase(sampleCodebase),
		Scope:    prscope.Scope("everything"),
	})

	require.NoError(t, err)
	assert.Nil(t, report.FileAnalyses[0].ContextAnalysis)
	assert.Equal(t, prscope.Scope("everything"), report.Summary.AnalysisScope)
}

func TestAnalyzer_Analyze_SnapshotWithoutMarkers(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(okStatic(), okRules())

	full, err := a.Analyze(context.Background(), prscope.Request{
		Diff:     sampleDiff,
		Codebase: codebase("import os\nfrom src.main import run\n"),
		Scope:    prscope.ScopeFull,
	})
	require.NoError(t, err)
	diffOnly, err := a.Analyze(context.Background(), prscope.Request{
		Diff:  sampleDiff,
		Scope: prscope.ScopeDiffOnly,
	})
	require.NoError(t, err)

	assert.Equal(t, diffOnly.FileAnalyses, full.FileAnalyses)
}

func TestAnalyzer_Analyze_LargeChange(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("--- a/big.py\n+++ b/big.py\n@@ -1,50 +1,60 @@\n")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&sb, "+added %d\n", i)
	}
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, "-removed %d\n", i)
	}
	cb := "=== FILE: big.py ===\nimport os\n"

	report, err := newTestAnalyzer(okStatic(), okRules()).Analyze(context.Background(), prscope.Request{
		Diff:     sb.String(),
		Codebase: &cb,
		Scope:    prscope.ScopeContextual,
	})

	require.NoError(t, err)
	assert.Equal(t, 110, report.Summary.TotalLinesChanged)
	require.NotNil(t, report.FileAnalyses[0].ContextAnalysis)
	assert.Equal(t, prscope.ComplexityHigh, report.FileAnalyses[0].ContextAnalysis.Impact.Complexity)
	assert.Equal(t, []string{prscope.RecommendLargeChange}, report.Recommendations)
}

func TestAnalyzer_Analyze_ContextOnlyDiff(t *testing.T) {
	t.Parallel()

	diff := "--- a/a.py\n+++ b/a.py\n@@ -1,2 +1,2 @@\n unchanged\n also unchanged\n"
	cb := "=== FILE: a.py ===\nunchanged\n"

	report, err := newTestAnalyzer(okStatic(), okRules()).Analyze(context.Background(), prscope.Request{
		Diff:     diff,
		Codebase: &cb,
		Scope:    prscope.ScopeFull,
	})

	require.NoError(t, err)
	require.Len(t, report.FileAnalyses, 1)
	fa := report.FileAnalyses[0]
	assert.Equal(t, 0, fa.ChangeSummary.LinesChanged)
	require.NotNil(t, fa.ContextAnalysis)
	assert.Equal(t, prscope.ComplexityLow, fa.ContextAnalysis.Impact.Complexity)
	assert.Equal(t, 0, report.Summary.TotalLinesChanged)
}

func TestAnalyzer_Analyze_MalformedDiffIsEmpty(t *testing.T) {
	t.Parallel()

	report, err := newTestAnalyzer(okStatic(), okRules()).Analyze(context.Background(), prscope.Request{
		Diff:  "this is not a diff\n",
		Scope: prscope.ScopeDiffOnly,
	})

	require.NoError(t, err)
	assert.Empty(t, report.FileAnalyses)
	assert.Equal(t, 0, report.Summary.TotalFilesChanged)
}

func TestAnalyzer_Analyze_ToolErrors(t *testing.T) {
	t.Parallel()

	static := &mock.StaticAnalyzer{
		AnalyzeFn: func(ctx context.Context, source string) string {
			return "Pylint failed: exec: \"pylint\": executable file not found in $PATH"
		},
	}

	report, err := newTestAnalyzer(static, okRules()).Analyze(context.Background(), prscope.Request{
		Diff:  sampleDiff,
		Scope: prscope.ScopeDiffOnly,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{}, report.Recommendations)

	static.AnalyzeFn = func(ctx context.Context, source string) string {
		return "E0602: undefined-variable (ERROR)"
	}
	report, err = newTestAnalyzer(static, okRules()).Analyze(context.Background(), prscope.Request{
		Diff:  sampleDiff,
		Scope: prscope.ScopeDiffOnly,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{prscope.RecommendToolErrors}, report.Recommendations)
}

func TestAnalyzer_Analyze_RecommendationOrder(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("--- a/src/main.py\n+++ b/src/main.py\n")
	for i := 0; i < 101; i++ {
		fmt.Fprintf(&sb, "+line %d\n", i)
	}
	rules := &mock.RuleChecker{
		CheckFn: func(ctx context.Context, query string) string {
			return "Rule check failed: connection error"
		},
	}

	report, err := newTestAnalyzer(okStatic(), rules).Analyze(context.Background(), prscope.Request{
		Diff:     sb.String(),
		Codebase: codebase(sampleCodebase),
		Scope:    prscope.ScopeFull,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		prscope.RecommendLargeChange,
		prscope.RecommendToolErrors,
		prscope.RecommendMultiFileImpact,
	}, report.Recommendations)
	assert.Equal(t, report.Recommendations, report.Summary.Recommendations)
}

func TestAnalyzer_Analyze_CollaboratorPanicIsIsolated(t *testing.T) {
	t.Parallel()

	static := &mock.StaticAnalyzer{
		AnalyzeFn: func(ctx context.Context, source string) string {
			if strings.Contains(source, "title") {
				panic("linter crashed")
			}
			return "No critical issues found in diff."
		},
	}

	report, err := newTestAnalyzer(static, okRules()).Analyze(context.Background(), prscope.Request{
		Diff:  sampleDiff,
		Scope: prscope.ScopeDiffOnly,
	})

	require.NoError(t, err)
	require.Len(t, report.FileAnalyses, 2)
	assert.Equal(t, "No critical issues found in diff.", report.FileAnalyses[0].StaticAnalysis)
	assert.Equal(t, "Static analysis failed: linter crashed", report.FileAnalyses[1].StaticAnalysis)
	assert.Equal(t, "Compliant.", report.FileAnalyses[1].RuleCompliance)
}

func TestAnalyzer_Analyze_NilCollaborators(t *testing.T) {
	t.Parallel()

	report, err := newTestAnalyzer(nil, nil).Analyze(context.Background(), prscope.Request{
		Diff:  sampleDiff,
		Scope: prscope.ScopeDiffOnly,
	})

	require.NoError(t, err)
	assert.Contains(t, report.FileAnalyses[0].StaticAnalysis, "unavailable")
	assert.Contains(t, report.FileAnalyses[0].RuleCompliance, "unavailable")
}

func TestAnalyzer_Analyze_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	called := false
	static := &mock.StaticAnalyzer{
		AnalyzeFn: func(ctx context.Context, source string) string {
			called = true
			return ""
		},
	}
	a := newTestAnalyzer(static, okRules())

	_, err := a.Analyze(context.Background(), prscope.Request{Diff: strings.Repeat("+", prscope.MaxDiffSize+1)})
	assert.ErrorIs(t, err, prscope.ErrInputTooLarge)

	_, err = a.Analyze(context.Background(), prscope.Request{Diff: "--- a/x\n+\xff\n"})
	assert.ErrorIs(t, err, prscope.ErrInvalidEncoding)

	assert.False(t, called, "collaborators must not run for rejected input")
}

func TestAnalyzer_Analyze_Idempotent(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(okStatic(), okRules())
	req := prscope.Request{Diff: sampleDiff, Codebase: codebase(sampleCodebase), Scope: prscope.ScopeFull}

	first, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.FileAnalyses, second.FileAnalyses)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestAnalyzer_Analyze_ParallelPreservesOrder(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	var want []string
	for i := 0; i < 20; i++ {
		path := fmt.Sprintf("pkg/file%02d.py", i)
		want = append(want, path)
		fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n+x = %d\n", path, path, i)
	}
	static := &mock.StaticAnalyzer{
		AnalyzeFn: func(ctx context.Context, source string) string {
			// Earlier files finish last.
			var n int
			fmt.Sscanf(source, "+x = %d", &n)
			time.Sleep(time.Duration(20-n) * time.Millisecond)
			return source
		},
	}

	report, err := newTestAnalyzer(static, okRules(), prscope.WithWorkers(8)).Analyze(context.Background(), prscope.Request{
		Diff:  sb.String(),
		Scope: prscope.ScopeDiffOnly,
	})

	require.NoError(t, err)
	require.Len(t, report.FileAnalyses, len(want))
	for i, fa := range report.FileAnalyses {
		assert.Equal(t, want[i], fa.FilePath)
		assert.Equal(t, fmt.Sprintf("+x = %d", i), fa.StaticAnalysis)
	}
}

func TestAnalyzer_Analyze_Detectors(t *testing.T) {
	t.Parallel()

	var languageInputs []string
	ops := &mock.OperationDetector{
		DetectOperationsFn: func(diffText string) map[string]prscope.FileOp {
			return map[string]prscope.FileOp{"src/main.py": prscope.FileModified}
		},
	}
	langs := &mock.LanguageDetector{
		DetectLanguageFn: func(path, content string) string {
			languageInputs = append(languageInputs, path+"|"+content)
			if strings.HasSuffix(path, ".py") {
				return "Python"
			}
			return ""
		},
	}

	report, err := newTestAnalyzer(okStatic(), okRules(),
		prscope.WithOperationDetector(ops),
		prscope.WithLanguageDetector(langs),
	).Analyze(context.Background(), prscope.Request{
		Diff:     sampleDiff,
		Codebase: codebase(sampleCodebase),
		Scope:    prscope.ScopeFull,
	})

	require.NoError(t, err)
	assert.Equal(t, "modified", report.FileAnalyses[0].ChangeSummary.Operation)
	assert.Equal(t, "Python", report.FileAnalyses[0].ChangeSummary.Language)
	assert.Empty(t, report.FileAnalyses[1].ChangeSummary.Operation)
	assert.Empty(t, report.FileAnalyses[1].ChangeSummary.Language)
	assert.Equal(t, []string{
		"src/main.py|import os\nfrom typing import List\ny = 2",
		"README.md|Old title\nNew title",
	}, languageInputs)
}

func TestFileAnalysis_String(t *testing.T) {
	t.Parallel()

	fa := prscope.FileAnalysis{
		FilePath:       "a.py",
		StaticAnalysis: "ok",
		RuleCompliance: "ok",
		ChangeSummary:  prscope.ChangeSummary{LinesChanged: 1, HunkHeaders: []string{}},
	}

	assert.JSONEq(t, `{
		"file_path": "a.py",
		"static_analysis": "ok",
		"rule_compliance": "ok",
		"change_summary": {"lines_changed": 1, "hunk_headers": []}
	}`, fa.String())
}
