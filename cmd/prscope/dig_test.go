package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/config"
	prhttp "github.com/fwojciec/prscope/http"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNewContainer_ResolvesComponents(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Rules.Provider = config.ProviderNone
	cfg.Server.Addr = "127.0.0.1:0"

	container, err := newContainer(cfg, quietLogger())
	require.NoError(t, err)

	err = container.Invoke(func(
		r prscope.Reviewer,
		g prscope.GitRunner,
		l prscope.BatchLoader,
		f prscope.ReportFormatter,
		v prscope.ReportViewer,
		s *prhttp.Server,
	) {
		assert.NotNil(t, r)
		assert.NotNil(t, g)
		assert.NotNil(t, l)
		assert.NotNil(t, f)
		assert.NotNil(t, v)
		assert.Equal(t, "127.0.0.1:0", s.Addr)
	})
	require.NoError(t, err)
}

func TestNewContainer_DisabledRulesReportedInline(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Rules.Provider = config.ProviderNone
	cfg.Lint.Tools = nil

	container, err := newContainer(cfg, quietLogger())
	require.NoError(t, err)

	var report *prscope.Report
	err = container.Invoke(func(r prscope.Reviewer) error {
		var err error
		report, err = r.Analyze(context.Background(), prscope.Request{
			Diff:  "diff --git a/notes.txt b/notes.txt\nnew file mode 100644\nindex 0000000..1234567\n--- /dev/null\n+++ b/notes.txt\n@@ -0,0 +1 @@\n+hello\n",
			Scope: prscope.ScopeDiffOnly,
		})
		return err
	})
	require.NoError(t, err)

	require.Len(t, report.FileAnalyses, 1)
	fa := report.FileAnalyses[0]
	assert.Equal(t, "Rule check unavailable: no rule checker configured", fa.RuleCompliance)
	assert.Equal(t, "Detected language: unknown.\nNo critical issues found in diff.", fa.StaticAnalysis)
	assert.Equal(t, "added", fa.ChangeSummary.Operation)
}

func TestNewRuleChecker(t *testing.T) {
	t.Parallel()

	t.Run("none disables rule checks", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		cfg.Rules.Provider = config.ProviderNone

		assert.Nil(t, newRuleChecker(cfg))
	})

	t.Run("providers build a lazy service", func(t *testing.T) {
		t.Parallel()

		for _, provider := range []string{config.ProviderGemini, config.ProviderOpenAI} {
			cfg := config.Default()
			cfg.Rules.Provider = provider

			checker := newRuleChecker(cfg)

			require.IsType(t, &prscope.RuleService{}, checker, provider)
			assert.Equal(t, prscope.RuleStateUninitialized, checker.(*prscope.RuleService).State(), provider)
		}
	})
}

func TestRuleModelFactory(t *testing.T) {
	t.Parallel()

	t.Run("missing rules document fails", func(t *testing.T) {
		t.Parallel()

		factory := ruleModelFactory(config.RulesConfig{Provider: config.ProviderGemini, APIKey: "k"})
		require.NotNil(t, factory)

		_, err := factory(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no rules document configured")
	})

	t.Run("openai model is built from rules file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "rules.txt")
		require.NoError(t, os.WriteFile(path, []byte("No secrets in code."), 0o644))

		factory := ruleModelFactory(config.RulesConfig{
			Provider: config.ProviderOpenAI,
			APIKey:   "k",
			Path:     path,
			Endpoint: "https://example.openai.azure.com",
		})

		model, err := factory(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, model)
	})

	t.Run("none has no factory", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, ruleModelFactory(config.RulesConfig{Provider: config.ProviderNone}))
	})
}

func TestNewStaticAnalyzer_UnknownTool(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Lint.Tools = []string{"flake8"}

	_, err := newStaticAnalyzer(cfg, quietLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown lint tool "flake8"`)
}
