package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/prscope/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func env(vars map[string]string) func(string) string {
	return func(k string) string {
		return vars[k]
	}
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	config.ApplyEnv(cfg, env(nil))

	require.NoError(t, config.Validate(cfg))
	assert.Equal(t, config.ProviderNone, cfg.Rules.Provider)
	assert.Equal(t, 15*time.Second, cfg.Lint.Timeout)
}

func TestLoad(t *testing.T) {
	t.Run("parses file over defaults", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("PRSCOPE_TEST_GEMINI_KEY", "g-key")
		t.Setenv("RULES_PATH", "")
		t.Setenv("PDF_RULE_PATH", "")

		path := writeConfig(t, `
server:
  addr: ":9090"
analysis:
  scope: full
  workers: 2
rules:
  provider: gemini
  path: /etc/prscope/rules.md
  api_key: ${PRSCOPE_TEST_GEMINI_KEY}
  timeout: 30s
lint:
  tools: [bandit]
`)

		cfg, err := config.Load(path)

		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, float64(10), cfg.Server.RateLimit, "unset values keep defaults")
		assert.Equal(t, "full", cfg.Analysis.Scope)
		assert.Equal(t, 2, cfg.Analysis.Workers)
		assert.Equal(t, "g-key", cfg.Rules.APIKey)
		assert.Equal(t, 30*time.Second, cfg.Rules.Timeout)
		assert.Equal(t, []string{"bandit"}, cfg.Lint.Tools)
	})

	t.Run("reports validation errors by YAML path", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("RULES_PATH", "")
		t.Setenv("PDF_RULE_PATH", "")

		path := writeConfig(t, `
analysis:
  scope: everything
rules:
  provider: openai
`)

		_, err := config.Load(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "analysis.scope must be one of [diff_only contextual full]")
		assert.Contains(t, err.Error(), "rules.path is required")
		assert.Contains(t, err.Error(), "rules.api_key is required")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("malformed YAML", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(writeConfig(t, "server: [unclosed"))

		assert.ErrorContains(t, err, "failed to parse config file")
	})
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	t.Run("infers Azure OpenAI from environment", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		config.ApplyEnv(cfg, env(map[string]string{
			"OPENAI_API_KEY":        "sk-test",
			"AZURE_OPENAI_ENDPOINT": "https://example.openai.azure.com",
			"OPENAI_API_VERSION":    "2024-06-01",
			"PDF_RULE_PATH":         "rules.pdf.txt",
		}))

		assert.Equal(t, config.ProviderOpenAI, cfg.Rules.Provider)
		assert.Equal(t, "sk-test", cfg.Rules.APIKey)
		assert.Equal(t, "https://example.openai.azure.com", cfg.Rules.Endpoint)
		assert.Equal(t, "2024-06-01", cfg.Rules.APIVersion)
		assert.Equal(t, "rules.pdf.txt", cfg.Rules.Path)
		assert.NoError(t, config.Validate(cfg))
	})

	t.Run("infers Gemini from environment", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		config.ApplyEnv(cfg, env(map[string]string{"GEMINI_API_KEY": "g", "RULES_PATH": "rules.md"}))

		assert.Equal(t, config.ProviderGemini, cfg.Rules.Provider)
		assert.Equal(t, "g", cfg.Rules.APIKey)
		assert.Equal(t, "rules.md", cfg.Rules.Path)
	})

	t.Run("explicit provider is kept", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		cfg.Rules.Provider = config.ProviderNone
		config.ApplyEnv(cfg, env(map[string]string{"OPENAI_API_KEY": "sk-test"}))

		assert.Equal(t, config.ProviderNone, cfg.Rules.Provider)
		assert.Empty(t, cfg.Rules.APIKey)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"empty addr", func(c *config.Config) { c.Server.Addr = "" }, "server.addr is required"},
		{"zero workers", func(c *config.Config) { c.Analysis.Workers = 0 }, "analysis.workers failed gte=1"},
		{"unknown tool", func(c *config.Config) { c.Lint.Tools = []string{"eslint"} }, "lint.tools[0] must be one of [pylint bandit]"},
		{"zero lint timeout", func(c *config.Config) { c.Lint.Timeout = 0 }, "lint.timeout failed gt=0"},
		{"bad endpoint", func(c *config.Config) { c.Rules.Endpoint = "not a url" }, "rules.endpoint failed url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			cfg.Rules.Provider = config.ProviderNone
			tt.mutate(cfg)

			assert.ErrorContains(t, config.Validate(cfg), tt.want)
		})
	}
}
