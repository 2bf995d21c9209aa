package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/bubbletea"
	"github.com/fwojciec/prscope/chroma"
	"github.com/fwojciec/prscope/clipboard"
	"github.com/fwojciec/prscope/config"
	"github.com/fwojciec/prscope/fs"
	"github.com/fwojciec/prscope/gemini"
	"github.com/fwojciec/prscope/git"
	"github.com/fwojciec/prscope/gitdiff"
	prhttp "github.com/fwojciec/prscope/http"
	"github.com/fwojciec/prscope/jsonl"
	"github.com/fwojciec/prscope/lint"
	"github.com/fwojciec/prscope/lipgloss"
	"github.com/fwojciec/prscope/openai"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"
)

// newContainer registers every component, bottom-up: config and logger,
// then collaborators, then the analyzer and its outer surfaces.
func newContainer(cfg *config.Config, log logrus.FieldLogger) (*dig.Container, error) {
	container := dig.New()

	providers := []any{
		func() *config.Config { return cfg },
		func() logrus.FieldLogger { return log },
		newRuleChecker,
		newStaticAnalyzer,
		newReviewer,
		newServer,
		func() prscope.GitRunner { return git.NewRunner() },
		func() prscope.BatchLoader { return jsonl.NewLoader() },
		func() prscope.ReportFormatter { return &prscope.DefaultFormatter{} },
		func() prscope.ReportViewer { return bubbletea.NewViewer(lipgloss.DefaultTheme(), bubbletea.WithClipboard(clipboard.NewSystem())) },
	}
	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return nil, err
		}
	}
	return container, nil
}

// newRuleChecker returns nil when rule checking is disabled; the analyzer
// reports the missing checker inline.
func newRuleChecker(cfg *config.Config) prscope.RuleChecker {
	factory := ruleModelFactory(cfg.Rules)
	if factory == nil {
		return nil
	}
	return prscope.NewRuleService(factory)
}

// ruleModelFactory builds the rule model for the configured provider. The
// rules document is read and the client created on first use only.
func ruleModelFactory(cfg config.RulesConfig) prscope.RuleModelFactory {
	switch cfg.Provider {
	case config.ProviderGemini:
		return func(ctx context.Context) (prscope.RuleModel, error) {
			rules, err := fs.ReadRules(cfg.Path)
			if err != nil {
				return nil, err
			}
			client, err := gemini.NewClient(ctx, cfg.APIKey)
			if err != nil {
				return nil, fmt.Errorf("failed to create Gemini client: %w", err)
			}
			model := cfg.Model
			if model == "" {
				model = gemini.DefaultModel
			}
			return gemini.NewRuleModel(client, model, rules, gemini.WithTimeout(cfg.Timeout)), nil
		}
	case config.ProviderOpenAI:
		return func(ctx context.Context) (prscope.RuleModel, error) {
			rules, err := fs.ReadRules(cfg.Path)
			if err != nil {
				return nil, err
			}
			client := openai.NewClient(openai.Config{
				APIKey:     cfg.APIKey,
				Endpoint:   cfg.Endpoint,
				APIVersion: cfg.APIVersion,
				Deployment: cfg.Deployment,
			})
			model := cfg.Model
			if model == "" {
				model = openai.DefaultModel
			}
			return openai.NewRuleModel(client, model, rules, openai.WithTimeout(cfg.Timeout)), nil
		}
	default:
		return nil
	}
}

func newStaticAnalyzer(cfg *config.Config, log logrus.FieldLogger) (prscope.StaticAnalyzer, error) {
	tools := make([]lint.Tool, 0, len(cfg.Lint.Tools))
	for _, name := range cfg.Lint.Tools {
		tool, ok := lint.ToolByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown lint tool %q", name)
		}
		tools = append(tools, tool)
	}
	return lint.NewAnalyzer(
		lint.WithTools(prscope.LanguagePython, tools...),
		lint.WithTimeout(cfg.Lint.Timeout),
		lint.WithLogger(log),
	), nil
}

func newReviewer(cfg *config.Config, static prscope.StaticAnalyzer, rules prscope.RuleChecker, log logrus.FieldLogger) prscope.Reviewer {
	return prscope.NewAnalyzer(static, rules,
		prscope.WithOperationDetector(gitdiff.NewDetector()),
		prscope.WithLanguageDetector(chroma.NewDetector()),
		prscope.WithLogger(log),
		prscope.WithWorkers(cfg.Analysis.Workers),
	)
}

func newServer(cfg *config.Config, reviewer prscope.Reviewer, log logrus.FieldLogger) *prhttp.Server {
	s := prhttp.NewServer(reviewer,
		prhttp.WithLogger(log),
		prhttp.WithRateLimit(cfg.Server.RateLimit, cfg.Server.Burst),
	)
	s.Addr = cfg.Server.Addr
	return s
}
