// Package openai answers rule-compliance queries with OpenAI or Azure
// OpenAI chat completions.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/prscope"
	goopenai "github.com/sashabaranov/go-openai"
)

// Compile-time interface verification.
var _ prscope.RuleModel = (*RuleModel)(nil)

// Defaults for rule checks.
const (
	DefaultModel           = "gpt-4o-mini"
	DefaultAzureDeployment = "analysis"
	DefaultTimeout         = 60 * time.Second
)

// ErrNoChoices is returned when the API answers without any choice.
var ErrNoChoices = errors.New("openai: returned no choices")

// ChatClient abstracts the chat completion API for testing.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Config selects the OpenAI endpoint.
type Config struct {
	APIKey     string
	Endpoint   string // Azure endpoint; empty for api.openai.com
	APIVersion string // Azure API version
	Deployment string // Azure deployment serving Model
}

// NewClient creates a chat client for cfg. A non-empty Endpoint selects
// Azure OpenAI, where every model name maps to cfg.Deployment.
func NewClient(cfg Config) *goopenai.Client {
	if cfg.Endpoint == "" {
		return goopenai.NewClient(cfg.APIKey)
	}
	c := goopenai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	if cfg.APIVersion != "" {
		c.APIVersion = cfg.APIVersion
	}
	deployment := cfg.Deployment
	if deployment == "" {
		deployment = DefaultAzureDeployment
	}
	c.AzureModelMapperFunc = func(model string) string {
		return deployment
	}
	return goopenai.NewClientWithConfig(c)
}

// RuleModel implements prscope.RuleModel with chat completions.
type RuleModel struct {
	client  ChatClient
	model   string
	rules   string
	timeout time.Duration
}

// Option configures a RuleModel.
type Option func(*RuleModel)

// WithTimeout sets the timeout for API calls. Non-positive values keep
// DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(m *RuleModel) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// NewRuleModel creates a RuleModel that checks queries against rules.
func NewRuleModel(client ChatClient, model, rules string, opts ...Option) *RuleModel {
	m := &RuleModel{
		client:  client,
		model:   model,
		rules:   rules,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Answer asks the model whether the query violates the rules.
func (m *RuleModel) Answer(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	req := goopenai.ChatCompletionRequest{
		Model: m.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: SystemPrompt(m.rules)},
			{Role: goopenai.ChatMessageRoleUser, Content: query},
		},
		Temperature: 0,
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// SystemPrompt returns the system message for a rules document.
func SystemPrompt(rules string) string {
	return "You review pull request diffs for compliance with the enterprise rules below. " +
		"Answer only from these rules. Name each violated rule and the offending change, " +
		"or state that no rules are violated.\n\n<rules>\n" + strings.TrimSpace(rules) + "\n</rules>"
}
