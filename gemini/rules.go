package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/prscope"
)

// Compile-time interface verification.
var _ prscope.RuleModel = (*RuleModel)(nil)

// DefaultTimeout is the default timeout for a single rule check.
const DefaultTimeout = 60 * time.Second

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("gemini: empty response")

// RuleModel implements prscope.RuleModel using Google Gemini. The rules
// document is sent as the system instruction of every request.
type RuleModel struct {
	gen     Generator
	model   string
	rules   string
	timeout time.Duration
}

// RuleModelOption configures a RuleModel.
type RuleModelOption func(*RuleModel)

// WithTimeout sets the timeout for API calls. Non-positive values keep
// DefaultTimeout.
func WithTimeout(d time.Duration) RuleModelOption {
	return func(m *RuleModel) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// NewRuleModel creates a RuleModel that checks queries against rules.
func NewRuleModel(gen Generator, model, rules string, opts ...RuleModelOption) *RuleModel {
	m := &RuleModel{
		gen:     gen,
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

	text, err := m.gen.Generate(ctx, RulesPrompt(m.model, m.rules, query))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	answer := strings.TrimSpace(text)
	if answer == "" {
		return "", ErrEmptyResponse
	}
	return answer, nil
}

// BuildRulesInstruction returns the system instruction for a rules document.
func BuildRulesInstruction(rules string) string {
	var sb strings.Builder
	sb.WriteString("You review pull request diffs for compliance with the enterprise rules below.\n")
	sb.WriteString("Answer only from these rules. Name each violated rule and the offending change, ")
	sb.WriteString("or state that no rules are violated.\n\n")
	sb.WriteString("<rules>\n")
	sb.WriteString(strings.TrimSpace(rules))
	sb.WriteString("\n</rules>")
	return sb.String()
}

// RulesPrompt returns the deterministic prompt checking query against rules.
func RulesPrompt(model, rules, query string) Prompt {
	return Prompt{
		Model:    model,
		System:   BuildRulesInstruction(rules),
		User:     query,
		Thinking: "LOW",
	}
}
