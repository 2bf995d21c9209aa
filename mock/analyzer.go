package mock

import (
	"context"

	"github.com/fwojciec/prscope"
)

// Compile-time interface verification.
var (
	_ prscope.StaticAnalyzer = (*StaticAnalyzer)(nil)
	_ prscope.RuleChecker    = (*RuleChecker)(nil)
	_ prscope.RuleModel      = (*RuleModel)(nil)
)

// StaticAnalyzer is a mock implementation of prscope.StaticAnalyzer.
type StaticAnalyzer struct {
	AnalyzeFn func(ctx context.Context, source string) string
}

func (a *StaticAnalyzer) Analyze(ctx context.Context, source string) string {
	return a.AnalyzeFn(ctx, source)
}

// RuleChecker is a mock implementation of prscope.RuleChecker.
type RuleChecker struct {
	CheckFn func(ctx context.Context, query string) string
}

func (c *RuleChecker) Check(ctx context.Context, query string) string {
	return c.CheckFn(ctx, query)
}

// RuleModel is a mock implementation of prscope.RuleModel.
type RuleModel struct {
	AnswerFn func(ctx context.Context, query string) (string, error)
}

func (m *RuleModel) Answer(ctx context.Context, query string) (string, error) {
	return m.AnswerFn(ctx, query)
}

var _ prscope.Reviewer = (*Reviewer)(nil)

// Reviewer is a mock implementation of prscope.Reviewer.
type Reviewer struct {
	AnalyzeFn func(ctx context.Context, req prscope.Request) (*prscope.Report, error)
}

func (r *Reviewer) Analyze(ctx context.Context, req prscope.Request) (*prscope.Report, error) {
	return r.AnalyzeFn(ctx, req)
}
