package mock

import (
	"context"

	"github.com/fwojciec/prscope"
)

// Compile-time interface verification.
var _ prscope.GitRunner = (*GitRunner)(nil)

// GitRunner is a mock implementation of prscope.GitRunner.
type GitRunner struct {
	DiffFn  func(ctx context.Context, repoPath, revRange string) (string, error)
	FilesFn func(ctx context.Context, repoPath, rev string) ([]string, error)
	ShowFn  func(ctx context.Context, repoPath, rev, path string) (string, error)
}

func (g *GitRunner) Diff(ctx context.Context, repoPath, revRange string) (string, error) {
	return g.DiffFn(ctx, repoPath, revRange)
}

func (g *GitRunner) Files(ctx context.Context, repoPath, rev string) ([]string, error) {
	return g.FilesFn(ctx, repoPath, rev)
}

func (g *GitRunner) Show(ctx context.Context, repoPath, rev, path string) (string, error) {
	return g.ShowFn(ctx, repoPath, rev, path)
}
