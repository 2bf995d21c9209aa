// Package git provides access to git operations via shell commands.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fwojciec/prscope"
)

// Compile-time interface verification.
var _ prscope.GitRunner = (*Runner)(nil)

// Runner executes git commands via shell.
type Runner struct{}

// NewRunner creates a new git runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Diff returns the unified diff for revRange, e.g. "main...feature".
func (r *Runner) Diff(ctx context.Context, repoPath, revRange string) (string, error) {
	return r.run(ctx, "diff", repoPath, "diff", "--no-color", "--no-ext-diff", revRange)
}

// Files returns the paths tracked at rev.
func (r *Runner) Files(ctx context.Context, repoPath, rev string) ([]string, error) {
	output, err := r.run(ctx, "ls-tree", repoPath, "ls-tree", "-r", "--name-only", rev)
	if err != nil {
		return nil, err
	}

	// Filter empty lines
	var paths []string
	for _, line := range strings.Split(output, "\n") {
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

// Show returns the content of path at rev.
func (r *Runner) Show(ctx context.Context, repoPath, rev, path string) (string, error) {
	return r.run(ctx, "show", repoPath, "show", rev+":"+path)
}

func (r *Runner) run(ctx context.Context, name, repoPath string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", repoPath}, args...)...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s failed: %s", name, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s failed: %w", name, err)
	}
	return string(output), nil
}

// Codebase builds a snapshot blob of the files tracked at rev for which
// include returns true. A nil include keeps every file. The blob uses the
// "=== FILE: <path> ===" section format and is bounded by
// prscope.MaxCodebaseSize.
func Codebase(ctx context.Context, runner prscope.GitRunner, repoPath, rev string, include func(path string) bool) (string, error) {
	paths, err := runner.Files(ctx, repoPath, rev)
	if err != nil {
		return "", err
	}

	var kept []string
	contents := make(map[string]string)
	size := 0
	for _, p := range paths {
		if include != nil && !include(p) {
			continue
		}
		content, err := runner.Show(ctx, repoPath, rev, p)
		if err != nil {
			return "", err
		}
		size += len(content) + len(p)
		if size > prscope.MaxCodebaseSize {
			return "", &prscope.InputError{Field: prscope.FieldCodebase, Size: size, Limit: prscope.MaxCodebaseSize, Err: prscope.ErrInputTooLarge}
		}
		kept = append(kept, p)
		contents[p] = strings.TrimSuffix(content, "\n")
	}

	return prscope.FormatSnapshot(prscope.NewSnapshot(kept, contents)), nil
}

// HeadRev returns the revision holding the changes of revRange: the part
// after "..." or "..", or HEAD when revRange names a single base revision.
func HeadRev(revRange string) string {
	for _, sep := range []string{"...", ".."} {
		if i := strings.Index(revRange, sep); i >= 0 {
			head := revRange[i+len(sep):]
			if head == "" {
				return "HEAD"
			}
			return head
		}
	}
	return "HEAD"
}
