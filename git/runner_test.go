package git_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/git"
	"github.com/fwojciec/prscope/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRepo creates a temporary git repository with a known history for testing.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	// Initialize repo with "main" as default branch
	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	writeFile(t, dir, "src/main.py", "import os\n")
	writeFile(t, dir, "src/utils.py", "from src.main import run\n")
	writeFile(t, dir, "README.md", "# Test Repo\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	return dir
}

// runGit executes a git command in the given directory.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "command git %v failed: %s", args, string(output))
	return string(output)
}

// writeFile creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunner_Diff(t *testing.T) {
	t.Parallel()

	t.Run("returns diff between base and head", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		runGit(t, dir, "checkout", "-b", "feature")
		writeFile(t, dir, "src/main.py", "import os\nimport sys\n")
		runGit(t, dir, "add", ".")
		runGit(t, dir, "commit", "-m", "Import sys")

		diff, err := git.NewRunner().Diff(context.Background(), dir, "main...feature")

		require.NoError(t, err)
		changes := prscope.ParseDiff(diff)
		require.Equal(t, []string{"src/main.py"}, changes.Paths())
		r, _ := changes.Get("src/main.py")
		assert.Equal(t, []string{"+import sys"}, r.ChangedLines)
	})

	t.Run("returns empty diff when no changes", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		diff, err := git.NewRunner().Diff(context.Background(), dir, "main...main")

		require.NoError(t, err)
		assert.Empty(t, diff)
	})

	t.Run("reports unknown revisions", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		_, err := git.NewRunner().Diff(context.Background(), dir, "main...nope")

		assert.ErrorContains(t, err, "git diff failed")
	})
}

func TestRunner_FilesAndShow(t *testing.T) {
	t.Parallel()
	dir := setupTestRepo(t)
	runner := git.NewRunner()

	files, err := runner.Files(context.Background(), dir, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "src/main.py", "src/utils.py"}, files)

	content, err := runner.Show(context.Background(), dir, "main", "src/utils.py")
	require.NoError(t, err)
	assert.Equal(t, "from src.main import run\n", content)
}

func TestCodebase(t *testing.T) {
	t.Parallel()

	t.Run("builds a parseable snapshot from a repository", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		blob, err := git.Codebase(context.Background(), git.NewRunner(), dir, "main", func(p string) bool {
			return strings.HasSuffix(p, ".py")
		})

		require.NoError(t, err)
		snapshot := prscope.ParseSnapshot(blob)
		assert.Equal(t, []string{"src/main.py", "src/utils.py"}, snapshot.Paths())
		assert.Equal(t, []string{"src/utils.py"}, prscope.FindCrossReferences("src/main.py", snapshot))
	})

	t.Run("propagates runner errors", func(t *testing.T) {
		t.Parallel()

		runner := &mock.GitRunner{
			FilesFn: func(ctx context.Context, repoPath, rev string) ([]string, error) {
				return []string{"a.py"}, nil
			},
			ShowFn: func(ctx context.Context, repoPath, rev, path string) (string, error) {
				return "", errors.New("git show failed: bad object")
			},
		}

		_, err := git.Codebase(context.Background(), runner, "/repo", "HEAD", nil)

		assert.EqualError(t, err, "git show failed: bad object")
	})
}

func TestHeadRev(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "feature", git.HeadRev("main...feature"))
	assert.Equal(t, "feature", git.HeadRev("main..feature"))
	assert.Equal(t, "HEAD", git.HeadRev("main..."))
	assert.Equal(t, "HEAD", git.HeadRev("abc123"))
}
