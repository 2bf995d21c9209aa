package lint_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/lint"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner records invocations and answers from RunFn.
type stubRunner struct {
	mu    sync.Mutex
	calls []string
	files map[string]string
	RunFn func(ctx context.Context, name string, args ...string) (string, error)
}

func (s *stubRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	if s.files == nil {
		s.files = make(map[string]string)
	}
	if len(args) == 1 {
		data, _ := os.ReadFile(args[0])
		s.files[args[0]] = string(data)
	}
	s.mu.Unlock()
	return s.RunFn(ctx, name, args...)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("runs pylint and bandit on python source", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		runner := &stubRunner{RunFn: func(ctx context.Context, name string, args ...string) (string, error) {
			return "  " + name + " report\n", nil
		}}
		a := lint.NewAnalyzer(lint.WithRunner(runner), lint.WithTempDir(dir), lint.WithLogger(quietLogger()))

		out := a.Analyze(context.Background(), "+import os\n+print(os.name)")

		assert.Equal(t, "Detected language: python.\npylint report\nbandit report", out)
		assert.Equal(t, []string{"pylint", "bandit"}, runner.calls)
		for path, content := range runner.files {
			assert.Equal(t, ".py", filepath.Ext(path))
			assert.Equal(t, "+import os\n+print(os.name)", content)
		}
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "temporary files must be removed")
	})

	t.Run("empty tool output means no issues", func(t *testing.T) {
		t.Parallel()

		runner := &stubRunner{RunFn: func(ctx context.Context, name string, args ...string) (string, error) {
			return "\n", nil
		}}
		a := lint.NewAnalyzer(lint.WithRunner(runner), lint.WithTempDir(t.TempDir()), lint.WithLogger(quietLogger()))

		out := a.Analyze(context.Background(), "def f(): pass")

		assert.Equal(t, "Detected language: python.\n"+lint.NoIssues, out)
	})

	t.Run("tool failure is reported inline", func(t *testing.T) {
		t.Parallel()

		runner := &stubRunner{RunFn: func(ctx context.Context, name string, args ...string) (string, error) {
			if name == "pylint" {
				return "", errors.New(`exec: "pylint": executable file not found in $PATH`)
			}
			return "", nil
		}}
		a := lint.NewAnalyzer(lint.WithRunner(runner), lint.WithTempDir(t.TempDir()), lint.WithLogger(quietLogger()))

		out := a.Analyze(context.Background(), "import os")

		assert.Equal(t, "Detected language: python.\nPylint failed: exec: \"pylint\": executable file not found in $PATH", out)
	})

	t.Run("languages without tools run nothing", func(t *testing.T) {
		t.Parallel()

		runner := &stubRunner{RunFn: func(ctx context.Context, name string, args ...string) (string, error) {
			t.Fatalf("unexpected call to %s", name)
			return "", nil
		}}
		a := lint.NewAnalyzer(lint.WithRunner(runner), lint.WithLogger(quietLogger()))

		assert.Equal(t, "Detected language: java.\n"+lint.NoIssues, a.Analyze(context.Background(), "public class Main {}"))
		assert.Equal(t, "Detected language: unknown.\n"+lint.NoIssues, a.Analyze(context.Background(), "SELECT 1;"))
	})

	t.Run("tools are configurable per language", func(t *testing.T) {
		t.Parallel()

		runner := &stubRunner{RunFn: func(ctx context.Context, name string, args ...string) (string, error) {
			return name, nil
		}}
		a := lint.NewAnalyzer(
			lint.WithRunner(runner),
			lint.WithTempDir(t.TempDir()),
			lint.WithTools(prscope.LanguagePython, lint.Bandit),
			lint.WithLogger(quietLogger()),
		)

		assert.Equal(t, "Detected language: python.\nbandit", a.Analyze(context.Background(), "import os"))
	})

	t.Run("each tool runs with a deadline", func(t *testing.T) {
		t.Parallel()

		runner := &stubRunner{RunFn: func(ctx context.Context, name string, args ...string) (string, error) {
			deadline, ok := ctx.Deadline()
			if !ok || time.Until(deadline) > time.Second {
				return "", errors.New("missing deadline")
			}
			<-ctx.Done()
			return "", ctx.Err()
		}}
		a := lint.NewAnalyzer(
			lint.WithRunner(runner),
			lint.WithTempDir(t.TempDir()),
			lint.WithTimeout(10*time.Millisecond),
			lint.WithLogger(quietLogger()),
		)

		out := a.Analyze(context.Background(), "import os")

		assert.True(t, strings.HasPrefix(out, "Detected language: python.\nPylint failed: context deadline exceeded"), out)
		assert.Contains(t, out, "Bandit failed: context deadline exceeded")
	})

	t.Run("unusable temp dir is reported inline", func(t *testing.T) {
		t.Parallel()

		runner := &stubRunner{RunFn: func(ctx context.Context, name string, args ...string) (string, error) {
			return "", nil
		}}
		missing := filepath.Join(t.TempDir(), "does", "not", "exist")
		a := lint.NewAnalyzer(lint.WithRunner(runner), lint.WithTempDir(missing), lint.WithLogger(quietLogger()))

		out := a.Analyze(context.Background(), "import os")

		assert.Contains(t, out, "Pylint failed: creating temp file")
		assert.Empty(t, runner.calls)
	})
}

func TestToolByName(t *testing.T) {
	t.Parallel()

	tool, ok := lint.ToolByName("bandit")
	assert.True(t, ok)
	assert.Equal(t, lint.Bandit, tool)

	_, ok = lint.ToolByName("eslint")
	assert.False(t, ok)
}

func TestExecRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("non-zero exit keeps output", func(t *testing.T) {
		t.Parallel()

		out, err := lint.ExecRunner{}.Run(context.Background(), "sh", "-c", "echo finding; exit 4")

		require.NoError(t, err)
		assert.Equal(t, "finding\n", out)
	})

	t.Run("missing executable is an error", func(t *testing.T) {
		t.Parallel()

		_, err := lint.ExecRunner{}.Run(context.Background(), "prscope-no-such-linter")

		assert.Error(t, err)
	})
}
