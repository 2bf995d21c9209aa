package jsonl_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/jsonl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	t.Run("loads valid JSONL file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "cases.jsonl")
		content := `{"id":"pr-1","diff":"--- a/x.py\n+++ b/x.py\n+x\n","analysis_scope":"full","codebase":"=== FILE: x.py ===\n"}

{"diff":"--- a/y.py\n"}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cases, err := jsonl.NewLoader().Load(path)

		require.NoError(t, err)
		require.Len(t, cases, 2)
		assert.Equal(t, "pr-1", cases[0].ID)
		assert.Equal(t, prscope.ScopeFull, cases[0].Scope)
		assert.Equal(t, "--- a/x.py\n+++ b/x.py\n+x\n", cases[0].Diff)
		require.NotNil(t, cases[0].Codebase)
		assert.Equal(t, "=== FILE: x.py ===\n", *cases[0].Codebase)

		assert.Equal(t, "line-3", cases[1].ID)
		assert.Equal(t, prscope.ScopeDiffOnly, cases[1].Scope)
		assert.Nil(t, cases[1].Codebase)
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		t.Parallel()

		_, err := jsonl.NewLoader().Load("/nonexistent/path.jsonl")

		assert.Error(t, err)
	})

	t.Run("returns error for malformed JSON line", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "bad.jsonl")
		require.NoError(t, os.WriteFile(path, []byte("{\"diff\":\"\"}\n{not json}\n"), 0o644))

		_, err := jsonl.NewLoader().Load(path)

		assert.ErrorContains(t, err, "line 2")
	})
}
