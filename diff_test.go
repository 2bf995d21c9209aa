package prscope_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiff(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields empty change set", func(t *testing.T) {
		t.Parallel()

		cs := prscope.ParseDiff("")

		assert.Equal(t, 0, cs.Len())
		assert.Empty(t, cs.Records())
	})

	t.Run("input without headers yields empty change set", func(t *testing.T) {
		t.Parallel()

		cs := prscope.ParseDiff("+added\n-removed\n@@ -1 +1 @@\n context\n")

		assert.Equal(t, 0, cs.Len())
	})

	t.Run("single file with one hunk", func(t *testing.T) {
		t.Parallel()

		input := `diff --git a/src/main.py b/src/main.py
index 1234567..abcdefg 100644
--- a/src/main.py
+++ b/src/main.py
@@ -1,4 +1,6 @@ def main():
 import os
-x = 1
+x = 2
+y = 3
+z = 4
 print(x)
`
		cs := prscope.ParseDiff(input)

		require.Equal(t, []string{"src/main.py"}, cs.Paths())
		r, ok := cs.Get("src/main.py")
		require.True(t, ok)
		assert.Equal(t, "src/main.py", r.FilePath)
		assert.Equal(t, []string{"-x = 1", "+x = 2", "+y = 3", "+z = 4"}, r.ChangedLines)
		assert.Equal(t, []string{"@@ -1,4 +1,6 @@ def main():"}, r.HunkHeaders)
	})

	t.Run("header pair does not duplicate or lose lines", func(t *testing.T) {
		t.Parallel()

		input := `--- a/a.py
+++ b/a.py
@@ -1 +1 @@
-old
+new
--- a/b.py
+++ b/b.py
@@ -1 +1,2 @@
+first
+second
`
		cs := prscope.ParseDiff(input)

		require.Equal(t, []string{"a.py", "b.py"}, cs.Paths())
		a, _ := cs.Get("a.py")
		b, _ := cs.Get("b.py")
		assert.Equal(t, []string{"-old", "+new"}, a.ChangedLines)
		assert.Equal(t, []string{"+first", "+second"}, b.ChangedLines)
	})

	t.Run("repeated path appends to existing record", func(t *testing.T) {
		t.Parallel()

		input := `--- a/a.py
+++ b/a.py
@@ -1 +1 @@
-one
--- a/a.py
+++ b/a.py
@@ -9 +9 @@
+two
`
		cs := prscope.ParseDiff(input)

		require.Equal(t, 1, cs.Len())
		r, _ := cs.Get("a.py")
		assert.Equal(t, []string{"-one", "+two"}, r.ChangedLines)
		assert.Equal(t, []string{"@@ -1 +1 @@", "@@ -9 +9 @@"}, r.HunkHeaders)
	})

	t.Run("paths are matched case-sensitively", func(t *testing.T) {
		t.Parallel()

		input := "--- a/File.py\n+++ b/File.py\n+x\n--- a/file.py\n+++ b/file.py\n+y\n"

		cs := prscope.ParseDiff(input)

		assert.Equal(t, []string{"File.py", "file.py"}, cs.Paths())
	})

	t.Run("dev null headers do not become paths", func(t *testing.T) {
		t.Parallel()

		input := `--- /dev/null
+++ b/new.py
@@ -0,0 +1,2 @@
+import os
+print(os.name)
`
		cs := prscope.ParseDiff(input)

		require.Equal(t, []string{"new.py"}, cs.Paths())
		r, _ := cs.Get("new.py")
		assert.Equal(t, []string{"+import os", "+print(os.name)"}, r.ChangedLines)
	})

	t.Run("context only diff yields zero changed lines", func(t *testing.T) {
		t.Parallel()

		input := "--- a/a.py\n+++ b/a.py\n@@ -1,2 +1,2 @@\n line one\n line two\n"

		cs := prscope.ParseDiff(input)

		r, ok := cs.Get("a.py")
		require.True(t, ok)
		assert.Empty(t, r.ChangedLines)
		assert.Len(t, r.HunkHeaders, 1)
	})

	t.Run("handles CRLF line endings", func(t *testing.T) {
		t.Parallel()

		input := "--- a/a.py\r\n+++ b/a.py\r\n+x\r\n"

		cs := prscope.ParseDiff(input)

		r, ok := cs.Get("a.py")
		require.True(t, ok)
		assert.Equal(t, []string{"+x"}, r.ChangedLines)
	})

	t.Run("changed lines always carry a marker", func(t *testing.T) {
		t.Parallel()

		input := `--- a/a.py
+++ b/a.py
@@ -1,3 +1,3 @@
 keep
-drop
+add
\ No newline at end of file
--- a/b.py
+++ b/b.py
+++ not a header because it has no b/ prefix
-- double dash content
`
		cs := prscope.ParseDiff(input)

		for _, r := range cs.Records() {
			assert.NotEmpty(t, r.FilePath)
			for _, l := range r.ChangedLines {
				assert.True(t, strings.HasPrefix(l, "+") || strings.HasPrefix(l, "-"), l)
			}
			for _, h := range r.HunkHeaders {
				assert.True(t, strings.HasPrefix(h, "@@"), h)
			}
		}
		b, _ := cs.Get("b.py")
		assert.Equal(t, []string{"-- double dash content"}, b.ChangedLines)
	})
}

func TestChangeSet_PathsReturnsCopy(t *testing.T) {
	t.Parallel()

	cs := prscope.ParseDiff("--- a/a.py\n+++ b/a.py\n+x\n")

	paths := cs.Paths()
	paths[0] = "mutated"

	assert.Equal(t, []string{"a.py"}, cs.Paths())
}
