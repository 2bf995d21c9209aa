package gitdiff_test

import (
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/gitdiff"
	"github.com/stretchr/testify/assert"
)

func TestDetector_DetectOperations_EmptyInput(t *testing.T) {
	t.Parallel()

	d := gitdiff.NewDetector()

	assert.Empty(t, d.DetectOperations(""))
}

func TestDetector_DetectOperations_ModifiedFile(t *testing.T) {
	t.Parallel()

	input := `diff --git a/main.go b/main.go
index 1234567..abcdefg 100644
--- a/main.go
+++ b/main.go
@@ -1,5 +1,6 @@ package main
 package main

 func main() {
-	println("hello")
+	println("hello world")
+	println("goodbye")
 }
`

	ops := gitdiff.NewDetector().DetectOperations(input)

	assert.Equal(t, map[string]prscope.FileOp{"main.go": prscope.FileModified}, ops)
}

func TestDetector_DetectOperations_AddedFile(t *testing.T) {
	t.Parallel()

	input := `diff --git a/new.go b/new.go
new file mode 100644
index 0000000..1234567
--- /dev/null
+++ b/new.go
@@ -0,0 +1,3 @@
+package main
+
+func hello() {}
`

	ops := gitdiff.NewDetector().DetectOperations(input)

	assert.Equal(t, prscope.FileAdded, ops["new.go"])
}

func TestDetector_DetectOperations_DeletedFile(t *testing.T) {
	t.Parallel()

	input := `diff --git a/old.go b/old.go
deleted file mode 100644
index 1234567..0000000
--- a/old.go
+++ /dev/null
@@ -1,2 +0,0 @@
-package main
-
`

	ops := gitdiff.NewDetector().DetectOperations(input)

	assert.Equal(t, prscope.FileDeleted, ops["old.go"])
}

func TestDetector_DetectOperations_RenamedAndCopiedFiles(t *testing.T) {
	t.Parallel()

	input := `diff --git a/old.go b/new.go
similarity index 100%
rename from old.go
rename to new.go
diff --git a/original.go b/copy.go
similarity index 100%
copy from original.go
copy to copy.go
`

	ops := gitdiff.NewDetector().DetectOperations(input)

	assert.Equal(t, prscope.FileRenamed, ops["new.go"])
	assert.Equal(t, prscope.FileRenamed, ops["old.go"])
	assert.Equal(t, prscope.FileCopied, ops["copy.go"])
}

func TestDetector_DetectOperations_MultipleFiles(t *testing.T) {
	t.Parallel()

	input := `diff --git a/a.go b/a.go
index 1234567..abcdefg 100644
--- a/a.go
+++ b/a.go
@@ -1 +1 @@
-old
+new
diff --git a/b.go b/b.go
new file mode 100644
index 0000000..1234567
--- /dev/null
+++ b/b.go
@@ -0,0 +1 @@
+content
`

	ops := gitdiff.NewDetector().DetectOperations(input)

	assert.Len(t, ops, 2)
	assert.Equal(t, prscope.FileModified, ops["a.go"])
	assert.Equal(t, prscope.FileAdded, ops["b.go"])
}

func TestDetector_DetectOperations_MalformedInput(t *testing.T) {
	t.Parallel()

	// go-gitdiff returns error for malformed git headers
	input := `diff --git a/file.go
@@ -1,1 +1,1 @@ incomplete header
`

	ops := gitdiff.NewDetector().DetectOperations(input)

	assert.Empty(t, ops)
}

func TestDetector_KeysMatchParseDiff(t *testing.T) {
	t.Parallel()

	input := `diff --git a/src/app.py b/src/app.py
index 1234567..abcdefg 100644
--- a/src/app.py
+++ b/src/app.py
@@ -1 +1 @@
-x = 1
+x = 2
`

	ops := gitdiff.NewDetector().DetectOperations(input)
	changes := prscope.ParseDiff(input)

	for _, path := range changes.Paths() {
		_, ok := ops[path]
		assert.True(t, ok, "missing operation for %s", path)
	}
}
