package fs_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadLimited(t *testing.T) {
	t.Parallel()

	t.Run("reads input within limit", func(t *testing.T) {
		t.Parallel()

		got, err := fs.ReadLimited(strings.NewReader("abc"), prscope.FieldDiff, 3)

		require.NoError(t, err)
		assert.Equal(t, "abc", got)
	})

	t.Run("rejects input over limit", func(t *testing.T) {
		t.Parallel()

		_, err := fs.ReadLimited(strings.NewReader("abcdef"), prscope.FieldDiff, 3)

		assert.ErrorIs(t, err, prscope.ErrInputTooLarge)
	})

	t.Run("rejects invalid UTF-8", func(t *testing.T) {
		t.Parallel()

		_, err := fs.ReadLimited(strings.NewReader("a\xffb"), prscope.FieldCodebase, 10)

		assert.ErrorIs(t, err, prscope.ErrInvalidEncoding)
	})
}

func TestLoadRequest(t *testing.T) {
	t.Parallel()

	t.Run("diff only", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		diffPath := writeFile(t, dir, "pr.diff", "--- a/x.py\n+++ b/x.py\n+x\n")

		req, err := fs.LoadRequest(diffPath, "", prscope.ScopeDiffOnly)

		require.NoError(t, err)
		assert.Equal(t, "--- a/x.py\n+++ b/x.py\n+x\n", req.Diff)
		assert.Nil(t, req.Codebase)
		assert.Equal(t, prscope.ScopeDiffOnly, req.Scope)
	})

	t.Run("with codebase", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		diffPath := writeFile(t, dir, "pr.diff", "--- a/x.py\n")
		codebasePath := writeFile(t, dir, "codebase.txt", "=== FILE: x.py ===\nx = 1\n")

		req, err := fs.LoadRequest(diffPath, codebasePath, prscope.ScopeFull)

		require.NoError(t, err)
		require.NotNil(t, req.Codebase)
		assert.Equal(t, "=== FILE: x.py ===\nx = 1\n", *req.Codebase)
	})

	t.Run("missing diff file", func(t *testing.T) {
		t.Parallel()

		_, err := fs.LoadRequest(filepath.Join(t.TempDir(), "missing.diff"), "", prscope.ScopeDiffOnly)

		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("badly encoded codebase", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		diffPath := writeFile(t, dir, "pr.diff", "")
		codebasePath := writeFile(t, dir, "codebase.txt", "\xfe\xff")

		_, err := fs.LoadRequest(diffPath, codebasePath, prscope.ScopeFull)

		assert.ErrorIs(t, err, prscope.ErrInvalidEncoding)
	})
}

func TestReadFile_RejectsOversizedFileBeforeReading(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "big.diff", strings.Repeat("x", 64))

	_, err := fs.ReadFile(path, prscope.FieldDiff, 16)

	require.ErrorIs(t, err, prscope.ErrInputTooLarge)
	assert.Equal(t, "diff: 64 bytes exceeds limit of 16 bytes", err.Error())
}

func TestReadRules(t *testing.T) {
	t.Parallel()

	t.Run("no path", func(t *testing.T) {
		t.Parallel()

		_, err := fs.ReadRules("")

		assert.EqualError(t, err, "no rules document configured")
	})

	t.Run("plain text", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "rules.md", "R1: No secrets.\n")

		rules, err := fs.ReadRules(path)

		require.NoError(t, err)
		assert.Equal(t, "R1: No secrets.\n", rules)
	})

	t.Run("pdf by extension", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "rules.pdf", string(rulesPDF("No SQL in handlers")))

		rules, err := fs.ReadRules(path)

		require.NoError(t, err)
		assert.Equal(t, "No SQL in handlers", rules)
	})

	t.Run("pdf by header", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "rules", string(rulesPDF("Log no secrets")))

		rules, err := fs.ReadRules(path)

		require.NoError(t, err)
		assert.Equal(t, "Log no secrets", rules)
	})

	t.Run("damaged pdf", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "rules.pdf", "%PDF-1.4\nnot really a document\n")

		_, err := fs.ReadRules(path)

		assert.ErrorContains(t, err, "reading rules PDF")
	})

	t.Run("pdf without text", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "scan.pdf", string(rulesPDF("")))

		_, err := fs.ReadRules(path)

		assert.ErrorIs(t, err, fs.ErrNoPDFText)
	})

	t.Run("binary text file is rejected", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "rules.txt", "R1\xff")

		_, err := fs.ReadRules(path)

		assert.ErrorIs(t, err, prscope.ErrInvalidEncoding)
	})
}

// rulesPDF builds a one-page PDF whose content stream shows text in a
// WinAnsi-encoded Helvetica font.
func rulesPDF(text string) []byte {
	content := "BT /F1 12 Tf 72 720 Td ET"
	if text != "" {
		content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	}
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
