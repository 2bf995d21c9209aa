from src.main import run
`
		s := prscope.ParseSnapshot(blob)

		require.Equal(t, []string{"src/main.py", "src/utils.py"}, s.Paths())
		main, ok := s.Content("src/main.py")
		require.True(t, ok)
		assert.Equal(t, "import os\nprint(os.name)", main)
		utils, _ := s.Content("src/utils.py")
		assert.Equal(t, "from src.main import run", utils)
	})

	t.Run("declared path without content maps to empty string", func(t *testing.T) {
		t.Parallel()

		s := prscope.ParseSnapshot("=== FILE: empty.py ===\n=== FILE: other.py ===\nx = 1\n")

		content, ok := s.Content("empty.py")
		assert.True(t, ok)
		assert.Equal(t, "", content)
		assert.Equal(t, 2, s.Len())
	})

	t.Run("content before first marker is ignored", func(t *testing.T) {
		t.Parallel()

		s := prscope.ParseSnapshot("preamble\n=== FILE: a.py ===\nbody\n")

		assert.Equal(t, []string{"a.py"}, s.Paths())
		content, _ := s.Content("a.py")
		assert.Equal(t, "body", content)
	})

	t.Run("redeclared path keeps first position and last content", func(t *testing.T) {
		t.Parallel()

		blob := "=== FILE: a.py ===\nfirst\n=== FILE: b.py ===\nb\n=== FILE: a.py ===\nsecond\n"

		s := prscope.ParseSnapshot(blob)

		assert.Equal(t, []string{"a.py", "b.py"}, s.Paths())
		content, _ := s.Content("a.py")
		assert.Equal(t, "second", content)
	})

	t.Run("marker with empty path is content", func(t *testing.T) {
		t.Parallel()

		s := prscope.ParseSnapshot("=== FILE: a.py ===\n=== FILE:  ===\n")

		content, _ := s.Content("a.py")
		assert.Equal(t, "=== FILE:  ===", content)
	})

	t.Run("indented marker is content", func(t *testing.T) {
		t.Parallel()

		s := prscope.ParseSnapshot("=== FILE: a.py ===\n  === FILE: b.py ===  \nx\n")

		assert.Equal(t, []string{"a.py"}, s.Paths())
		content, _ := s.Content("a.py")
		assert.Equal(t, "  === FILE: b.py ===  \nx", content)
		_, ok := s.Content("b.py")
		assert.False(t, ok)
	})
}

func TestSnapshot_NilIsEmpty(t *testing.T) {
	t.Parallel()

	var s *prscope.Snapshot

	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Paths())
	_, ok := s.Content("a.py")
	assert.False(t, ok)
}

func TestFormatSnapshot_RoundTrip(t *testing.T) {
	t.Parallel()

	original := prscope.NewSnapshot(
		[]string{"src/main.py", "empty.py", "src/utils.py"},
		map[string]string{
			"src/main.py":  "import os\n\nprint(os.name)",
			"src/utils.py": "from src.main import run",
		},
	)

	parsed := prscope.ParseSnapshot(prscope.FormatSnapshot(original))

	assert.Equal(t, original.Paths(), parsed.Paths())
	for _, p := range original.Paths() {
		want, _ := original.Content(p)
		got, ok := parsed.Content(p)
		assert.True(t, ok, p)
		assert.Equal(t, want, got, p)
	}
}
