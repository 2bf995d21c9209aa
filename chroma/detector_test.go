package chroma_test

import (
	"testing"

	"github.com/fwojciec/prscope/chroma"
	"github.com/stretchr/testify/assert"
)

func TestDetector_DetectLanguage(t *testing.T) {
	t.Parallel()

	t.Run("detects Python from .py files", func(t *testing.T) {
		t.Parallel()

		detector := chroma.NewDetector()
		lang := detector.DetectLanguage("src/main.py", "")

		assert.Equal(t, "Python", lang)
	})

	t.Run("detects common languages", func(t *testing.T) {
		t.Parallel()

		detector := chroma.NewDetector()

		cases := []struct {
			path string
			want string
		}{
			{"main.go", "Go"},
			{"component.tsx", "TypeScript"},
			{"lib.rs", "Rust"},
			{"main.js", "JavaScript"},
			{"App.java", "Java"},
		}

		for _, tc := range cases {
			lang := detector.DetectLanguage(tc.path, "")
			assert.Equal(t, tc.want, lang, "path: %s", tc.path)
		}
	})

	t.Run("strips diff prefixes", func(t *testing.T) {
		t.Parallel()

		detector := chroma.NewDetector()

		assert.Equal(t, "Go", detector.DetectLanguage("b/src/foo.go", ""))
		assert.Equal(t, "Go", detector.DetectLanguage("a/src/foo.go", ""))
	})

	t.Run("path wins over content", func(t *testing.T) {
		t.Parallel()

		detector := chroma.NewDetector()
		lang := detector.DetectLanguage("main.go", "#!/usr/bin/env python\nprint('hi')\n")

		assert.Equal(t, "Go", lang)
	})

	t.Run("falls back to content analysis", func(t *testing.T) {
		t.Parallel()

		detector := chroma.NewDetector()
		lang := detector.DetectLanguage("scripts/release", "#!/bin/bash\necho hi\n")

		assert.Equal(t, "Bash", lang)
	})

	t.Run("returns empty string when nothing matches", func(t *testing.T) {
		t.Parallel()

		detector := chroma.NewDetector()

		assert.Empty(t, detector.DetectLanguage("file.unknownext", ""))
		assert.Empty(t, detector.DetectLanguage("", "   "))
	})
}
