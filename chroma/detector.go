// Package chroma detects source languages using the chroma lexer registry.
package chroma

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/fwojciec/prscope"
)

// Compile-time interface verification.
var _ prscope.LanguageDetector = (*Detector)(nil)

// Detector detects programming languages using chroma lexers.
type Detector struct{}

// NewDetector creates a new chroma-based language detector.
func NewDetector() *Detector {
	return &Detector{}
}

// DetectLanguage returns the language name for a file. The file name is
// tried first; when it does not identify a lexer, content is analysed.
// Returns an empty string if neither yields a language.
func (d *Detector) DetectLanguage(path, content string) string {
	if lexer := matchPath(path); lexer != nil {
		return lexer.Config().Name
	}
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if lexer := lexers.Analyse(content); lexer != nil {
		return lexer.Config().Name
	}
	return ""
}

func matchPath(path string) chroma.Lexer {
	if path == "" {
		return nil
	}
	// Strip common diff prefixes
	path = strings.TrimPrefix(path, "a/")
	path = strings.TrimPrefix(path, "b/")

	return lexers.Match(filepath.Base(path))
}
