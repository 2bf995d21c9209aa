package prscope

import (
	"regexp"
	"strings"
)

// Language is a coarse source language tag.
type Language string

// Known languages.
const (
	LanguagePython  Language = "python"
	LanguageJava    Language = "java"
	LanguageReact   Language = "react"
	LanguageUnknown Language = "unknown"
)

var (
	pythonPattern = regexp.MustCompile(`\b(def|import|print|self|lambda)\b`)
	javaPattern   = regexp.MustCompile(`\b(public|static|void|System\.out|class)\b`)
	reactPattern  = regexp.MustCompile(`\b(function|const|let|useState|useEffect|return\s*\(<)\b`)
)

// DetectLanguage guesses the language of source text from keywords.
// Patterns are checked in order: python, java, react.
func DetectLanguage(text string) Language {
	switch {
	case pythonPattern.MatchString(text):
		return LanguagePython
	case javaPattern.MatchString(text):
		return LanguageJava
	case reactPattern.MatchString(text), strings.Contains(text, ".jsx"), strings.Contains(text, ".tsx"):
		return LanguageReact
	default:
		return LanguageUnknown
	}
}
