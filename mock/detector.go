package mock

import "github.com/fwojciec/prscope"

// Compile-time interface verification.
var (
	_ prscope.OperationDetector = (*OperationDetector)(nil)
	_ prscope.LanguageDetector  = (*LanguageDetector)(nil)
)

// OperationDetector is a mock implementation of prscope.OperationDetector.
type OperationDetector struct {
	DetectOperationsFn func(diffText string) map[string]prscope.FileOp
}

func (d *OperationDetector) DetectOperations(diffText string) map[string]prscope.FileOp {
	return d.DetectOperationsFn(diffText)
}

// LanguageDetector is a mock implementation of prscope.LanguageDetector.
type LanguageDetector struct {
	DetectLanguageFn func(path, content string) string
}

func (d *LanguageDetector) DetectLanguage(path, content string) string {
	return d.DetectLanguageFn(path, content)
}
