package mock

import "github.com/fwojciec/prscope"

var (
	_ prscope.BatchLoader  = (*BatchLoader)(nil)
	_ prscope.ResultWriter = (*ResultWriter)(nil)
)

// BatchLoader is a mock implementation of prscope.BatchLoader.
type BatchLoader struct {
	LoadFn func(path string) ([]prscope.BatchCase, error)
}

func (l *BatchLoader) Load(path string) ([]prscope.BatchCase, error) {
	return l.LoadFn(path)
}

// ResultWriter is a mock implementation of prscope.ResultWriter.
type ResultWriter struct {
	WriteFn func(result prscope.BatchResult) error
}

func (w *ResultWriter) Write(result prscope.BatchResult) error {
	return w.WriteFn(result)
}
