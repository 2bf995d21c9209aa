package jsonl

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/prscope"
)

// Compile-time interface verification.
var (
	_ prscope.ResultWriter = (*Writer)(nil)
	_ prscope.ResultWriter = (*Saver)(nil)
)

// Writer writes BatchResult records as JSONL to an io.Writer. It is safe
// for concurrent use.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Write encodes result as a single line.
func (w *Writer) Write(result prscope.BatchResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(result)
}

// Saver appends BatchResult records to a JSONL file. Results from
// earlier runs are kept, so a file can collect several batches.
type Saver struct {
	mu   sync.Mutex
	path string
}

// NewSaver creates a Saver appending to path.
func NewSaver(path string) *Saver {
	return &Saver{path: path}
}

// Write appends result to the file, creating parent directories if needed.
func (s *Saver) Write(result prscope.BatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return err
	}

	return nil
}
