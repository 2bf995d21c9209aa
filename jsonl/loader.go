// Package jsonl provides JSONL file handling for batch cases and results.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/prscope"
)

// Compile-time interface verification.
var _ prscope.BatchLoader = (*Loader)(nil)

// Loader loads BatchCase records from JSONL files.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// maxLineSize is the maximum size for a single JSONL line. A case may
// carry a full diff and codebase, and JSON escaping can double their size.
const maxLineSize = 2 * (prscope.MaxDiffSize + prscope.MaxCodebaseSize)

// Load reads a JSONL file and returns all BatchCase records. Cases
// without an id are numbered by their line.
func (l *Loader) Load(path string) ([]prscope.BatchCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cases []prscope.BatchCase
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var c prscope.BatchCase
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if c.ID == "" {
			c.ID = fmt.Sprintf("line-%d", lineNum)
		}
		if c.Scope == "" {
			c.Scope = prscope.ScopeDiffOnly
		}
		cases = append(cases, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cases, nil
}
