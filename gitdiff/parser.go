// Package gitdiff classifies file operations in a diff using bluekeyes/go-gitdiff.
package gitdiff

import (
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/fwojciec/prscope"
)

// Compile-time interface verification.
var _ prscope.OperationDetector = (*Detector)(nil)

// Detector reports added, deleted, renamed, copied and modified files.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// DetectOperations parses diffText and returns the operation of each file
// keyed by the path used for it in the diff's "--- a/" or "+++ b/" header.
// Diffs that go-gitdiff cannot parse yield an empty result.
func (d *Detector) DetectOperations(diffText string) map[string]prscope.FileOp {
	ops := make(map[string]prscope.FileOp)

	files, _, err := gitdiff.Parse(strings.NewReader(diffText))
	if err != nil {
		return ops
	}

	for _, f := range files {
		op := operation(f)
		// go-gitdiff strips a/ and b/ prefixes, which matches the keys
		// produced by prscope.ParseDiff.
		if f.NewName != "" {
			ops[f.NewName] = op
		}
		if f.OldName != "" {
			if _, ok := ops[f.OldName]; !ok {
				ops[f.OldName] = op
			}
		}
	}

	return ops
}

func operation(f *gitdiff.File) prscope.FileOp {
	switch {
	case f.IsNew:
		return prscope.FileAdded
	case f.IsDelete:
		return prscope.FileDeleted
	case f.IsRename:
		return prscope.FileRenamed
	case f.IsCopy:
		return prscope.FileCopied
	default:
		return prscope.FileModified
	}
}
