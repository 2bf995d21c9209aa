// Package fs loads analysis inputs from files and readers with size
// limits enforced before any content is parsed.
package fs

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/prscope"
)

// MaxRulesSize bounds the rules document.
const MaxRulesSize = 10 << 20

// FieldRules names the rules document in input errors.
const FieldRules = "rules"

// ReadLimited reads at most limit bytes from r. Inputs larger than limit
// are rejected with a *prscope.InputError wrapping prscope.ErrInputTooLarge
// without reading past limit+1 bytes; inputs that are not valid UTF-8 are
// rejected with prscope.ErrInvalidEncoding.
func ReadLimited(r io.Reader, field string, limit int) (string, error) {
	data, err := readBounded(r, field, limit)
	if err != nil {
		return "", err
	}
	s := string(data)
	if err := prscope.ValidateInput(field, s, limit); err != nil {
		return "", err
	}
	return s, nil
}

// ReadFile reads the file at path under the same rules as ReadLimited.
// The file size is checked with stat first so oversized files are not
// opened for reading at all.
func ReadFile(path, field string, limit int) (string, error) {
	data, err := readFileBounded(path, field, limit)
	if err != nil {
		return "", err
	}
	s := string(data)
	if err := prscope.ValidateInput(field, s, limit); err != nil {
		return "", err
	}
	return s, nil
}

func readBounded(r io.Reader, field string, limit int) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", field, err)
	}
	if len(data) > limit {
		return nil, &prscope.InputError{Field: field, Size: len(data), Limit: limit, Err: prscope.ErrInputTooLarge}
	}
	return data, nil
}

func readFileBounded(path, field string, limit int) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", field, err)
	}
	if info.Mode().IsRegular() && info.Size() > int64(limit) {
		return nil, &prscope.InputError{Field: field, Size: int(info.Size()), Limit: limit, Err: prscope.ErrInputTooLarge}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", field, err)
	}
	defer f.Close()

	return readBounded(f, field, limit)
}

// LoadRequest builds a request from a diff file and an optional codebase
// file. An empty codebasePath leaves the request without a codebase.
func LoadRequest(diffPath, codebasePath string, scope prscope.Scope) (prscope.Request, error) {
	diff, err := ReadFile(diffPath, prscope.FieldDiff, prscope.MaxDiffSize)
	if err != nil {
		return prscope.Request{}, err
	}
	req := prscope.Request{Diff: diff, Scope: scope}
	if codebasePath != "" {
		codebase, err := ReadFile(codebasePath, prscope.FieldCodebase, prscope.MaxCodebaseSize)
		if err != nil {
			return prscope.Request{}, err
		}
		req.Codebase = &codebase
	}
	return req, nil
}

// ReadRules reads the rules document used by rule models. PDF documents,
// recognized by a ".pdf" extension or a "%PDF-" header, are reduced to
// their text; anything else must be UTF-8 text.
func ReadRules(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no rules document configured")
	}
	data, err := readFileBounded(path, FieldRules, MaxRulesSize)
	if err != nil {
		return "", err
	}
	if isPDF(path, data) {
		return pdfText(data)
	}
	s := string(data)
	if err := prscope.ValidateInput(FieldRules, s, MaxRulesSize); err != nil {
		return "", err
	}
	return s, nil
}
