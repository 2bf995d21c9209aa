package prscope

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Input size limits in bytes.
const (
	MaxDiffSize     = 10 << 20  // 10 MiB
	MaxCodebaseSize = 100 << 20 // 100 MiB
)

// Input fields named in an InputError.
const (
	FieldDiff     = "diff"
	FieldCodebase = "codebase"
)

// Request-level input errors.
var (
	ErrInputTooLarge   = errors.New("input too large")
	ErrInvalidEncoding = errors.New("input is not valid UTF-8")
)

// InputError describes an input rejected before parsing.
type InputError struct {
	Field string // FieldDiff or FieldCodebase
	Size  int    // Size of the rejected input in bytes
	Limit int    // Size limit in bytes (only for ErrInputTooLarge)
	Err   error  // ErrInputTooLarge or ErrInvalidEncoding
}

// Error implements the error interface.
func (e *InputError) Error() string {
	switch {
	case errors.Is(e.Err, ErrInputTooLarge):
		return fmt.Sprintf("%s: %d bytes exceeds limit of %d bytes", e.Field, e.Size, e.Limit)
	case errors.Is(e.Err, ErrInvalidEncoding):
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("%s: invalid input", e.Field)
	}
}

// Unwrap returns the underlying sentinel error.
func (e *InputError) Unwrap() error {
	return e.Err
}

// ValidateInput checks a single input against its size limit and then its
// encoding. Size is checked first so oversized inputs are never scanned.
func ValidateInput(field, data string, limit int) error {
	if len(data) > limit {
		return &InputError{Field: field, Size: len(data), Limit: limit, Err: ErrInputTooLarge}
	}
	if !utf8.ValidString(data) {
		return &InputError{Field: field, Size: len(data), Err: ErrInvalidEncoding}
	}
	return nil
}

// ValidateRequest checks every input of req. Both sizes are checked
// before either encoding, so an oversized input is reported as such even
// when the other input is badly encoded.
func ValidateRequest(req Request) error {
	if len(req.Diff) > MaxDiffSize {
		return &InputError{Field: FieldDiff, Size: len(req.Diff), Limit: MaxDiffSize, Err: ErrInputTooLarge}
	}
	if req.Codebase != nil && len(*req.Codebase) > MaxCodebaseSize {
		return &InputError{Field: FieldCodebase, Size: len(*req.Codebase), Limit: MaxCodebaseSize, Err: ErrInputTooLarge}
	}
	if err := ValidateInput(FieldDiff, req.Diff, MaxDiffSize); err != nil {
		return err
	}
	if req.Codebase != nil {
		return ValidateInput(FieldCodebase, *req.Codebase, MaxCodebaseSize)
	}
	return nil
}
