package prscope_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	t.Parallel()

	t.Run("accepts valid input", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, prscope.ValidateInput(prscope.FieldDiff, "héllo", 10))
	})

	t.Run("accepts input at the limit", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, prscope.ValidateInput(prscope.FieldDiff, "abcd", 4))
	})

	t.Run("rejects oversized input", func(t *testing.T) {
		t.Parallel()

		err := prscope.ValidateInput(prscope.FieldDiff, "abcde", 4)

		require.ErrorIs(t, err, prscope.ErrInputTooLarge)
		var inputErr *prscope.InputError
		require.True(t, errors.As(err, &inputErr))
		assert.Equal(t, prscope.FieldDiff, inputErr.Field)
		assert.Equal(t, 5, inputErr.Size)
		assert.Equal(t, 4, inputErr.Limit)
		assert.Equal(t, "diff: 5 bytes exceeds limit of 4 bytes", err.Error())
	})

	t.Run("rejects invalid UTF-8", func(t *testing.T) {
		t.Parallel()

		err := prscope.ValidateInput(prscope.FieldCodebase, "ok\xff", 10)

		require.ErrorIs(t, err, prscope.ErrInvalidEncoding)
		assert.NotErrorIs(t, err, prscope.ErrInputTooLarge)
		assert.Contains(t, err.Error(), "codebase")
	})

	t.Run("checks size before encoding", func(t *testing.T) {
		t.Parallel()

		err := prscope.ValidateInput(prscope.FieldDiff, "\xff\xff\xff", 2)

		assert.ErrorIs(t, err, prscope.ErrInputTooLarge)
	})
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	t.Run("accepts request without codebase", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, prscope.ValidateRequest(prscope.Request{Diff: "--- a/x\n"}))
	})

	t.Run("rejects oversized diff", func(t *testing.T) {
		t.Parallel()

		req := prscope.Request{Diff: strings.Repeat("a", prscope.MaxDiffSize+1)}

		err := prscope.ValidateRequest(req)

		assert.ErrorIs(t, err, prscope.ErrInputTooLarge)
	})

	t.Run("size violation wins over encoding violation", func(t *testing.T) {
		t.Parallel()

		codebase := strings.Repeat("a", prscope.MaxCodebaseSize+1)
		req := prscope.Request{Diff: "\xff", Codebase: &codebase}

		err := prscope.ValidateRequest(req)

		require.ErrorIs(t, err, prscope.ErrInputTooLarge)
		var inputErr *prscope.InputError
		require.True(t, errors.As(err, &inputErr))
		assert.Equal(t, prscope.FieldCodebase, inputErr.Field)
	})

	t.Run("rejects badly encoded codebase", func(t *testing.T) {
		t.Parallel()

		codebase := "=== FILE: a.py ===\n\xc3\x28"
		req := prscope.Request{Diff: "", Codebase: &codebase}

		assert.ErrorIs(t, prscope.ValidateRequest(req), prscope.ErrInvalidEncoding)
	})
}
