package prscope_test

import (
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("blob without markers is empty", func(t *testing.T) {
		t.Parallel()

		s := prscope.ParseSnapshot("import os\nprint('hello')\n")

		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.Paths())
	})

	t.Run("splits sections by marker", func(t *testing.T) {
		t.Parallel()

		blob := `=== FILE: src/main.py ===
import os
print(os.name)