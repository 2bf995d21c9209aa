package prscope_test

import (
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/stretchr/testify/assert"
)

func TestFileOp_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "renamed", prscope.FileRenamed.String())
	assert.Equal(t, "modified", prscope.FileOp("").String())
}
