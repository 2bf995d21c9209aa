package clipboard_test

import (
	"testing"

	atotto "github.com/atotto/clipboard"
	"github.com/fwojciec/prscope/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_Copy(t *testing.T) {
	t.Parallel()

	cb := clipboard.NewSystem()
	if atotto.Unsupported {
		assert.ErrorIs(t, cb.Copy("x"), clipboard.ErrUnsupported)
		return
	}

	testContent := "test clipboard content from prscope"
	if err := cb.Copy(testContent); err != nil {
		// A utility can be installed without a display to talk to.
		t.Skipf("clipboard not usable: %v", err)
	}

	out, err := atotto.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, testContent, out)
}
