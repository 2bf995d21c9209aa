package prscope_test

import (
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/stretchr/testify/assert"
)

func TestModuleName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "src.main", prscope.ModuleName("src/main.py"))
	assert.Equal(t, "main", prscope.ModuleName("main.py"))
	assert.Equal(t, "pkg.mod.go", prscope.ModuleName("pkg/mod.go"))
}

func TestFindCrossReferences(t *testing.T) {
	t.Parallel()

	t.Run("finds files containing the module name", func(t *testing.T) {
		t.Parallel()

		snapshot := prscope.NewSnapshot(
			[]string{"src/main.py", "src/utils.py"},
			map[string]string{
				"src/main.py":  "import os",
				"src/utils.py": "from src.main import run",
			},
		)

		refs := prscope.FindCrossReferences("src/main.py", snapshot)

		assert.Equal(t, []string{"src/utils.py"}, refs)
	})

	t.Run("excludes the file itself", func(t *testing.T) {
		t.Parallel()

		snapshot := prscope.NewSnapshot(
			[]string{"src/main.py"},
			map[string]string{"src/main.py": "# src.main entry point"},
		)

		assert.Empty(t, prscope.FindCrossReferences("src/main.py", snapshot))
	})

	t.Run("follows snapshot order", func(t *testing.T) {
		t.Parallel()

		snapshot := prscope.NewSnapshot(
			[]string{"z.py", "a.py", "m.py"},
			map[string]string{
				"z.py": "import core",
				"a.py": "core.run()",
				"m.py": "nothing here",
			},
		)

		assert.Equal(t, []string{"z.py", "a.py"}, prscope.FindCrossReferences("core.py", snapshot))
	})

	t.Run("substring matches are accepted", func(t *testing.T) {
		t.Parallel()

		snapshot := prscope.NewSnapshot(
			[]string{"b.py"},
			map[string]string{"b.py": "corequisite = 1"},
		)

		assert.Equal(t, []string{"b.py"}, prscope.FindCrossReferences("core.py", snapshot))
	})

	t.Run("nil snapshot yields empty result", func(t *testing.T) {
		t.Parallel()

		refs := prscope.FindCrossReferences("a.py", nil)

		assert.NotNil(t, refs)
		assert.Empty(t, refs)
	})
}
