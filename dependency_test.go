package prscope_test

import (
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/stretchr/testify/assert"
)

func TestExtractDependencies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "empty content",
			content: "",
			want:    nil,
		},
		{
			name:    "import and from lines in order",
			content: "import os\nx = 1\nfrom typing import List\n",
			want:    []string{"import os", "from typing import List"},
		},
		{
			name:    "leading whitespace is trimmed",
			content: "def f():\n    import json\n\tfrom a import b\n",
			want:    []string{"import json", "from a import b"},
		},
		{
			name:    "duplicates are kept",
			content: "import os\nimport os\n",
			want:    []string{"import os", "import os"},
		},
		{
			name:    "token must be followed by a space",
			content: "important = True\nfromage = 'brie'\nimport\n",
			want:    nil,
		},
		{
			name:    "heuristic matches text that only looks like an import",
			content: "\"\"\"\nfrom the docs: see README\n\"\"\"\n",
			want:    []string{"from the docs: see README"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, prscope.ExtractDependencies(tt.content))
		})
	}
}

func TestExtractDependencies_Concatenation(t *testing.T) {
	t.Parallel()

	a := "import os\nx = 1\nfrom a import b\n"
	b := "from c import d\nimport os\n"

	combined := prscope.ExtractDependencies(a + b)

	want := append(prscope.ExtractDependencies(a), prscope.ExtractDependencies(b)...)
	assert.Equal(t, want, combined)
}
