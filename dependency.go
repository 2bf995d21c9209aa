package prscope

import "strings"

// ExtractDependencies returns the import-like lines of content in source
// order. A line qualifies when, after trimming whitespace, it starts with
// "import " or "from ". This is a syntactic heuristic, not a parser.
func ExtractDependencies(content string) []string {
	var deps []string
	for _, line := range splitLines(content) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ") {
			deps = append(deps, trimmed)
		}
	}
	return deps
}
