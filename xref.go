package prscope

import "strings"

// SourceExtension is the file extension stripped when deriving a module
// name from a path.
const SourceExtension = ".py"

// ModuleName derives a dotted module name from a file path, for example
// "src/main.py" becomes "src.main".
func ModuleName(path string) string {
	name := strings.TrimSuffix(path, SourceExtension)
	return strings.ReplaceAll(name, "/", ".")
}

// FindCrossReferences returns the paths of snapshot files, other than
// path itself, whose content contains the module name of path. Results
// follow snapshot order. Matching is a plain substring test, so
// coincidental matches are reported and aliased imports are missed.
func FindCrossReferences(path string, snapshot *Snapshot) []string {
	token := ModuleName(path)
	refs := []string{}
	if token == "" {
		return refs
	}
	for _, p := range snapshot.Paths() {
		if p == path {
			continue
		}
		content, _ := snapshot.Content(p)
		if strings.Contains(content, token) {
			refs = append(refs, p)
		}
	}
	return refs
}
