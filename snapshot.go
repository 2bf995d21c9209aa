package prscope

import (
	"fmt"
	"strings"
)

// Snapshot section markers have the form "=== FILE: <path> ===".
const (
	fileMarkerPrefix = "=== FILE: "
	fileMarkerSuffix = " ==="
)

// ParseSnapshot turns a concatenated codebase blob into a Snapshot.
//
// Each section starts with a "=== FILE: <path> ===" line and runs until the
// next marker or the end of input. A path declared without content maps to
// the empty string. A blob without markers yields an empty Snapshot.
func ParseSnapshot(blob string) *Snapshot {
	var paths []string
	contents := make(map[string]string)

	var current string
	var declared bool
	var buf []string

	flush := func() {
		if declared {
			contents[current] = strings.Join(buf, "\n")
		}
		buf = nil
	}

	for _, line := range splitLines(blob) {
		if path, ok := parseFileMarker(line); ok {
			flush()
			if _, seen := contents[path]; !seen {
				paths = append(paths, path)
			}
			current = path
			declared = true
			contents[current] = ""
			continue
		}
		if declared {
			buf = append(buf, line)
		}
	}
	flush()

	return NewSnapshot(paths, contents)
}

// FormatSnapshot renders a Snapshot back into the blob format read by
// ParseSnapshot.
func FormatSnapshot(s *Snapshot) string {
	var sb strings.Builder
	for _, p := range s.Paths() {
		content, _ := s.Content(p)
		fmt.Fprintf(&sb, "%s%s%s\n", fileMarkerPrefix, p, fileMarkerSuffix)
		if content != "" {
			sb.WriteString(content)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// parseFileMarker matches the whole line; indented or padded markers are
// section content.
func parseFileMarker(line string) (string, bool) {
	if !strings.HasPrefix(line, fileMarkerPrefix) || !strings.HasSuffix(line, fileMarkerSuffix) {
		return "", false
	}
	if len(line) < len(fileMarkerPrefix)+len(fileMarkerSuffix) {
		return "", false
	}
	path := strings.TrimSpace(line[len(fileMarkerPrefix) : len(line)-len(fileMarkerSuffix)])
	if path == "" {
		return "", false
	}
	return path, true
}
