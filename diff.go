package prscope

import "strings"

// Diff markers recognized by ParseDiff.
const (
	oldFileMarker = "--- a/"
	newFileMarker = "+++ b/"
	hunkMarker    = "@@"
)

// ParseDiff turns unified diff text into a ChangeSet.
//
// File header lines ("--- a/" and "+++ b/") move the current-file cursor.
// Changed lines are buffered and flushed into the previous file's record
// whenever a header is seen, so an old/new header pair for the same file
// neither loses nor duplicates lines. Hunk headers are recorded directly.
// Context lines and any other metadata are ignored. Input without file
// headers yields an empty ChangeSet.
func ParseDiff(text string) *ChangeSet {
	cs := NewChangeSet()

	var current string
	var pending []string

	flush := func() {
		if current != "" && len(pending) > 0 {
			r := cs.record(current)
			r.ChangedLines = append(r.ChangedLines, pending...)
		}
		pending = nil
	}

	for _, line := range splitLines(text) {
		switch {
		case strings.HasPrefix(line, oldFileMarker), strings.HasPrefix(line, newFileMarker):
			flush()
			current = strings.TrimSpace(line[len(oldFileMarker):])
			if current != "" {
				cs.record(current)
			}
		case strings.HasPrefix(line, hunkMarker):
			if current == "" {
				continue
			}
			r := cs.record(current)
			r.HunkHeaders = append(r.HunkHeaders, line)
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// Headers not pointing into a/ or b/ (for example /dev/null).
		case strings.HasPrefix(line, "+"), strings.HasPrefix(line, "-"):
			pending = append(pending, line)
		}
	}
	flush()

	return cs
}

// splitLines splits text on newlines, dropping a trailing carriage return
// from each line and the empty element after a final newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
