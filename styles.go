package prscope

import "context"

// ColorPair represents a foreground and background color combination.
// Colors should be hex strings in "#RRGGBB" format (e.g., "#ff0000" for red).
// Empty strings are valid and indicate no color override (use terminal default).
type ColorPair struct {
	Foreground string
	Background string
}

// Styles contains color pairs for all visual elements of a report.
type Styles struct {
	Heading        ColorPair // Report and section headings
	FileHeader     ColorPair // Per-file header line
	HunkHeader     ColorPair // Hunk headers (@@ ... @@)
	Added          ColorPair // Lines added count
	Deleted        ColorPair // Lines removed count
	Muted          ColorPair // Secondary text (labels, empty values)
	Recommendation ColorPair // Recommendation bullets
	HighComplexity ColorPair // "High" complexity marker
}

// Theme provides styles for rendering reports.
// Different implementations can provide light/dark variants.
type Theme interface {
	Styles() Styles
}

// ReportViewer displays a report and blocks until the user exits.
type ReportViewer interface {
	View(ctx context.Context, report *Report) error
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	Copy(content string) error
}
