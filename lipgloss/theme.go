// Package lipgloss provides report themes for the Lipgloss styling library.
package lipgloss

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/prscope"
)

// Compile-time interface verification.
var _ prscope.Theme = (*Theme)(nil)

// Theme implements prscope.Theme with Lipgloss-compatible colors.
type Theme struct {
	styles prscope.Styles
}

// Styles returns the color styles for this theme.
func (t *Theme) Styles() prscope.Styles {
	return t.styles
}

// DefaultTheme returns the theme matching the terminal background.
func DefaultTheme() *Theme {
	if lipgloss.HasDarkBackground() {
		return DarkTheme()
	}
	return LightTheme()
}

// DarkTheme returns a theme optimized for dark terminal backgrounds.
func DarkTheme() *Theme {
	return &Theme{
		styles: prscope.Styles{
			Heading: prscope.ColorPair{
				Foreground: "#cdd6f4", // Text
			},
			FileHeader: prscope.ColorPair{
				Foreground: "#f9e2af", // Yellow
				Background: "#313244", // Dark surface
			},
			HunkHeader: prscope.ColorPair{
				Foreground: "#89b4fa", // Blue
			},
			Added: prscope.ColorPair{
				Foreground: "#a6e3a1", // Green
			},
			Deleted: prscope.ColorPair{
				Foreground: "#f38ba8", // Red
			},
			Muted: prscope.ColorPair{
				Foreground: "#6c7086", // Muted gray
			},
			Recommendation: prscope.ColorPair{
				Foreground: "#fab387", // Peach
			},
			HighComplexity: prscope.ColorPair{
				Foreground: "#1e1e2e", // Dark text on bright background
				Background: "#f38ba8", // Bright red background
			},
		},
	}
}

// LightTheme returns a theme optimized for light terminal backgrounds.
func LightTheme() *Theme {
	return &Theme{
		styles: prscope.Styles{
			Heading: prscope.ColorPair{
				Foreground: "#4c4f69", // Text
			},
			FileHeader: prscope.ColorPair{
				Foreground: "#df8e1d", // Yellow
				Background: "#e6e9ef", // Light surface
			},
			HunkHeader: prscope.ColorPair{
				Foreground: "#1e66f5", // Blue
			},
			Added: prscope.ColorPair{
				Foreground: "#40a02b", // Green
			},
			Deleted: prscope.ColorPair{
				Foreground: "#d20f39", // Red
			},
			Muted: prscope.ColorPair{
				Foreground: "#9ca0b0", // Muted gray
			},
			Recommendation: prscope.ColorPair{
				Foreground: "#fe640b", // Peach
			},
			HighComplexity: prscope.ColorPair{
				Foreground: "#ffffff", // White text on dark background
				Background: "#d20f39", // Bright red background
			},
		},
	}
}
