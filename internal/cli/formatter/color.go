// Package formatter renders optimizer output for the terminal.
package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles. SetColor replaces them.
var (
	StyleGreen  lipgloss.Style
	StyleYellow lipgloss.Style
	StyleRed    lipgloss.Style
	StyleBlue   lipgloss.Style
	StyleDim    lipgloss.Style
	StyleHeader lipgloss.Style
	StyleBold   lipgloss.Style
	boxBorder   lipgloss.TerminalColor
)

func init() {
	SetColor(true)
}

// SetColor switches styled output on or off. With color off every style
// renders plain text.
func SetColor(enabled bool) {
	plain := lipgloss.NewStyle()
	if !enabled {
		StyleGreen, StyleYellow, StyleRed, StyleBlue = plain, plain, plain, plain
		StyleDim, StyleHeader, StyleBold = plain, plain, plain
		boxBorder = lipgloss.NoColor{}
		return
	}
	StyleGreen = plain.Foreground(ColorGreen)
	StyleYellow = plain.Foreground(ColorYellow)
	StyleRed = plain.Foreground(ColorRed)
	StyleBlue = plain.Foreground(ColorBlue)
	StyleDim = plain.Foreground(ColorDim)
	StyleHeader = plain.Foreground(ColorHeader).Bold(true)
	StyleBold = plain.Foreground(ColorFg).Bold(true)
	boxBorder = ColorDim
}

// WasteColor grades a waste percentage: green up to 20, yellow up to 40, red above.
func WasteColor(percent int) lipgloss.Style {
	switch {
	case percent <= 20:
		return StyleGreen
	case percent <= 40:
		return StyleYellow
	default:
		return StyleRed
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(boxBorder).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}
