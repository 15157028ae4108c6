package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// compactTheme wraps the default Fyne theme with the dense sizing used by
// the layout viewer.
type compactTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	system  bool
}

// newCompactTheme follows the system light/dark variant.
func newCompactTheme() *compactTheme {
	return &compactTheme{base: theme.DefaultTheme(), system: true}
}

// newCompactThemeWithVariant pins the theme to a light or dark variant.
func newCompactThemeWithVariant(variant fyne.ThemeVariant) *compactTheme {
	return &compactTheme{base: theme.DefaultTheme(), variant: variant}
}

func (t *compactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if !t.system {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *compactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *compactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *compactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
