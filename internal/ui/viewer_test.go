package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PanelNest/internal/gcode"
	"github.com/piwi3910/PanelNest/internal/model"
)

func twoSheetProject() model.Project {
	p := model.NewProject()
	p.Name = "Wardrobe"
	p.Result = &model.OptimizationResult{
		SheetCount: 2,
		SheetsMetadata: []model.SheetMetadata{
			{GlobalSheetIndex: 0, Width: 2440, Height: 1220, Label: "Ply A"},
			{GlobalSheetIndex: 1, Width: 2440, Height: 1220, Label: "Ply B"},
		},
		Placements: []model.Placement{
			{PanelInstanceID: "side#0", PanelID: "side", GlobalSheetIndex: 0, PlacedLength: 2003.2, PlacedWidth: 603.2},
			{PanelInstanceID: "side#1", PanelID: "side", GlobalSheetIndex: 1, PlacedLength: 2003.2, PlacedWidth: 603.2},
		},
	}
	return p
}

func TestSheetStep_Clamps(t *testing.T) {
	assert.Equal(t, 1, sheetStep(0, 1, 3))
	assert.Equal(t, 2, sheetStep(2, 1, 3))
	assert.Equal(t, 0, sheetStep(0, -1, 3))
	assert.Equal(t, 0, sheetStep(0, 1, 0))
}

func TestViewer_NavigatesSheets(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewTempWindow(t, nil)

	v := NewViewer(w, twoSheetProject(), gcode.DefaultSettings(), gcode.GetProfile("Grbl"))
	content := v.Build()
	require.IsType(t, &container.AppTabs{}, content)
	assert.Len(t, content.(*container.AppTabs).Items, 2)

	require.Len(t, v.programs, 2)
	assert.Equal(t, "Sheet 1 of 2: Ply A", v.sheetLabel.Text)

	v.step(1)
	assert.Equal(t, 1, v.sheet)
	assert.Equal(t, "Sheet 2 of 2: Ply B", v.sheetLabel.Text)
	assert.Len(t, v.preview.Objects, 1)

	v.step(1)
	assert.Equal(t, 1, v.sheet)
}

func TestViewer_EmptyLayout(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewTempWindow(t, nil)

	p := model.NewProject()
	p.Result = &model.OptimizationResult{}
	v := NewViewer(w, p, gcode.DefaultSettings(), gcode.GetProfile("Generic"))
	v.Build()

	assert.Equal(t, "No sheets", v.sheetLabel.Text)
	assert.Empty(t, v.preview.Objects)
}

func TestViewer_Menu(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewTempWindow(t, nil)

	v := NewViewer(w, twoSheetProject(), gcode.DefaultSettings(), gcode.GetProfile("Grbl"))
	menu := v.Menu()

	require.Len(t, menu.Items, 1)
	var labels []string
	for _, item := range menu.Items[0].Items {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"Export PDF...", "Export Cut List...", "Export Sheet GCode..."}, labels)
}

func TestShow_RequiresLayout(t *testing.T) {
	assert.ErrorIs(t, Show(model.NewProject(), gcode.DefaultSettings(), gcode.Profile{}), ErrNoLayout)
}

func TestCompactTheme(t *testing.T) {
	th := newCompactTheme()
	assert.Equal(t, float32(12), th.Size(theme.SizeNameText))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNameScrollBar), th.Size(theme.SizeNameScrollBar))

	dark := newCompactThemeWithVariant(theme.VariantDark)
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantDark),
		dark.Color(theme.ColorNameBackground, theme.VariantLight))
}

var _ fyne.Theme = (*compactTheme)(nil)
