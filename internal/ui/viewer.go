// Package ui provides the desktop layout viewer.
package ui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/PanelNest/internal/export"
	"github.com/piwi3910/PanelNest/internal/gcode"
	"github.com/piwi3910/PanelNest/internal/model"
	"github.com/piwi3910/PanelNest/internal/ui/widgets"
)

// ErrNoLayout is returned by Show for a project that was never optimized.
var ErrNoLayout = errors.New("project has no layout to show")

// Viewer shows a laid-out project: every sheet, and the toolpath of one
// sheet at a time.
type Viewer struct {
	window   fyne.Window
	project  model.Project
	settings gcode.Settings
	programs []string

	sheet      int
	sheetLabel *widget.Label
	preview    *fyne.Container
}

// Show opens the viewer window and blocks until it is closed.
func Show(p model.Project, settings gcode.Settings, profile gcode.Profile) error {
	if p.Result == nil {
		return ErrNoLayout
	}

	application := app.NewWithID("io.github.piwi3910.panelnest")
	application.Settings().SetTheme(newCompactTheme())

	window := application.NewWindow("PanelNest - " + p.Name)
	v := NewViewer(window, p, settings, profile)
	window.SetMainMenu(v.Menu())
	window.SetContent(fynetooltip.AddWindowToolTipLayer(v.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1000, 700))
	window.CenterOnScreen()
	window.ShowAndRun()
	return nil
}

// NewViewer prepares a viewer for p. The project must carry a result.
func NewViewer(window fyne.Window, p model.Project, settings gcode.Settings, profile gcode.Profile) *Viewer {
	settings.Kerf = p.Options.Kerf
	return &Viewer{
		window:     window,
		project:    p,
		settings:   settings,
		programs:   gcode.NewWithProfile(settings, profile).GenerateAll(*p.Result),
		sheetLabel: widget.NewLabel(""),
		preview:    container.NewStack(),
	}
}

// Build returns the window content.
func (v *Viewer) Build() fyne.CanvasObject {
	layoutTab := container.NewTabItemWithIcon("Layout", theme.GridIcon(),
		widgets.RenderLayout(v.project.Result, v.project.StockSheets))

	toolbar := container.NewHBox(
		newIconButtonWithTooltip(theme.NavigateBackIcon(), "Previous sheet", func() { v.step(-1) }),
		v.sheetLabel,
		newIconButtonWithTooltip(theme.NavigateNextIcon(), "Next sheet", func() { v.step(1) }),
		newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Save this sheet's GCode", v.saveGCode),
	)
	toolpathTab := container.NewTabItemWithIcon("Toolpaths", theme.MediaPlayIcon(),
		container.NewBorder(toolbar, nil, nil, nil, container.NewScroll(v.preview)))

	v.showSheet(0)
	return container.NewAppTabs(layoutTab, toolpathTab)
}

// Menu returns the window's main menu.
func (v *Viewer) Menu() *fyne.MainMenu {
	return fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Export PDF...", v.savePDF),
			fyne.NewMenuItem("Export Cut List...", v.saveCutList),
			fyne.NewMenuItem("Export Sheet GCode...", v.saveGCode),
		),
	)
}

// sheetStep moves current by delta, clamped to [0, count).
func sheetStep(current, delta, count int) int {
	next := current + delta
	if next >= count {
		next = count - 1
	}
	if next < 0 {
		next = 0
	}
	return next
}

func (v *Viewer) step(delta int) {
	v.showSheet(sheetStep(v.sheet, delta, len(v.programs)))
}

func (v *Viewer) showSheet(i int) {
	result := v.project.Result
	if len(result.SheetsMetadata) == 0 {
		v.sheetLabel.SetText("No sheets")
		v.preview.Objects = nil
		v.preview.Refresh()
		return
	}
	v.sheet = i
	meta := result.SheetsMetadata[i]
	v.sheetLabel.SetText(fmt.Sprintf("Sheet %d of %d: %s", i+1, len(result.SheetsMetadata), meta.Label))
	v.preview.Objects = []fyne.CanvasObject{
		widgets.RenderGCodePreview(meta, result.PlacementsOnSheet(meta.GlobalSheetIndex), v.settings, v.programs[i]),
	}
	v.preview.Refresh()
}

func (v *Viewer) savePDF() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if err := export.WritePDF(writer, v.project); err != nil {
			dialog.ShowError(err, v.window)
		}
	}, v.window)
	d.SetFileName(v.project.Name + ".pdf")
	d.Show()
}

func (v *Viewer) saveCutList() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := export.ExportCutList(path, v.project); err != nil {
			dialog.ShowError(err, v.window)
		}
	}, v.window)
	d.SetFileName(v.project.Name + ".xlsx")
	d.Show()
}

func (v *Viewer) saveGCode() {
	if len(v.programs) == 0 {
		dialog.ShowInformation("No sheets", "This layout has no sheets to cut.", v.window)
		return
	}
	program := v.programs[v.sheet]
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if _, err := writer.Write([]byte(program)); err != nil {
			dialog.ShowError(err, v.window)
		}
	}, v.window)
	d.SetFileName(fmt.Sprintf("sheet_%d.nc", v.sheet+1))
	d.Show()
}
