package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PanelNest/internal/model"
)

// Panel colors, cycled per placement.
var panelColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

var (
	colorWood   = color.NRGBA{R: 210, G: 180, B: 140, A: 255}
	colorOffcut = color.NRGBA{R: 120, G: 200, B: 120, A: 90}
)

// fitScale returns the factor that fits a w x h sheet inside maxW x maxH.
func fitScale(w, h float64, maxW, maxH float32) float32 {
	if w <= 0 || h <= 0 {
		return 1
	}
	scale := maxW / float32(w)
	if s := maxH / float32(h); s < scale {
		scale = s
	}
	if scale <= 0 {
		return 1
	}
	return scale
}

// SheetCanvas draws one sheet of a layout with its placements and reusable offcuts.
type SheetCanvas struct {
	widget.BaseWidget
	meta       model.SheetMetadata
	placements []model.Placement
	offcuts    []model.Offcut
	maxWidth   float32
	maxHeight  float32
}

func NewSheetCanvas(meta model.SheetMetadata, placements []model.Placement, maxW, maxH float32) *SheetCanvas {
	sc := &SheetCanvas{
		meta:       meta,
		placements: placements,
		offcuts:    model.DetectOffcuts(meta, placements),
		maxWidth:   maxW,
		maxHeight:  maxH,
	}
	sc.ExtendBaseWidget(sc)
	return sc
}

func (sc *SheetCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newSheetCanvasRenderer(sc)
}

type sheetCanvasRenderer struct {
	sc      *SheetCanvas
	objects []fyne.CanvasObject
}

func newSheetCanvasRenderer(sc *SheetCanvas) *sheetCanvasRenderer {
	r := &sheetCanvasRenderer{sc: sc}
	r.rebuild()
	return r
}

func (r *sheetCanvasRenderer) scale() float32 {
	return fitScale(r.sc.meta.Width, r.sc.meta.Height, r.sc.maxWidth, r.sc.maxHeight)
}

func (r *sheetCanvasRenderer) rebuild() {
	r.objects = nil

	meta := r.sc.meta
	scale := r.scale()
	canvasW := float32(meta.Width) * scale
	canvasH := float32(meta.Height) * scale

	bg := canvas.NewRectangle(colorWood)
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, bg)

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, border)

	for _, o := range r.sc.offcuts {
		rect := canvas.NewRectangle(colorOffcut)
		rect.StrokeColor = color.NRGBA{R: 60, G: 140, B: 60, A: 200}
		rect.StrokeWidth = 1
		rect.Resize(fyne.NewSize(float32(o.Width)*scale, float32(o.Height)*scale))
		rect.Move(fyne.NewPos(float32(o.X)*scale, float32(o.Y)*scale))
		r.objects = append(r.objects, rect)
	}

	for i, p := range r.sc.placements {
		col := panelColors[i%len(panelColors)]
		pw := float32(p.PlacedLength) * scale
		ph := float32(p.PlacedWidth) * scale
		pos := fyne.NewPos(float32(p.X)*scale, float32(p.Y)*scale)

		rect := canvas.NewRectangle(col)
		rect.Resize(fyne.NewSize(pw, ph))
		rect.Move(pos)
		r.objects = append(r.objects, rect)

		outline := canvas.NewRectangle(color.Transparent)
		outline.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		outline.StrokeWidth = 1
		outline.Resize(fyne.NewSize(pw, ph))
		outline.Move(pos)
		r.objects = append(r.objects, outline)

		if pw > 30 && ph > 16 {
			label := canvas.NewText(placementCaption(p), color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(pos.X+3, pos.Y+2))
			r.objects = append(r.objects, label)
		}
	}
}

// placementCaption is the label drawn inside a placed panel.
func placementCaption(p model.Placement) string {
	name := p.Label
	if name == "" {
		name = p.PanelID
	}
	caption := fmt.Sprintf("%s %.0fx%.0f", name, p.PlacedLength, p.PlacedWidth)
	if p.Rotated {
		caption += " R"
	}
	return caption
}

func (r *sheetCanvasRenderer) Layout(size fyne.Size)        {}
func (r *sheetCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *sheetCanvasRenderer) Destroy()                     {}
func (r *sheetCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *sheetCanvasRenderer) MinSize() fyne.Size {
	scale := r.scale()
	return fyne.NewSize(float32(r.sc.meta.Width)*scale, float32(r.sc.meta.Height)*scale)
}

// RenderLayout creates a scrollable list of every sheet in the result
// followed by the unplaceable panels and a stock breakdown.
func RenderLayout(result *model.OptimizationResult, stocks []model.StockSheetSpec) fyne.CanvasObject {
	if result == nil || result.SheetCount == 0 {
		return widget.NewLabel("No sheets in this layout.")
	}

	var items []fyne.CanvasObject
	for _, meta := range result.SheetsMetadata {
		placements := result.PlacementsOnSheet(meta.GlobalSheetIndex)
		header := widget.NewLabel(sheetHeading(meta, placements))
		header.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, header, NewSheetCanvas(meta, placements, 600, 400), widget.NewSeparator())
	}

	if len(result.Errors) > 0 {
		warning := widget.NewLabel(fmt.Sprintf(
			"WARNING: %d panel(s) could not be placed on any stock sheet.", len(result.Errors)))
		warning.Importance = widget.DangerImportance
		items = append(items, warning)
	}

	if lines := stockBreakdown(*result); len(lines) > 1 {
		heading := widget.NewLabel("Stock Size Breakdown:")
		heading.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, widget.NewSeparator(), heading)
		for _, line := range lines {
			items = append(items, widget.NewLabel(line))
		}
	}

	summary := widget.NewLabel(summaryLine(*result, stocks))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}

func sheetHeading(meta model.SheetMetadata, placements []model.Placement) string {
	var used float64
	for _, p := range placements {
		used += p.Area()
	}
	util := 0.0
	if meta.Area() > 0 {
		util = used / meta.Area() * 100
	}
	return fmt.Sprintf("Sheet %d: %s (%.0f x %.0f), %d panels, %.1f%% used",
		meta.GlobalSheetIndex+1, meta.Label, meta.Width, meta.Height, len(placements), util)
}

func summaryLine(result model.OptimizationResult, stocks []model.StockSheetSpec) string {
	line := fmt.Sprintf("Total: %d sheets, %d%% waste, %d cuts",
		result.SheetCount, result.Stats.WastePercent, result.Stats.TotalCuts)
	if est := model.EstimatePurchase(result, stocks); est.TotalCost.IsPositive() {
		line += fmt.Sprintf(" | Material cost: %s", est.TotalCost.StringFixed(2))
	}
	return line
}

// stockBreakdown groups sheets by size, in first-seen order, and reports
// count, panels and utilization per size.
func stockBreakdown(result model.OptimizationResult) []string {
	type sizeKey struct{ w, h float64 }
	type sizeStats struct {
		count     int
		panels    int
		usedArea  float64
		totalArea float64
	}

	var order []sizeKey
	stats := make(map[sizeKey]*sizeStats)
	for _, meta := range result.SheetsMetadata {
		key := sizeKey{meta.Width, meta.Height}
		s, ok := stats[key]
		if !ok {
			s = &sizeStats{}
			stats[key] = s
			order = append(order, key)
		}
		s.count++
		s.totalArea += meta.Area()
		for _, p := range result.PlacementsOnSheet(meta.GlobalSheetIndex) {
			s.panels++
			s.usedArea += p.Area()
		}
	}

	lines := make([]string, 0, len(order))
	for _, key := range order {
		s := stats[key]
		util := 0.0
		if s.totalArea > 0 {
			util = s.usedArea / s.totalArea * 100
		}
		lines = append(lines, fmt.Sprintf("  %.0f x %.0f: %d sheet(s), %d panels, %.1f%% used",
			key.w, key.h, s.count, s.panels, util))
	}
	return lines
}
