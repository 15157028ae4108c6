package widgets

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PanelNest/internal/gcode"
	"github.com/piwi3910/PanelNest/internal/model"
)

// Toolpath colors by move type.
var (
	colorRapid   = color.NRGBA{R: 255, G: 60, B: 60, A: 200}
	colorFeed    = color.NRGBA{R: 30, G: 120, B: 255, A: 230}
	colorPlunge  = color.NRGBA{R: 50, G: 200, B: 50, A: 220}
	colorRetract = color.NRGBA{R: 180, G: 180, B: 0, A: 180}
	colorSheet   = color.NRGBA{R: 230, G: 210, B: 175, A: 255}
	colorPanel   = color.NRGBA{R: 200, G: 220, B: 255, A: 120}
	colorTab     = color.NRGBA{R: 255, G: 165, B: 0, A: 220}
)

// rect is an axis-aligned rectangle in sheet millimetres.
type rect struct{ x, y, w, h float64 }

// GCodePreview renders the toolpath of one sheet program over the sheet and
// its panel outlines.
type GCodePreview struct {
	widget.BaseWidget
	moves      []gcode.Move
	placements []model.Placement
	settings   gcode.Settings
	sheetW     float64
	sheetH     float64
	maxWidth   float32
	maxHeight  float32
}

func NewGCodePreview(moves []gcode.Move, placements []model.Placement, settings gcode.Settings, sheetW, sheetH float64, maxW, maxH float32) *GCodePreview {
	gp := &GCodePreview{
		moves:      moves,
		placements: placements,
		settings:   settings,
		sheetW:     sheetW,
		sheetH:     sheetH,
		maxWidth:   maxW,
		maxHeight:  maxH,
	}
	gp.ExtendBaseWidget(gp)
	return gp
}

func (gp *GCodePreview) CreateRenderer() fyne.WidgetRenderer {
	return newGCodePreviewRenderer(gp)
}

type gcodePreviewRenderer struct {
	gp      *GCodePreview
	objects []fyne.CanvasObject
}

func newGCodePreviewRenderer(gp *GCodePreview) *gcodePreviewRenderer {
	r := &gcodePreviewRenderer{gp: gp}
	r.rebuild()
	return r
}

// geometry returns the scale and the margin left for the tool radius.
func (r *gcodePreviewRenderer) geometry() (scale, margin float32) {
	gp := r.gp
	margin = float32(gp.settings.ToolDiameter) + 10
	return fitScale(gp.sheetW, gp.sheetH, gp.maxWidth-margin*2, gp.maxHeight-margin*2), margin
}

func (r *gcodePreviewRenderer) rebuild() {
	r.objects = nil

	gp := r.gp
	if gp.sheetW <= 0 || gp.sheetH <= 0 {
		return
	}
	scale, margin := r.geometry()
	at := func(x, y float64) fyne.Position {
		return fyne.NewPos(float32(x)*scale+margin, float32(y)*scale+margin)
	}

	bg := canvas.NewRectangle(colorSheet)
	bg.StrokeColor = color.NRGBA{R: 80, G: 80, B: 80, A: 255}
	bg.StrokeWidth = 2
	bg.Resize(fyne.NewSize(float32(gp.sheetW)*scale, float32(gp.sheetH)*scale))
	bg.Move(at(0, 0))
	r.objects = append(r.objects, bg)

	for _, p := range gp.placements {
		outline := canvas.NewRectangle(colorPanel)
		outline.StrokeColor = color.NRGBA{R: 100, G: 130, B: 180, A: 200}
		outline.StrokeWidth = 1.5
		outline.Resize(fyne.NewSize(float32(p.PlacedLength)*scale, float32(p.PlacedWidth)*scale))
		outline.Move(at(p.X, p.Y))
		r.objects = append(r.objects, outline)
	}

	for _, t := range tabMarkers(gp.placements, gp.settings) {
		tab := canvas.NewRectangle(colorTab)
		tab.Resize(fyne.NewSize(float32(t.w)*scale+1, float32(t.h)*scale+1))
		tab.Move(at(t.x, t.y))
		r.objects = append(r.objects, tab)
	}

	for _, m := range gp.moves {
		xy := math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)
		switch m.Type {
		case gcode.MoveRapid:
			if xy < 0.01 {
				continue
			}
			r.addLine(at(m.FromX, m.FromY), at(m.ToX, m.ToY), colorRapid, 1)
		case gcode.MoveFeed:
			if xy < 0.01 {
				continue
			}
			r.addLine(at(m.FromX, m.FromY), at(m.ToX, m.ToY), colorFeed, 2)
		case gcode.MovePlunge:
			r.addMarker(at(m.FromX, m.FromY), colorPlunge, 4)
		case gcode.MoveRetract:
			if xy < 0.01 {
				r.addMarker(at(m.FromX, m.FromY), colorRetract, 3)
			} else {
				r.addLine(at(m.FromX, m.FromY), at(m.ToX, m.ToY), colorRetract, 1)
			}
		}
	}
}

func (r *gcodePreviewRenderer) addLine(from, to fyne.Position, col color.NRGBA, width float32) {
	line := canvas.NewLine(col)
	line.StrokeWidth = width
	line.Position1 = from
	line.Position2 = to
	r.objects = append(r.objects, line)
}

func (r *gcodePreviewRenderer) addMarker(pos fyne.Position, col color.NRGBA, size float32) {
	marker := canvas.NewCircle(col)
	marker.Resize(fyne.NewSize(size, size))
	marker.Move(fyne.NewPos(pos.X-size/2, pos.Y-size/2))
	r.objects = append(r.objects, marker)
}

// tabMarkers returns the holding tab positions the generator leaves on the
// tool-centre perimeter of each placement, walking each side from its start
// corner.
func tabMarkers(placements []model.Placement, s gcode.Settings) []rect {
	if s.TabsPerSide <= 0 || s.TabWidth <= 0 {
		return nil
	}
	const thickness = 2.0

	toolR := s.ToolDiameter / 2
	var tabs []rect
	for _, p := range placements {
		x0, y0 := p.X-toolR, p.Y-toolR
		x1 := p.X + math.Max(p.PlacedLength-s.Kerf, 0) + toolR
		y1 := p.Y + math.Max(p.PlacedWidth-s.Kerf, 0) + toolR
		corners := [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}

		for side := 0; side < 4; side++ {
			from, to := corners[side], corners[side+1]
			dx, dy := to[0]-from[0], to[1]-from[1]
			length := math.Hypot(dx, dy)
			if length < 1e-6 {
				continue
			}
			ux, uy := dx/length, dy/length
			spacing := length / float64(s.TabsPerSide+1)
			for t := 1; t <= s.TabsPerSide; t++ {
				cx := from[0] + ux*spacing*float64(t)
				cy := from[1] + uy*spacing*float64(t)
				w, h := thickness, thickness
				if uy == 0 {
					w = s.TabWidth
				} else {
					h = s.TabWidth
				}
				tabs = append(tabs, rect{x: cx - w/2, y: cy - h/2, w: w, h: h})
			}
		}
	}
	return tabs
}

func (r *gcodePreviewRenderer) Layout(size fyne.Size)        {}
func (r *gcodePreviewRenderer) Refresh()                     { r.rebuild() }
func (r *gcodePreviewRenderer) Destroy()                     {}
func (r *gcodePreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *gcodePreviewRenderer) MinSize() fyne.Size {
	gp := r.gp
	if gp.sheetW <= 0 || gp.sheetH <= 0 {
		return fyne.NewSize(100, 100)
	}
	scale, margin := r.geometry()
	return fyne.NewSize(float32(gp.sheetW)*scale+margin*2, float32(gp.sheetH)*scale+margin*2)
}

// RenderGCodePreview parses a sheet program and returns its toolpath preview.
func RenderGCodePreview(meta model.SheetMetadata, placements []model.Placement, settings gcode.Settings, program string) fyne.CanvasObject {
	return NewGCodePreview(gcode.ParseGCode(program), placements, settings, meta.Width, meta.Height, 700, 450)
}
