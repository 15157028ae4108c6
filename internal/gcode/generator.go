package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/PanelNest/internal/model"
)

// Generator produces GCode that cuts the panels of a nested layout.
type Generator struct {
	Settings Settings
	profile  Profile
}

func New(settings Settings) *Generator {
	return &Generator{
		Settings: settings,
		profile:  GetProfile(settings.Profile),
	}
}

// NewWithProfile returns a Generator that uses p instead of looking up
// settings.Profile.
func NewWithProfile(settings Settings, p Profile) *Generator {
	return &Generator{Settings: settings, profile: p}
}

// Profile returns the controller profile in use.
func (g *Generator) Profile() Profile {
	return g.profile
}

// GenerateSheet produces the program for one sheet. Each panel is cut along
// its nominal outline with the tool centre offset outside it by the tool radius.
func (g *Generator) GenerateSheet(meta model.SheetMetadata, placements []model.Placement) string {
	var b strings.Builder

	g.writeHeader(&b, meta, placements)
	for i, p := range placements {
		g.writePanel(&b, p, i+1)
	}
	g.writeFooter(&b)

	return b.String()
}

// GenerateAll produces one program per sheet in sheet index order.
func (g *Generator) GenerateAll(result model.OptimizationResult) []string {
	programs := make([]string, 0, len(result.SheetsMetadata))
	for _, meta := range result.SheetsMetadata {
		programs = append(programs, g.GenerateSheet(meta, result.PlacementsOnSheet(meta.GlobalSheetIndex)))
	}
	return programs
}

func (g *Generator) writeHeader(b *strings.Builder, meta model.SheetMetadata, placements []model.Placement) {
	s := g.Settings

	var used float64
	for _, p := range placements {
		used += p.Area()
	}
	utilization := 0.0
	if meta.Area() > 0 {
		utilization = 100 * used / meta.Area()
	}

	label := meta.Label
	if label == "" {
		label = meta.StockSheetID
	}
	b.WriteString(g.comment(fmt.Sprintf("PanelNest sheet %d (%s)", meta.GlobalSheetIndex+1, label)))
	b.WriteString(g.comment(fmt.Sprintf("Stock %.1f x %.1f mm", meta.Width, meta.Height)))
	b.WriteString(g.comment(fmt.Sprintf("Panels %d, utilization %.1f%%", len(placements), utilization)))
	b.WriteString(g.comment(fmt.Sprintf("Tool %.1fmm, feed %.0f, plunge %.0f", s.ToolDiameter, s.FeedRate, s.PlungeRate)))
	b.WriteString(g.comment(fmt.Sprintf("Depth %.1fmm in %d passes", s.CutDepth, s.passes())))
	b.WriteString(g.comment("Profile " + g.profile.Name))
	b.WriteString("\n")

	for _, code := range g.profile.StartCode {
		b.WriteString(code + "\n")
	}
	if g.profile.SpindleStart != "" {
		fmt.Fprintf(b, g.profile.SpindleStart+"\n", s.SpindleSpeed)
	}
	fmt.Fprintf(b, "%s Z%s\n", g.profile.RapidMove, g.format(s.SafeZ))
	fmt.Fprintf(b, "%s X%s Y%s\n", g.profile.RapidMove, g.format(0), g.format(0))
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	b.WriteString(g.comment("Job complete"))
	if g.profile.SpindleStop != "" {
		b.WriteString(g.profile.SpindleStop + "\n")
	}
	for _, code := range g.profile.EndCode {
		b.WriteString(strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ)) + "\n")
	}
}

// cutRect returns the tool centre rectangle for a placement.
func (g *Generator) cutRect(p model.Placement) (x0, y0, x1, y1 float64) {
	toolR := g.Settings.ToolDiameter / 2
	length := math.Max(p.PlacedLength-g.Settings.Kerf, 0)
	width := math.Max(p.PlacedWidth-g.Settings.Kerf, 0)
	return p.X - toolR, p.Y - toolR, p.X + length + toolR, p.Y + width + toolR
}

func (g *Generator) writePanel(b *strings.Builder, p model.Placement, n int) {
	s := g.Settings
	x0, y0, x1, y1 := g.cutRect(p)

	rotated := ""
	if p.Rotated {
		rotated = " rotated"
	}
	b.WriteString(g.comment(fmt.Sprintf("Panel %d: %s %s %.1f x %.1f%s",
		n, p.PanelInstanceID, p.Label, p.PlacedLength-s.Kerf, p.PlacedWidth-s.Kerf, rotated)))

	passes := s.passes()
	for pass := 1; pass <= passes; pass++ {
		depth := s.CutDepth
		if passes > 1 {
			depth = math.Min(float64(pass)*s.PassDepth, s.CutDepth)
		}
		b.WriteString(g.comment(fmt.Sprintf("Pass %d/%d depth %.2f", pass, passes, depth)))

		fmt.Fprintf(b, "%s X%s Y%s\n", g.profile.RapidMove, g.format(x0), g.format(y0))
		fmt.Fprintf(b, "%s Z%s F%s\n", g.profile.FeedMove, g.format(-depth), g.format(s.PlungeRate))

		if pass == passes && s.TabsPerSide > 0 {
			g.writeTabbedPerimeter(b, x0, y0, x1, y1, depth)
		} else {
			g.writePerimeter(b, x0, y0, x1, y1)
		}

		fmt.Fprintf(b, "%s Z%s\n", g.profile.RapidMove, g.format(s.SafeZ))
	}
	b.WriteString("\n")
}

func (g *Generator) writePerimeter(b *strings.Builder, x0, y0, x1, y1 float64) {
	f := g.profile.FeedMove
	fmt.Fprintf(b, "%s X%s Y%s F%s\n", f, g.format(x1), g.format(y0), g.format(g.Settings.FeedRate))
	fmt.Fprintf(b, "%s X%s Y%s\n", f, g.format(x1), g.format(y1))
	fmt.Fprintf(b, "%s X%s Y%s\n", f, g.format(x0), g.format(y1))
	fmt.Fprintf(b, "%s X%s Y%s\n", f, g.format(x0), g.format(y0))
}

// writeTabbedPerimeter cuts the perimeter and lifts over evenly spaced tabs
// on each side so the panel stays attached to the sheet.
func (g *Generator) writeTabbedPerimeter(b *strings.Builder, x0, y0, x1, y1, depth float64) {
	corners := [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
	for i := 0; i < 4; i++ {
		g.writeTabbedSide(b, corners[i], corners[i+1], depth)
	}
}

func (g *Generator) writeTabbedSide(b *strings.Builder, from, to [2]float64, depth float64) {
	s := g.Settings
	f := g.profile.FeedMove

	dx, dy := to[0]-from[0], to[1]-from[1]
	length := math.Hypot(dx, dy)
	if length < 1e-6 {
		return
	}
	ux, uy := dx/length, dy/length
	tabZ := math.Min(-(depth - s.TabHeight), 0)
	spacing := length / float64(s.TabsPerSide+1)

	for t := 1; t <= s.TabsPerSide; t++ {
		start := spacing*float64(t) - s.TabWidth/2
		end := spacing*float64(t) + s.TabWidth/2
		fmt.Fprintf(b, "%s X%s Y%s F%s\n", f, g.format(from[0]+ux*start), g.format(from[1]+uy*start), g.format(s.FeedRate))
		fmt.Fprintf(b, "%s Z%s\n", f, g.format(tabZ))
		fmt.Fprintf(b, "%s X%s Y%s\n", f, g.format(from[0]+ux*end), g.format(from[1]+uy*end))
		fmt.Fprintf(b, "%s Z%s\n", f, g.format(-depth))
	}
	fmt.Fprintf(b, "%s X%s Y%s F%s\n", f, g.format(to[0]), g.format(to[1]), g.format(s.FeedRate))
}

func (g *Generator) comment(text string) string {
	if g.profile.CommentSuffix != "" {
		return g.profile.CommentPrefix + " " + text + " " + g.profile.CommentSuffix + "\n"
	}
	return g.profile.CommentPrefix + " " + text + "\n"
}

func (g *Generator) format(v float64) string {
	return fmt.Sprintf("%.*f", g.profile.DecimalPlaces, v)
}
