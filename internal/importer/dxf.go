package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/PanelNest/internal/model"
)

// chainTolerance is the largest endpoint gap, in mm, that still joins two
// loose segments.
const chainTolerance = 0.01

type point struct{ x, y float64 }

// shape is a closed outline read from a drawing.
type shape []point

type segment struct{ start, end point }

// bounds returns the axis-aligned extent of the shape.
func (s shape) bounds() (width, height float64) {
	if len(s) == 0 {
		return 0, 0
	}
	minX, minY := s[0].x, s[0].y
	maxX, maxY := minX, minY
	for _, p := range s[1:] {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	return maxX - minX, maxY - minY
}

func (s shape) area() float64 {
	n := len(s)
	if n < 3 {
		return 0
	}
	var a float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += s[i].x*s[j].y - s[j].x*s[i].y
	}
	return math.Abs(a) / 2
}

// ImportDXF reads panels from a DXF drawing. Each closed shape (LWPOLYLINE,
// CIRCLE, or a chain of connected LINEs and ARCs) becomes one panel sized to
// its bounding box.
func ImportDXF(path string) ImportResult {
	drawing, err := dxf.Open(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open DXF file: %v", err)}}
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		return ImportResult{Errors: []string{"DXF file contains no entities"}}
	}

	var shapes []shape
	var segments []segment
	var warnings []string
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			s := polylineShape(e.Vertices, e.Bulges)
			if len(s) < 3 {
				warnings = append(warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			shapes = append(shapes, s)
		case *entity.Circle:
			shapes = append(shapes, circleShape(e.Center[0], e.Center[1], e.Radius, 64))
		case *entity.Arc:
			pts := arcPoints(e.Circle.Center[0], e.Circle.Center[1], e.Circle.Radius, e.Angle[0], e.Angle[1], 32)
			segments = append(segments, pointsToSegments(pts)...)
		case *entity.Line:
			segments = append(segments, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})
		}
	}
	shapes = append(shapes, chainSegments(segments, chainTolerance)...)

	result := shapesToPanels(shapes)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// shapesToPanels converts closed shapes into bounding-box panels of quantity one.
func shapesToPanels(shapes []shape) ImportResult {
	var result ImportResult
	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, s := range shapes {
		length, width := s.bounds()
		if length < chainTolerance || width < chainTolerance {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f mm)", length, width))
			continue
		}
		result.Panels = append(result.Panels, model.NewPanel(fmt.Sprintf("DXF Panel %d", i+1), length, width, 1))
	}
	return result
}

// polylineShape flattens polyline vertices. A non-zero bulge on a vertex
// turns the edge to the next vertex into an arc.
func polylineShape(vertices [][]float64, bulges []float64) shape {
	var s shape
	for i, v := range vertices {
		if len(v) < 2 {
			continue
		}
		current := point{v[0], v[1]}

		bulge := 0.0
		if i < len(bulges) {
			bulge = bulges[i]
		}
		if math.Abs(bulge) <= 1e-9 {
			s = append(s, current)
			continue
		}

		nv := vertices[(i+1)%len(vertices)]
		if len(nv) < 2 {
			s = append(s, current)
			continue
		}
		arc := bulgeArc(current, point{nv[0], nv[1]}, bulge, 32)
		s = append(s, arc[:len(arc)-1]...)
	}
	return s
}

// bulgeArc interpolates the arc between p1 and p2. The bulge is the tangent
// of a quarter of the included angle; negative bulges run clockwise.
func bulgeArc(p1, p2 point, bulge float64, steps int) []point {
	dx, dy := p2.x-p1.x, p2.y-p1.y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return []point{p1, p2}
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	perpX, perpY := -dy/chord, dx/chord
	if bulge < 0 {
		perpX, perpY = -perpX, -perpY
	}
	dist := radius - sagitta
	cx := (p1.x+p2.x)/2 + perpX*dist
	cy := (p1.y+p2.y)/2 + perpY*dist

	start := math.Atan2(p1.y-cy, p1.x-cx)
	end := math.Atan2(p2.y-cy, p2.x-cx)
	if bulge < 0 {
		if end > start {
			end -= 2 * math.Pi
		}
	} else if end < start {
		end += 2 * math.Pi
	}

	pts := make([]point, steps+1)
	for i := range pts {
		a := start + float64(i)/float64(steps)*(end-start)
		pts[i] = point{cx + radius*math.Cos(a), cy + radius*math.Sin(a)}
	}
	return pts
}

func circleShape(cx, cy, r float64, steps int) shape {
	s := make(shape, steps)
	for i := range s {
		a := 2 * math.Pi * float64(i) / float64(steps)
		s[i] = point{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return s
}

// arcPoints samples a DXF ARC given in degrees, counter-clockwise from start to end.
func arcPoints(cx, cy, r, startDeg, endDeg float64, steps int) []point {
	start := startDeg * math.Pi / 180
	end := endDeg * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}
	pts := make([]point, steps+1)
	for i := range pts {
		a := start + float64(i)/float64(steps)*(end-start)
		pts[i] = point{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return pts
}

func pointsToSegments(pts []point) []segment {
	if len(pts) < 2 {
		return nil
	}
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{pts[i], pts[i+1]})
	}
	return segs
}

// chainSegments joins loose segments end to end. Chains that close on
// themselves are returned as shapes, largest area first.
func chainSegments(segs []segment, tolerance float64) []shape {
	used := make([]bool, len(segs))
	var shapes []shape

	for first := range segs {
		if used[first] {
			continue
		}
		used[first] = true
		chain := shape{segs[first].start, segs[first].end}

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				switch {
				case near(tail, seg.start, tolerance):
					chain = append(chain, seg.end)
				case near(tail, seg.end, tolerance):
					chain = append(chain, seg.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		// Open chains are not shapes.
		if len(chain) < 4 || !near(chain[0], chain[len(chain)-1], tolerance) {
			continue
		}
		shapes = append(shapes, chain[:len(chain)-1])
	}

	sort.SliceStable(shapes, func(i, j int) bool {
		return shapes[i].area() > shapes[j].area()
	})
	return shapes
}

func near(a, b point, tolerance float64) bool {
	return math.Hypot(a.x-b.x, a.y-b.y) <= tolerance
}
