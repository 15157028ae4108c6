package gcode

import (
	"bufio"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MoveType classifies a parsed toolpath move.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0 positioning
	MoveFeed                    // G1 cutting in XY
	MovePlunge                  // G1 down in Z only
	MoveRetract                 // any move up in Z
)

func (m MoveType) String() string {
	switch m {
	case MoveRapid:
		return "rapid"
	case MoveFeed:
		return "feed"
	case MovePlunge:
		return "plunge"
	case MoveRetract:
		return "retract"
	}
	return "unknown"
}

// Move is one G0/G1 command with the absolute position before and after it.
type Move struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

var (
	wordRe    = regexp.MustCompile(`([XYZF])(-?\d+(?:\.\d*)?)`)
	commentRe = regexp.MustCompile(`\([^)]*\)`)
)

// ParseGCode reads the G0/G1 moves of a program in absolute coordinates.
// Other commands and comments are ignored.
func ParseGCode(code string) []Move {
	var moves []Move
	var x, y, z, feed float64

	sc := bufio.NewScanner(strings.NewReader(code))
	for sc.Scan() {
		line := commentRe.ReplaceAllString(sc.Text(), "")
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		line = strings.ToUpper(strings.TrimSpace(line))
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		var rapid bool
		switch fields[0] {
		case "G0", "G00":
			rapid = true
		case "G1", "G01":
		default:
			continue
		}

		nx, ny, nz, nf := x, y, z, feed
		for _, m := range wordRe.FindAllStringSubmatch(line, -1) {
			v, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				nx = v
			case "Y":
				ny = v
			case "Z":
				nz = v
			case "F":
				nf = v
			}
		}

		moves = append(moves, Move{
			Type:  classify(rapid, x, y, z, nx, ny, nz),
			FromX: x, FromY: y, FromZ: z,
			ToX: nx, ToY: ny, ToZ: nz,
			FeedRate: nf,
		})
		x, y, z, feed = nx, ny, nz, nf
	}
	return moves
}

func classify(rapid bool, fx, fy, fz, tx, ty, tz float64) MoveType {
	dz := tz - fz
	xy := fx != tx || fy != ty
	switch {
	case dz > 1e-3:
		return MoveRetract
	case rapid:
		return MoveRapid
	case dz < -1e-3 && !xy:
		return MovePlunge
	default:
		return MoveFeed
	}
}

// CutBounds returns the XY extent of all cutting moves, those that run below
// Z0. ok is false when the program never cuts.
func CutBounds(moves []Move) (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, m := range moves {
		if m.Type != MoveFeed || m.ToZ >= 0 {
			continue
		}
		ok = true
		minX = math.Min(minX, math.Min(m.FromX, m.ToX))
		maxX = math.Max(maxX, math.Max(m.FromX, m.ToX))
		minY = math.Min(minY, math.Min(m.FromY, m.ToY))
		maxY = math.Max(maxY, math.Max(m.FromY, m.ToY))
	}
	if !ok {
		return 0, 0, 0, 0, false
	}
	return minX, minY, maxX, maxY, true
}

// MaxDepth returns the deepest Z reached as a positive number.
func MaxDepth(moves []Move) float64 {
	var d float64
	for _, m := range moves {
		d = math.Max(d, -m.ToZ)
	}
	return d
}
