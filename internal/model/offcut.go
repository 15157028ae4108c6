package model

import (
	"sort"

	"github.com/google/uuid"
)

// Offcut represents a usable rectangular remnant left on a sheet after cutting.
type Offcut struct {
	ID               string  `json:"id"`
	SheetLabel       string  `json:"sheetLabel"`
	GlobalSheetIndex int     `json:"globalSheetIndex"`
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
}

// Area returns the area of the offcut.
func (o Offcut) Area() float64 {
	return o.Width * o.Height
}

// ToStockSheet converts an offcut into a stock sheet for reuse in later runs.
// The offcut width runs along the sheet's length axis.
func (o Offcut) ToStockSheet(group MaterialGroup) StockSheetSpec {
	sheet := NewStockSheet("Offcut "+o.SheetLabel, o.Width, o.Height, 1)
	sheet.MaterialGroup = group
	return sheet
}

// MinOffcutDimension is the minimum width or height for a remnant to count as
// a usable offcut.
const MinOffcutDimension = 50.0

// MinOffcutArea is the minimum area for a remnant to count as a usable offcut.
const MinOffcutArea = 10000.0 // 100mm x 100mm equivalent

// DetectOffcuts finds the strip to the right of and the strip below the bounding
// box of the placements on one sheet. Placement dimensions already include kerf.
func DetectOffcuts(meta SheetMetadata, placements []Placement) []Offcut {
	sheetW := meta.Width
	sheetH := meta.Height

	if len(placements) == 0 {
		return []Offcut{{
			ID:               uuid.New().String()[:8],
			SheetLabel:       meta.Label,
			GlobalSheetIndex: meta.GlobalSheetIndex,
			Width:            sheetW,
			Height:           sheetH,
		}}
	}

	var maxRight, maxBottom float64
	for _, p := range placements {
		maxRight = max(maxRight, p.Right())
		maxBottom = max(maxBottom, p.Bottom())
	}

	var offcuts []Offcut

	rightW := sheetW - maxRight
	if usable(rightW, sheetH) {
		offcuts = append(offcuts, Offcut{
			ID:               uuid.New().String()[:8],
			SheetLabel:       meta.Label,
			GlobalSheetIndex: meta.GlobalSheetIndex,
			X:                maxRight,
			Width:            rightW,
			Height:           sheetH,
		})
	}

	// Only up to the right edge of the parts so it does not overlap the right strip.
	bottomH := sheetH - maxBottom
	bottomW := min(maxRight, sheetW)
	if usable(bottomW, bottomH) {
		offcuts = append(offcuts, Offcut{
			ID:               uuid.New().String()[:8],
			SheetLabel:       meta.Label,
			GlobalSheetIndex: meta.GlobalSheetIndex,
			Y:                maxBottom,
			Width:            bottomW,
			Height:           bottomH,
		})
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Area() > offcuts[j].Area()
	})
	return offcuts
}

func usable(w, h float64) bool {
	return w >= MinOffcutDimension && h >= MinOffcutDimension && w*h >= MinOffcutArea
}

// DetectAllOffcuts finds offcuts across every sheet of a result.
func DetectAllOffcuts(result OptimizationResult) []Offcut {
	var all []Offcut
	for _, meta := range result.SheetsMetadata {
		all = append(all, DetectOffcuts(meta, result.PlacementsOnSheet(meta.GlobalSheetIndex))...)
	}
	return all
}

// TotalOffcutArea returns the combined area of the offcuts.
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
