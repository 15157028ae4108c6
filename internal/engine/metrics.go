package engine

import (
	"math"

	"github.com/piwi3910/PanelNest/internal/model"
)

// ComputeStats derives area, waste and cut statistics for a layout. Every
// placement is counted as two cuts and its perimeter as cut length.
func ComputeStats(placements []model.Placement, sheets []model.SheetMetadata) model.Stats {
	var stats model.Stats
	for _, s := range sheets {
		stats.TotalSheetArea += s.Area()
	}
	for _, p := range placements {
		stats.UsedArea += p.Area()
		stats.CutLength += 2 * (p.PlacedLength + p.PlacedWidth)
	}
	stats.WastedArea = stats.TotalSheetArea - stats.UsedArea
	stats.TotalCuts = 2 * len(placements)
	if stats.TotalSheetArea > 0 {
		stats.WastePercent = int(math.Round(100 * stats.WastedArea / stats.TotalSheetArea))
	}
	return stats
}
