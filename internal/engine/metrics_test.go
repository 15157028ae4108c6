package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/PanelNest/internal/model"
)

func TestComputeStats(t *testing.T) {
	sheets := []model.SheetMetadata{{Width: 1000, Height: 1000}, {Width: 1000, Height: 1000}}
	placements := []model.Placement{
		{PlacedLength: 1000, PlacedWidth: 500},
		{PlacedLength: 500, PlacedWidth: 500},
	}

	stats := ComputeStats(placements, sheets)

	assert.Equal(t, 2_000_000.0, stats.TotalSheetArea)
	assert.Equal(t, 750_000.0, stats.UsedArea)
	assert.Equal(t, 1_250_000.0, stats.WastedArea)
	assert.Equal(t, 63, stats.WastePercent)
	assert.Equal(t, 4, stats.TotalCuts)
	assert.Equal(t, 2*(1500.0)+2*(1000.0), stats.CutLength)
}

func TestComputeStats_NoSheets(t *testing.T) {
	assert.Equal(t, model.Stats{}, ComputeStats(nil, nil))
}
