package widgets

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PanelNest/internal/gcode"
	"github.com/piwi3910/PanelNest/internal/model"
)

func twoSizeResult() model.OptimizationResult {
	return model.OptimizationResult{
		SheetCount: 3,
		SheetsMetadata: []model.SheetMetadata{
			{GlobalSheetIndex: 0, Width: 1000, Height: 500, StockSheetID: "big"},
			{GlobalSheetIndex: 1, Width: 400, Height: 400, StockSheetID: "small"},
			{GlobalSheetIndex: 2, Width: 1000, Height: 500, StockSheetID: "big"},
		},
		Placements: []model.Placement{
			{GlobalSheetIndex: 0, PlacedLength: 500, PlacedWidth: 500},
			{GlobalSheetIndex: 1, PlacedLength: 200, PlacedWidth: 200},
			{GlobalSheetIndex: 2, PlacedLength: 1000, PlacedWidth: 500},
		},
		Stats: model.Stats{WastePercent: 37, TotalCuts: 6},
	}
}

func TestFitScale(t *testing.T) {
	assert.Equal(t, float32(0.5), fitScale(1200, 400, 600, 400))
	assert.Equal(t, float32(0.25), fitScale(1000, 1600, 600, 400))
	assert.Equal(t, float32(1), fitScale(0, 100, 600, 400))
}

func TestStockBreakdown_GroupsBySizeInOrder(t *testing.T) {
	lines := stockBreakdown(twoSizeResult())

	require.Len(t, lines, 2)
	assert.Equal(t, "  1000 x 500: 2 sheet(s), 2 panels, 75.0% used", lines[0])
	assert.Equal(t, "  400 x 400: 1 sheet(s), 1 panels, 25.0% used", lines[1])
}

func TestSummaryLine_IncludesCostWhenPriced(t *testing.T) {
	result := twoSizeResult()

	assert.Equal(t, "Total: 3 sheets, 37% waste, 6 cuts", summaryLine(result, nil))

	stocks := []model.StockSheetSpec{{ID: "big", PricePerSheet: decimal.RequireFromString("20")}}
	assert.Equal(t, "Total: 3 sheets, 37% waste, 6 cuts | Material cost: 40.00", summaryLine(result, stocks))
}

func TestPlacementCaption(t *testing.T) {
	assert.Equal(t, "Door 700x400", placementCaption(model.Placement{Label: "Door", PlacedLength: 700, PlacedWidth: 400}))
	assert.Equal(t, "p1 300x200 R", placementCaption(model.Placement{PanelID: "p1", PlacedLength: 300, PlacedWidth: 200, Rotated: true}))
}

func TestSheetHeading(t *testing.T) {
	meta := model.SheetMetadata{GlobalSheetIndex: 0, Label: "Ply", Width: 1000, Height: 500}
	got := sheetHeading(meta, []model.Placement{{PlacedLength: 250, PlacedWidth: 500}})

	assert.Equal(t, "Sheet 1: Ply (1000 x 500), 1 panels, 25.0% used", got)
}

func TestTabMarkers(t *testing.T) {
	s := gcode.Settings{ToolDiameter: 6, Kerf: 6, TabsPerSide: 1, TabWidth: 8}
	placements := []model.Placement{{X: 10, Y: 10, PlacedLength: 106, PlacedWidth: 56}}

	tabs := tabMarkers(placements, s)

	require.Len(t, tabs, 4)
	// Tool-centre rectangle runs from (7,7) to (113,63).
	assert.Equal(t, rect{x: 56, y: 6, w: 8, h: 2}, tabs[0])
	assert.Equal(t, rect{x: 112, y: 31, w: 2, h: 8}, tabs[1])
	assert.Equal(t, rect{x: 56, y: 62, w: 8, h: 2}, tabs[2])
	assert.Equal(t, rect{x: 6, y: 31, w: 2, h: 8}, tabs[3])
}

func TestTabMarkers_Disabled(t *testing.T) {
	assert.Nil(t, tabMarkers([]model.Placement{{PlacedLength: 100, PlacedWidth: 100}}, gcode.Settings{TabWidth: 8}))
}
