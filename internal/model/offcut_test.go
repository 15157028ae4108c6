package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectOffcutsEmptySheet(t *testing.T) {
	meta := SheetMetadata{Label: "Test", Width: 2440, Height: 1220}

	offcuts := DetectOffcuts(meta, nil)

	require.Len(t, offcuts, 1)
	assert.Equal(t, 2440.0, offcuts[0].Width)
	assert.Equal(t, 1220.0, offcuts[0].Height)
}

func TestDetectOffcutsRightStrip(t *testing.T) {
	meta := SheetMetadata{Label: "Sheet1", Width: 2440, Height: 1220}
	placements := []Placement{{X: 0, Y: 0, PlacedLength: 1003, PlacedWidth: 1220}}

	offcuts := DetectOffcuts(meta, placements)

	require.Len(t, offcuts, 1)
	assert.Equal(t, 1003.0, offcuts[0].X)
	assert.Equal(t, 1437.0, offcuts[0].Width)
	assert.Equal(t, 1220.0, offcuts[0].Height)
}

func TestDetectOffcutsBottomStrip(t *testing.T) {
	meta := SheetMetadata{Label: "Sheet1", Width: 2440, Height: 1220}
	placements := []Placement{{X: 0, Y: 0, PlacedLength: 2440, PlacedWidth: 503}}

	offcuts := DetectOffcuts(meta, placements)

	require.Len(t, offcuts, 1)
	assert.Equal(t, 503.0, offcuts[0].Y)
	assert.Equal(t, 717.0, offcuts[0].Height)
	assert.Equal(t, 2440.0, offcuts[0].Width)
}

func TestDetectOffcutsSmallRemnantIgnored(t *testing.T) {
	meta := SheetMetadata{Label: "Sheet1", Width: 500, Height: 500}
	placements := []Placement{{PlacedLength: 483, PlacedWidth: 483}}

	assert.Empty(t, DetectOffcuts(meta, placements))
}

func TestDetectOffcutsSortedByArea(t *testing.T) {
	meta := SheetMetadata{Label: "Sheet1", Width: 2440, Height: 1220}
	placements := []Placement{{PlacedLength: 2000, PlacedWidth: 300}}

	offcuts := DetectOffcuts(meta, placements)

	require.Len(t, offcuts, 2)
	assert.GreaterOrEqual(t, offcuts[0].Area(), offcuts[1].Area())
}

func TestDetectAllOffcuts(t *testing.T) {
	result := OptimizationResult{
		SheetsMetadata: []SheetMetadata{
			{GlobalSheetIndex: 0, Label: "A", Width: 1000, Height: 1000},
			{GlobalSheetIndex: 1, Label: "B", Width: 1000, Height: 1000},
		},
		Placements: []Placement{
			{GlobalSheetIndex: 0, PlacedLength: 1000, PlacedWidth: 1000},
			{GlobalSheetIndex: 1, PlacedLength: 500, PlacedWidth: 1000},
		},
	}

	offcuts := DetectAllOffcuts(result)

	require.Len(t, offcuts, 1)
	assert.Equal(t, 1, offcuts[0].GlobalSheetIndex)
	assert.Equal(t, 500.0*1000.0, TotalOffcutArea(offcuts))
}

func TestOffcutToStockSheet(t *testing.T) {
	o := Offcut{SheetLabel: "Birch", Width: 800, Height: 400}

	s := o.ToStockSheet(MaterialDoors)

	assert.Equal(t, "Offcut Birch", s.Label)
	assert.Equal(t, 800.0, s.Length)
	assert.Equal(t, 400.0, s.Width)
	assert.Equal(t, 1, s.Quantity)
	assert.Equal(t, MaterialDoors, s.MaterialGroup)
}
