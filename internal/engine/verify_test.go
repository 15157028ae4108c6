package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PanelNest/internal/model"
)

func layout(placements ...model.Placement) model.OptimizationResult {
	return model.OptimizationResult{
		SheetCount:     1,
		SheetsMetadata: []model.SheetMetadata{{GlobalSheetIndex: 0, Width: 1000, Height: 500}},
		Placements:     placements,
	}
}

func TestVerify_CleanLayout(t *testing.T) {
	r := layout(
		model.Placement{PanelInstanceID: "a#0", PlacedLength: 500, PlacedWidth: 500},
		model.Placement{PanelInstanceID: "b#0", X: 500, PlacedLength: 500, PlacedWidth: 500},
	)
	assert.Empty(t, Verify(r))
}

func TestVerify_Overlap(t *testing.T) {
	r := layout(
		model.Placement{PanelInstanceID: "a#0", PlacedLength: 500, PlacedWidth: 500},
		model.Placement{PanelInstanceID: "b#0", X: 499, PlacedLength: 100, PlacedWidth: 100},
	)

	v := Verify(r)

	require.Len(t, v, 1)
	assert.Equal(t, ViolationOverlap, v[0].Kind)
	assert.Equal(t, "a#0", v[0].PanelInstanceID)
	assert.Equal(t, "b#0", v[0].Other)
}

func TestVerify_OutOfBounds(t *testing.T) {
	r := layout(model.Placement{PanelInstanceID: "a#0", X: 600, PlacedLength: 500, PlacedWidth: 100})

	v := Verify(r)

	require.Len(t, v, 1)
	assert.Equal(t, ViolationOutOfBounds, v[0].Kind)
}

func TestVerify_UnknownSheetAndCount(t *testing.T) {
	r := layout(model.Placement{PanelInstanceID: "a#0", GlobalSheetIndex: 3, PlacedLength: 1, PlacedWidth: 1})
	r.SheetCount = 2

	kinds := map[ViolationKind]bool{}
	for _, v := range Verify(r) {
		kinds[v.Kind] = true
	}
	assert.True(t, kinds[ViolationUnknownSheet])
	assert.True(t, kinds[ViolationSheetCount])
}

func TestVerifyGrain(t *testing.T) {
	r := layout(
		model.Placement{PanelInstanceID: "a#0", PlacedLength: 10, PlacedWidth: 10},
		model.Placement{PanelInstanceID: "b#0", Rotated: true, X: 20, PlacedLength: 10, PlacedWidth: 10},
	)

	v := VerifyGrain(r)

	require.Len(t, v, 1)
	assert.Equal(t, "b#0", v[0].PanelInstanceID)
	assert.Contains(t, v[0].String(), "rotated-with-grain")
}
