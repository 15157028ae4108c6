package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PanelNest/internal/model"
)

func groupOf(length, width float64, instances ...model.PanelInstance) DemandGroup {
	return DemandGroup{Key: "s", Stock: model.StockSheetSpec{ID: "s", Length: length, Width: width}, Instances: instances}
}

func sized(id string, l, w float64) model.PanelInstance {
	return model.PanelInstance{ID: id, PanelID: id, CutLength: l, CutWidth: w}
}

func TestPackShelves_NewSheetUsesLastOrientation(t *testing.T) {
	packed := packShelves(groupOf(1000, 1000, sized("a", 300, 200)), false)

	require.Len(t, packed.placements, 1)
	p := packed.placements[0]
	assert.True(t, p.rotated)
	assert.Equal(t, 200.0, p.length)
	assert.Equal(t, 300.0, p.width)
}

func TestPackShelves_PreserveGrainNeverRotates(t *testing.T) {
	packed := packShelves(groupOf(1000, 1000, sized("a", 300, 200), sized("b", 300, 200)), true)

	require.Len(t, packed.placements, 2)
	for _, p := range packed.placements {
		assert.False(t, p.rotated)
	}
	assert.Equal(t, 300.0, packed.placements[1].x)
}

func TestPackShelves_FallbackSkipsOversizedOrientation(t *testing.T) {
	var instances []model.PanelInstance
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		instances = append(instances, sized(id, 900, 100))
	}

	packed := packShelves(groupOf(1000, 500, instances...), false)

	assert.Empty(t, packed.errors)
	assert.Equal(t, 2, packed.sheetCount)
	for i, p := range packed.placements[:5] {
		assert.Equal(t, 0, p.sheet)
		assert.False(t, p.rotated)
		assert.Equal(t, float64(i*100), p.y)
	}
	assert.Equal(t, 1, packed.placements[5].sheet)
}

func TestPackShelves_LargestAreaFirst(t *testing.T) {
	packed := packShelves(groupOf(1000, 1000,
		sized("small", 100, 100),
		sized("large", 500, 500),
		sized("medium", 300, 300),
	), true)

	require.Len(t, packed.placements, 3)
	assert.Equal(t, "large", packed.placements[0].instance.ID)
	assert.Equal(t, "medium", packed.placements[1].instance.ID)
	assert.Equal(t, "small", packed.placements[2].instance.ID)
}

func TestPackShelves_StableForEqualAreas(t *testing.T) {
	packed := packShelves(groupOf(1000, 1000,
		sized("first", 200, 100),
		sized("second", 100, 200),
	), true)

	require.Len(t, packed.placements, 2)
	assert.Equal(t, "first", packed.placements[0].instance.ID)
	assert.Equal(t, "second", packed.placements[1].instance.ID)
}

func TestPackShelves_OpensShelfWhenRowIsFull(t *testing.T) {
	packed := packShelves(groupOf(1000, 1000,
		sized("a", 600, 400),
		sized("b", 600, 300),
	), true)

	require.Len(t, packed.placements, 2)
	b := packed.placements[1]
	assert.Equal(t, 0.0, b.x)
	assert.Equal(t, 400.0, b.y)
	assert.Equal(t, 1, packed.sheetCount)
}

func TestPackShelves_ShorterInstanceJoinsTallerShelf(t *testing.T) {
	packed := packShelves(groupOf(1000, 1000,
		sized("a", 400, 400),
		sized("b", 300, 200),
	), true)

	require.Len(t, packed.placements, 2)
	b := packed.placements[1]
	assert.Equal(t, 400.0, b.x)
	assert.Equal(t, 0.0, b.y)
}

func TestPackShelves_FitsWithinFloatTolerance(t *testing.T) {
	packed := packShelves(groupOf(1809.6, 603.2,
		sized("a", 603.2, 603.2),
		sized("b", 603.2, 603.2),
		sized("c", 603.2, 603.2),
	), true)

	assert.Equal(t, 1, packed.sheetCount)
	assert.Empty(t, packed.errors)
}
