package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PanelNest/internal/engine"
	"github.com/piwi3910/PanelNest/internal/model"
)

func sampleProject(t *testing.T) model.Project {
	t.Helper()
	p := model.NewProject()
	p.Name = "Kitchen"
	p.Panels = []model.PanelSpec{
		{ID: "side", Label: "Side", Length: 720, Width: 560, Quantity: 2, MaterialGroup: model.MaterialCarcass},
		{ID: "door", Label: "Door", Length: 715, Width: 496, Quantity: 2, MaterialGroup: model.MaterialDoors, TargetSheetID: "mdf"},
	}
	p.StockSheets = []model.StockSheetSpec{
		{ID: "ply", Label: "Ply 18", Length: 2440, Width: 1220, Quantity: 2, Thickness: 18},
		{ID: "mdf", Label: "MDF 19", Length: 2800, Width: 2070, Quantity: 1, Thickness: 19, MaterialGroup: model.MaterialDoors},
	}
	p.Options.ConsiderMaterial = true

	result, err := engine.Optimize(p.Panels, p.StockSheets, p.Options)
	require.NoError(t, err)
	p.Result = &result
	return p
}

// assertSameProject compares projects treating equal decimal prices as equal
// regardless of their internal representation.
func assertSameProject(t *testing.T, want, got model.Project) {
	t.Helper()
	eq := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, got, eq); diff != "" {
		t.Errorf("project mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoadProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kitchen.json")
	p := sampleProject(t)

	require.NoError(t, SaveProject(path, p))
	loaded, err := LoadProject(path)
	require.NoError(t, err)

	assertSameProject(t, p, loaded)
}

func TestLoadProject_MissingFile(t *testing.T) {
	_, err := LoadProject(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadProject_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadProject(path)
	assert.Error(t, err)
}

func TestDecodeProject_DefaultsAndEmptySlices(t *testing.T) {
	p, err := DecodeProject([]byte(`{"options":{"kerf":2}}`))
	require.NoError(t, err)

	assert.NotNil(t, p.Panels)
	assert.NotNil(t, p.StockSheets)
	assert.Equal(t, 2.0, p.Options.Kerf)
	assert.Nil(t, p.Result)
}
