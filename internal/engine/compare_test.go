package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PanelNest/internal/model"
)

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.Options{Kerf: 3.2, PreserveGrain: true})

	require.Len(t, scenarios, 4)
	assert.Equal(t, "Current settings", scenarios[0].Name)
	assert.False(t, scenarios[1].Options.PreserveGrain)
	assert.InDelta(t, 1.6, scenarios[2].Options.Kerf, 1e-9)
	assert.True(t, scenarios[3].Options.ConsiderMaterial)
}

func TestBuildDefaultScenarios_SkipsThinKerfForSmallKerf(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.Options{Kerf: 1})

	assert.Len(t, scenarios, 3)
}

func TestCompareScenarios(t *testing.T) {
	panels := []model.PanelSpec{panel("p", 600, 400, 4)}
	stocks := []model.StockSheetSpec{stock("s", 2440, 1220, 1)}

	results, err := New().CompareScenarios(BuildDefaultScenarios(model.Options{Kerf: 3}), panels, stocks)
	require.NoError(t, err)

	require.Len(t, results, 4)
	for _, r := range results {
		assert.Equal(t, 1, r.SheetsUsed, r.Scenario.Name)
		assert.Equal(t, 8, r.TotalCuts)
		assert.Equal(t, 0, r.UnplacedCount)
	}
}

func TestCompareScenarios_PropagatesErrors(t *testing.T) {
	_, err := New().CompareScenarios([]ComparisonScenario{{Name: "x"}}, nil, nil)
	assert.ErrorIs(t, err, ErrNoPanels)
}
