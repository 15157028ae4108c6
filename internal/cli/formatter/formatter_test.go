package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PanelNest/internal/engine"
	"github.com/piwi3910/PanelNest/internal/model"
	"github.com/piwi3910/PanelNest/internal/store"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "LONG"}, [][]string{
		{"wide cell", "x"},
		{"b"},
	}))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A          LONG", lines[0])
	assert.Equal(t, "wide cell  x", lines[2])
	assert.Equal(t, "b", strings.TrimSpace(lines[3]))
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"a"}}))
}

func TestWasteColor_Thresholds(t *testing.T) {
	assert.Equal(t, StyleGreen.Render("x"), WasteColor(20).Render("x"))
	assert.Equal(t, StyleYellow.Render("x"), WasteColor(21).Render("x"))
	assert.Equal(t, StyleRed.Render("x"), WasteColor(41).Render("x"))
}

func TestSetColor_DisabledRendersPlainText(t *testing.T) {
	SetColor(false)
	t.Cleanup(func() { SetColor(true) })

	assert.Equal(t, "ok", StyleGreen.Render("ok"))
	assert.Equal(t, "SHEETS\n──────", Header("sheets"))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Just now", HumanTimestamp(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestamp(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Mar 1, 2026", HumanTimestamp(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestFormatResult(t *testing.T) {
	result := model.OptimizationResult{
		SheetCount: 1,
		SheetsMetadata: []model.SheetMetadata{
			{GlobalSheetIndex: 0, Width: 1000, Height: 500, Label: "Ply", StockSheetID: "ply"},
		},
		Placements: []model.Placement{
			{PanelInstanceID: "a#0", GlobalSheetIndex: 0, PlacedLength: 500, PlacedWidth: 500},
		},
		Errors: []model.UnplaceablePanel{{PanelID: "big", PanelInstanceID: "big#0", Reason: "exceeds-stock-dimensions"}},
		Stats:  model.Stats{WastePercent: 50, TotalCuts: 2, CutLength: 2000},
	}
	stocks := []model.StockSheetSpec{{ID: "ply", Label: "Ply", Quantity: 0, PricePerSheet: decimal.RequireFromString("40")}}

	out := stripANSI(FormatResult(result, stocks))

	assert.Contains(t, out, "1 placed")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "2 (2000 mm)")
	assert.Contains(t, out, "1000 x 500")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "1 panel(s) could not be placed")
	assert.Contains(t, out, "big#0 exceeds-stock-dimensions")
	assert.Contains(t, out, "40.00")
}

func TestFormatComparison_MarksBestScenario(t *testing.T) {
	out := stripANSI(FormatComparison([]engine.ComparisonResult{
		{Scenario: engine.ComparisonScenario{Name: "Current settings"}, SheetsUsed: 3, WastePercent: 30},
		{Scenario: engine.ComparisonScenario{Name: "Allow rotation"}, SheetsUsed: 2, WastePercent: 35},
		{Scenario: engine.ComparisonScenario{Name: "Thin kerf"}, SheetsUsed: 2, WastePercent: 33},
	}))

	assert.Contains(t, out, "Thin kerf *")
	assert.NotContains(t, out, "Allow rotation *")
}

func TestFormatViolations(t *testing.T) {
	assert.Equal(t, "Layout OK\n", stripANSI(FormatViolations(nil)))

	out := stripANSI(FormatViolations([]engine.Violation{
		{Kind: engine.ViolationOverlap, GlobalSheetIndex: 1, Detail: "a#0 overlaps b#0"},
	}))
	assert.Contains(t, out, "1 problem(s) found")
	assert.Contains(t, out, "overlap on sheet 1: a#0 overlaps b#0")
}

func TestFormatRuns(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	out := stripANSI(FormatRuns([]store.Run{
		{ID: "0123456789abcdef", Name: "Kitchen", CreatedAt: now.Add(-2 * time.Hour), SheetCount: 3, WastePercent: 18},
	}, now))

	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "Kitchen")
	assert.Contains(t, out, "2h ago")
	assert.Contains(t, out, "18%")

	assert.Contains(t, stripANSI(FormatRuns(nil, now)), "No saved runs.")
}

func TestFormatMessages(t *testing.T) {
	out := stripANSI(FormatMessages([]string{"w1"}, []string{"e1"}))
	assert.Equal(t, "warning: w1\nerror: e1\n", out)
}
