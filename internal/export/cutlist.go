package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PanelNest/internal/model"
)

// Workbook sheet names written by ExportCutList.
const (
	SheetPlacements = "Placements"
	SheetSheets     = "Sheets"
	SheetStats      = "Stats"
)

// ExportCutList writes the project layout as an xlsx workbook with one
// worksheet for placements, one for sheets and one for statistics.
func ExportCutList(path string, p model.Project) error {
	f, err := buildCutList(p)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func buildCutList(p model.Project) (*excelize.File, error) {
	result, err := layoutOf(p)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetPlacements); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetSheets, SheetStats} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	placementRows := [][]any{{"Sheet", "Instance", "Panel", "Label", "X", "Y", "Length", "Width", "Rotated", "Material"}}
	for _, pl := range result.Placements {
		placementRows = append(placementRows, []any{
			pl.GlobalSheetIndex + 1, pl.PanelInstanceID, pl.PanelID, pl.Label,
			pl.X, pl.Y, pl.PlacedLength, pl.PlacedWidth, pl.Rotated, pl.MaterialGroup.String(),
		})
	}

	sheetRows := [][]any{{"Sheet", "Stock", "Label", "Length", "Width", "Panels", "Material"}}
	for _, meta := range result.SheetsMetadata {
		sheetRows = append(sheetRows, []any{
			meta.GlobalSheetIndex + 1, meta.StockSheetID, meta.Label, meta.Width, meta.Height,
			len(result.PlacementsOnSheet(meta.GlobalSheetIndex)), meta.MaterialGroup.String(),
		})
	}

	st := result.Stats
	est := model.EstimatePurchase(result, p.StockSheets)
	statRows := [][]any{
		{"Metric", "Value"},
		{"Sheets", result.SheetCount},
		{"Panels placed", len(result.Placements)},
		{"Unplaceable", len(result.Errors)},
		{"Total sheet area", st.TotalSheetArea},
		{"Used area", st.UsedArea},
		{"Wasted area", st.WastedArea},
		{"Waste percent", st.WastePercent},
		{"Total cuts", st.TotalCuts},
		{"Cut length", st.CutLength},
		{"Kerf", p.Options.Kerf},
		{"Sheets to buy", est.Shortfall},
		{"Material cost", est.TotalCost.StringFixed(2)},
	}

	for name, rows := range map[string][][]any{
		SheetPlacements: placementRows,
		SheetSheets:     sheetRows,
		SheetStats:      statRows,
	} {
		if err := writeRows(f, name, rows); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
