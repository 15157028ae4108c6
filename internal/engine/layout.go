package engine

import "github.com/piwi3910/PanelNest/internal/model"

// assembleLayout merges packed groups into a single result. Sheets are
// numbered globally in group order, so a group's local sheet i becomes
// offset+i where offset counts the sheets of all earlier groups.
func assembleLayout(packed []packedGroup) model.OptimizationResult {
	result := model.OptimizationResult{
		Placements:     []model.Placement{},
		SheetsMetadata: []model.SheetMetadata{},
		Errors:         []model.UnplaceablePanel{},
	}

	offset := 0
	for _, pg := range packed {
		stock := pg.group.Stock
		for _, lp := range pg.placements {
			result.Placements = append(result.Placements, model.Placement{
				PanelInstanceID:  lp.instance.ID,
				PanelID:          lp.instance.PanelID,
				Label:            lp.instance.Label,
				GlobalSheetIndex: offset + lp.sheet,
				X:                lp.x,
				Y:                lp.y,
				PlacedLength:     lp.length,
				PlacedWidth:      lp.width,
				Rotated:          lp.rotated,
				MaterialGroup:    lp.instance.MaterialGroup,
			})
		}

		for i := 0; i < pg.sheetCount; i++ {
			result.SheetsMetadata = append(result.SheetsMetadata, model.SheetMetadata{
				GlobalSheetIndex: offset + i,
				// Metadata width is the stock length and height is the stock width.
				Width:         stock.Length,
				Height:        stock.Width,
				MaterialGroup: stock.MaterialGroup,
				Label:         stock.Label,
				StockSheetID:  stock.ID,
			})
		}

		result.Errors = append(result.Errors, pg.errors...)
		offset += pg.sheetCount
	}

	result.SheetCount = offset
	result.Stats = ComputeStats(result.Placements, result.SheetsMetadata)
	return result
}
