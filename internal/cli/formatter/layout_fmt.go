package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/PanelNest/internal/engine"
	"github.com/piwi3910/PanelNest/internal/model"
)

// FormatResult renders the headline figures, the per sheet table, any
// unplaceable panels and the purchase estimate of a layout.
func FormatResult(result model.OptimizationResult, stocks []model.StockSheetSpec) string {
	var b strings.Builder

	st := result.Stats
	summary := []string{
		fmt.Sprintf("Sheets       %s", Bold(strconv.Itoa(result.SheetCount))),
		fmt.Sprintf("Panels       %d placed", len(result.Placements)),
		fmt.Sprintf("Waste        %s", WasteColor(st.WastePercent).Render(fmt.Sprintf("%d%%", st.WastePercent))),
		fmt.Sprintf("Cuts         %d (%.0f mm)", st.TotalCuts, st.CutLength),
	}
	b.WriteString(RenderBox("Layout", strings.Join(summary, "\n")))
	b.WriteString("\n\n")

	b.WriteString(FormatSheets(result))

	if len(result.Errors) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatUnplaceable(result.Errors))
	}

	est := model.EstimatePurchase(result, stocks)
	if len(est.Lines) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatPurchase(est))
	}
	return b.String()
}

// FormatSheets renders one table row per sheet.
func FormatSheets(result model.OptimizationResult) string {
	rows := make([][]string, 0, len(result.SheetsMetadata))
	for _, meta := range result.SheetsMetadata {
		placements := result.PlacementsOnSheet(meta.GlobalSheetIndex)
		var used float64
		for _, p := range placements {
			used += p.Area()
		}
		util := 0.0
		if meta.Area() > 0 {
			util = used / meta.Area() * 100
		}
		rows = append(rows, []string{
			strconv.Itoa(meta.GlobalSheetIndex + 1),
			meta.Label,
			fmt.Sprintf("%.0f x %.0f", meta.Width, meta.Height),
			meta.MaterialGroup.String(),
			strconv.Itoa(len(placements)),
			fmt.Sprintf("%.1f%%", util),
		})
	}
	return Header("Sheets") + "\n" + RenderTable([]string{"#", "STOCK", "SIZE", "MATERIAL", "PANELS", "USED"}, rows)
}

// FormatUnplaceable lists panel instances that fit no stock sheet.
func FormatUnplaceable(errs []model.UnplaceablePanel) string {
	var b strings.Builder
	b.WriteString(StyleRed.Render(fmt.Sprintf("%d panel(s) could not be placed", len(errs))))
	b.WriteString("\n")
	for _, e := range errs {
		fmt.Fprintf(&b, "  %s %s\n", e.PanelInstanceID, Dim(string(e.Reason)))
	}
	return b.String()
}

// FormatPurchase renders the stock usage and cost table.
func FormatPurchase(est model.PurchaseEstimate) string {
	rows := make([][]string, 0, len(est.Lines)+1)
	for _, l := range est.Lines {
		buy := strconv.Itoa(l.Shortfall)
		if l.Shortfall > 0 {
			buy = StyleYellow.Render(buy)
		}
		rows = append(rows, []string{
			l.Label,
			strconv.Itoa(l.SheetsUsed),
			strconv.Itoa(l.SheetsInStock),
			buy,
			l.Cost.StringFixed(2),
		})
	}
	rows = append(rows, []string{Bold("Total"), "", "", strconv.Itoa(est.Shortfall), Bold(est.TotalCost.StringFixed(2))})
	return Header("Purchase") + "\n" + RenderTable([]string{"STOCK", "USED", "IN STOCK", "BUY", "COST"}, rows)
}

// FormatComparison renders one row per scenario, marking the fewest sheets.
func FormatComparison(results []engine.ComparisonResult) string {
	best := -1
	for i, r := range results {
		if best < 0 || r.SheetsUsed < results[best].SheetsUsed ||
			(r.SheetsUsed == results[best].SheetsUsed && r.WastePercent < results[best].WastePercent) {
			best = i
		}
	}

	rows := make([][]string, 0, len(results))
	for i, r := range results {
		name := r.Scenario.Name
		if i == best {
			name = StyleGreen.Render(name + " *")
		}
		rows = append(rows, []string{
			name,
			strconv.Itoa(r.SheetsUsed),
			WasteColor(r.WastePercent).Render(fmt.Sprintf("%d%%", r.WastePercent)),
			strconv.Itoa(r.TotalCuts),
			strconv.Itoa(r.UnplacedCount),
		})
	}
	return Header("Scenarios") + "\n" + RenderTable([]string{"SCENARIO", "SHEETS", "WASTE", "CUTS", "UNPLACED"}, rows)
}

// FormatViolations renders layout check results.
func FormatViolations(violations []engine.Violation) string {
	if len(violations) == 0 {
		return StyleGreen.Render("Layout OK") + "\n"
	}
	var b strings.Builder
	b.WriteString(StyleRed.Render(fmt.Sprintf("%d problem(s) found", len(violations))))
	b.WriteString("\n")
	for _, v := range violations {
		fmt.Fprintf(&b, "  %s\n", v.String())
	}
	return b.String()
}

// FormatPanels renders imported panels.
func FormatPanels(panels []model.PanelSpec) string {
	rows := make([][]string, 0, len(panels))
	for _, p := range panels {
		rows = append(rows, []string{
			p.ID,
			p.Label,
			fmt.Sprintf("%g x %g", p.Length, p.Width),
			strconv.Itoa(p.Quantity),
			p.MaterialGroup.String(),
			p.TargetSheetID,
		})
	}
	return RenderTable([]string{"ID", "LABEL", "SIZE", "QTY", "MATERIAL", "TARGET"}, rows)
}

// FormatStockSheets renders imported stock sheets.
func FormatStockSheets(stocks []model.StockSheetSpec) string {
	rows := make([][]string, 0, len(stocks))
	for _, s := range stocks {
		rows = append(rows, []string{
			s.ID,
			s.Label,
			fmt.Sprintf("%g x %g", s.Length, s.Width),
			strconv.Itoa(s.Quantity),
			s.MaterialGroup.String(),
			s.PricePerSheet.StringFixed(2),
		})
	}
	return RenderTable([]string{"ID", "LABEL", "SIZE", "QTY", "MATERIAL", "PRICE"}, rows)
}

// FormatMessages renders import warnings and errors.
func FormatMessages(warnings, errs []string) string {
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(StyleYellow.Render("warning: "+w) + "\n")
	}
	for _, e := range errs {
		b.WriteString(StyleRed.Render("error: "+e) + "\n")
	}
	return b.String()
}
