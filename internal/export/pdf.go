// Package export writes optimization layouts to PDF, label sheets and
// spreadsheets.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PanelNest/internal/model"
)

// ErrNoLayout is returned when a project carries no optimization result or
// the result holds no sheets.
var ErrNoLayout = errors.New("no sheets to export")

type rgb struct {
	R, G, B int
}

// panelColors mirrors the color scheme of the sheet viewer.
var panelColors = []rgb{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

func layoutOf(p model.Project) (model.OptimizationResult, error) {
	if p.Result == nil || p.Result.SheetCount == 0 || len(p.Result.SheetsMetadata) == 0 {
		return model.OptimizationResult{}, ErrNoLayout
	}
	return *p.Result, nil
}

// ExportPDF writes the project layout to a PDF file at path.
func ExportPDF(path string, p model.Project) error {
	pdf, err := buildPDF(p)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WritePDF renders the project layout as a PDF document. Each sheet gets its
// own page with a scaled diagram, followed by a summary page.
func WritePDF(w io.Writer, p model.Project) error {
	pdf, err := buildPDF(p)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildPDF(p model.Project) (*fpdf.Fpdf, error) {
	result, err := layoutOf(p)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(p.Name, true)
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, meta := range result.SheetsMetadata {
		pdf.AddPage()
		renderSheetPage(pdf, meta, result.PlacementsOnSheet(meta.GlobalSheetIndex), p.Options.Kerf)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, p, result)
	return pdf, pdf.Error()
}

// renderSheetPage draws one sheet of the layout on the current page.
func renderSheetPage(pdf *fpdf.Fpdf, meta model.SheetMetadata, placements []model.Placement, kerf float64) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Sheet %d: %s (%.0f x %.0f mm)", meta.GlobalSheetIndex+1, meta.Label, meta.Width, meta.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	var used float64
	for _, p := range placements {
		used += p.Area()
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Panels: %d | Used area: %.0f mm2 | Sheet area: %.0f mm2 | Utilization: %.1f%%",
		len(placements), used, meta.Area(), percent(used, meta.Area()))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/meta.Width, drawHeight/meta.Height)

	canvasW := meta.Width * scale
	canvasH := meta.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Sheet background (wood color)
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawOffcuts(pdf, model.DetectOffcuts(meta, placements), scale, offsetX, offsetY)

	for i, p := range placements {
		col := panelColors[i%len(panelColors)]
		pw := p.PlacedLength * scale
		ph := p.PlacedWidth * scale
		px := offsetX + p.X*scale
		py := offsetY + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw <= 15 || ph <= 8 {
			continue
		}
		pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
		pdf.SetTextColor(0, 0, 0)

		label := placementLabel(p)
		dims := nominalDims(p, kerf)
		labelW := pdf.GetStringWidth(label)
		dimsW := pdf.GetStringWidth(dims)
		if labelW < pw-2 {
			pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
			pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
		}
		if ph > 14 && dimsW < pw-2 {
			pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
			pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
		}
	}

	drawDimensionAnnotations(pdf, meta, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, placements, kerf, offsetY+canvasH+5)
}

// drawOffcuts hatches the reusable remnants of a sheet.
func drawOffcuts(pdf *fpdf.Fpdf, offcuts []model.Offcut, scale, offsetX, offsetY float64) {
	for _, o := range offcuts {
		ox := offsetX + o.X*scale
		oy := offsetY + o.Y*scale
		ow := o.Width * scale
		oh := o.Height * scale

		pdf.SetFillColor(235, 225, 200)
		pdf.SetDrawColor(150, 120, 60)
		pdf.SetLineWidth(0.2)
		pdf.Rect(ox, oy, ow, oh, "FD")
		drawHatchPattern(pdf, ox, oy, ow, oh)

		if ow > 20 && oh > 8 {
			pdf.SetFont("Helvetica", "B", 6)
			pdf.SetTextColor(120, 90, 30)
			text := fmt.Sprintf("OFFCUT %.0fx%.0f", o.Width, o.Height)
			w := pdf.GetStringWidth(text)
			pdf.SetXY(ox+(ow-w)/2, oy+oh/2-2)
			pdf.CellFormat(w, 4, text, "", 0, "C", false, 0, "")
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines clipped to a rectangle.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(150, 120, 60)
	pdf.SetLineWidth(0.1)

	const spacing = 4.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations labels the sheet edges with their lengths.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, meta model.SheetMetadata, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", meta.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f mm", meta.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend lists the panels on a sheet below its diagram.
func drawLegend(pdf *fpdf.Fpdf, placements []model.Placement, kerf, startY float64) {
	if len(placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Panels placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range placements {
		col := panelColors[i%len(panelColors)]
		label := fmt.Sprintf("%s (%s)", placementLabel(p), nominalDims(p, kerf))
		if p.Rotated {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}
}

// renderSummaryPage draws overall statistics, the per sheet breakdown,
// unplaceable panels and the purchase estimate.
func renderSummaryPage(pdf *fpdf.Fpdf, p model.Project, result model.OptimizationResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Summary: "+p.Name, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	y = keyValueBlock(pdf, y, "Overall Statistics", [][2]string{
		{"Sheets Used", fmt.Sprintf("%d", result.SheetCount)},
		{"Panels Placed", fmt.Sprintf("%d", len(result.Placements))},
		{"Unplaceable Panels", fmt.Sprintf("%d", len(result.Errors))},
		{"Waste", fmt.Sprintf("%d%%", result.Stats.WastePercent)},
		{"Total Cuts", fmt.Sprintf("%d", result.Stats.TotalCuts)},
		{"Cut Length", fmt.Sprintf("%.0f mm", result.Stats.CutLength)},
	})

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Sheet Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 70, 50, 30, 40, 50}
	headers := []string{"Sheet", "Stock", "Dimensions", "Panels", "Utilization", "Material"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, meta := range result.SheetsMetadata {
		placements := result.PlacementsOnSheet(meta.GlobalSheetIndex)
		var used float64
		for _, pl := range placements {
			used += pl.Area()
		}
		row := []string{
			fmt.Sprintf("%d", meta.GlobalSheetIndex+1),
			meta.Label,
			fmt.Sprintf("%.0f x %.0f mm", meta.Width, meta.Height),
			fmt.Sprintf("%d", len(placements)),
			fmt.Sprintf("%.1f%%", percent(used, meta.Area())),
			meta.MaterialGroup.String(),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
		if y > pageHeight-marginBottom-20 {
			pdf.AddPage()
			y = marginTop
		}
	}

	if len(result.Errors) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaceable Panels", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, e := range result.Errors {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, fmt.Sprintf("- %s: %s", e.PanelInstanceID, e.Reason), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	est := model.EstimatePurchase(result, p.StockSheets)
	if len(est.Lines) > 0 {
		y += 8
		rows := make([][2]string, 0, len(est.Lines)+1)
		for _, line := range est.Lines {
			rows = append(rows, [2]string{
				line.Label,
				fmt.Sprintf("%d used, %d in stock, buy %d, cost %s", line.SheetsUsed, line.SheetsInStock, line.Shortfall, line.Cost.StringFixed(2)),
			})
		}
		rows = append(rows, [2]string{"Total Cost", est.TotalCost.StringFixed(2)})
		if y > pageHeight-marginBottom-float64(len(rows))*7-10 {
			pdf.AddPage()
			y = marginTop
		}
		y = keyValueBlock(pdf, y, "Purchase Estimate", rows)
	}

	y += 5
	keyValueBlock(pdf, y, "Options", [][2]string{
		{"Kerf", fmt.Sprintf("%.1f mm", p.Options.Kerf)},
		{"Split by Material", yesNo(p.Options.ConsiderMaterial)},
		{"Preserve Grain", yesNo(p.Options.PreserveGrain)},
	})

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PanelNest", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func keyValueBlock(pdf *fpdf.Fpdf, y float64, title string, rows [][2]string) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	y += 9

	for _, row := range rows {
		pdf.SetXY(marginLeft+5, y)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(60, 6, row[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(150, 6, row[1], "", 0, "L", false, 0, "")
		y += 7
	}
	return y
}

func placementLabel(p model.Placement) string {
	if p.Label != "" {
		return p.Label
	}
	return p.PanelID
}

// nominalDims formats the panel size without the kerf allowance, in the
// orientation it was placed.
func nominalDims(p model.Placement, kerf float64) string {
	return fmt.Sprintf("%.0fx%.0f", p.PlacedLength-kerf, p.PlacedWidth-kerf)
}

func percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// labelFontSize picks a font size that fits the rectangle.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
