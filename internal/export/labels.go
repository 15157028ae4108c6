package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/PanelNest/internal/model"
)

// LabelInfo holds the data encoded into each panel label's QR code.
type LabelInfo struct {
	PanelInstanceID string  `json:"instance"`
	PanelLabel      string  `json:"label"`
	Length          float64 `json:"length_mm"`
	Width           float64 `json:"width_mm"`
	SheetIndex      int     `json:"sheet"`
	SheetLabel      string  `json:"sheet_label"`
	Rotated         bool    `json:"rotated"`
	X               float64 `json:"x_mm"`
	Y               float64 `json:"y_mm"`
}

// Avery 5160 compatible layout: 3 columns by 10 rows on US Letter.
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// CollectLabelInfos builds one label per placement in layout order. Sheet
// numbers are one-based.
func CollectLabelInfos(result model.OptimizationResult) []LabelInfo {
	sheetLabels := make(map[int]string, len(result.SheetsMetadata))
	for _, meta := range result.SheetsMetadata {
		sheetLabels[meta.GlobalSheetIndex] = meta.Label
	}

	labels := make([]LabelInfo, 0, len(result.Placements))
	for _, p := range result.Placements {
		labels = append(labels, LabelInfo{
			PanelInstanceID: p.PanelInstanceID,
			PanelLabel:      placementLabel(p),
			Length:          p.PlacedLength,
			Width:           p.PlacedWidth,
			SheetIndex:      p.GlobalSheetIndex + 1,
			SheetLabel:      sheetLabels[p.GlobalSheetIndex],
			Rotated:         p.Rotated,
			X:               p.X,
			Y:               p.Y,
		})
	}
	return labels
}

// ExportLabels writes a PDF of QR-coded labels, one per placed panel.
func ExportLabels(path string, result model.OptimizationResult) error {
	if result.SheetCount == 0 {
		return ErrNoLayout
	}
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no panels placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}
		pos := i % labelsPerPage
		x := labelMarginLeft + float64(pos%labelCols)*labelWidth
		y := labelMarginTop + float64(pos/labelCols)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.PanelInstanceID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Instance ids are unique within a layout.
	imgName := "qr_" + info.PanelInstanceID
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, x+labelWidth-qrSize-labelPadding, y+(labelHeight-qrSize)/2, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, info.PanelLabel, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%.0f x %.0f mm", info.Length, info.Width), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Sheet %d @ (%.0f, %.0f)", info.SheetIndex, info.X, info.Y), "", 1, "L", false, 0, "")

	if info.Rotated {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Rotated 90\xb0", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
