// Package importer reads panel and stock sheet lists from CSV, Excel and DXF
// files. CSV delimiters are detected automatically and columns are mapped
// from case-insensitive header names.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PanelNest/internal/model"
)

// ImportResult holds the panels read by an import. Row problems are reported
// in Errors and Warnings rather than aborting the import.
type ImportResult struct {
	Panels   []model.PanelSpec
	Errors   []string
	Warnings []string
}

// StockResult holds the stock sheets read by an import.
type StockResult struct {
	StockSheets []model.StockSheetSpec
	Errors      []string
	Warnings    []string
}

// ColumnMapping maps column roles to their index in a row. -1 means absent.
type ColumnMapping struct {
	Label     int
	Length    int
	Width     int
	Quantity  int
	Material  int
	Target    int
	Thickness int
	Price     int
}

type role int

const (
	roleLabel role = iota
	roleLength
	roleWidth
	roleQuantity
	roleMaterial
	roleTarget
	roleThickness
	rolePrice
)

// headerAliases lists the accepted lowercase header names per role.
var headerAliases = []struct {
	role    role
	aliases []string
}{
	{roleLabel, []string{"label", "name", "part", "panel", "part name", "description", "desc", "item"}},
	{roleLength, []string{"length", "len", "l", "long"}},
	{roleWidth, []string{"width", "w", "breadth"}},
	{roleQuantity, []string{"quantity", "qty", "count", "num", "pcs", "pieces"}},
	{roleMaterial, []string{"material", "material group", "materialgroup", "group", "mat"}},
	{roleTarget, []string{"target", "target sheet", "targetsheetid", "target sheet id", "sheet", "sheet id", "stock"}},
	{roleThickness, []string{"thickness", "thick", "t"}},
	{rolePrice, []string{"price", "price per sheet", "cost", "unit price"}},
}

func emptyMapping() ColumnMapping {
	return ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1}
}

func (m *ColumnMapping) slot(r role) *int {
	switch r {
	case roleLabel:
		return &m.Label
	case roleLength:
		return &m.Length
	case roleWidth:
		return &m.Width
	case roleQuantity:
		return &m.Quantity
	case roleMaterial:
		return &m.Material
	case roleTarget:
		return &m.Target
	case roleThickness:
		return &m.Thickness
	default:
		return &m.Price
	}
}

// panelColumns is the positional layout of a headerless panel list.
var panelColumns = ColumnMapping{Label: 0, Length: 1, Width: 2, Quantity: 3, Material: 4, Target: 5, Thickness: -1, Price: -1}

// stockColumns is the positional layout of a headerless stock sheet list.
var stockColumns = ColumnMapping{Label: 0, Length: 1, Width: 2, Quantity: 3, Thickness: 4, Material: 5, Price: 6, Target: -1}

// DetectColumns maps a header row to column roles. It returns false when the
// row contains no known header name.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := emptyMapping()
	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for _, h := range headerAliases {
			for _, alias := range h.aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if idx := mapping.slot(h.role); *idx == -1 {
					*idx = i
				}
			}
		}
	}
	return mapping, isHeader
}

// DetectCSVDelimiter picks the delimiter among comma, semicolon, tab and pipe
// that splits the rows into the most consistent number of columns.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range []rune{',', ';', '\t', '|'} {
		records, err := readRecords(bytes.NewReader(data), delim)
		if err != nil || len(records) == 0 || len(records[0]) < 2 {
			continue
		}
		cols := len(records[0])
		score := 0
		for _, row := range records {
			if len(row) == cols {
				score++
			}
		}
		if weighted := score*10 + cols; weighted > bestScore {
			best, bestScore = delim, weighted
		}
	}
	return best
}

func readRecords(r io.Reader, delim rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

// readCSVFile loads a CSV file with delimiter detection. Problems are returned
// as user-facing messages.
func readCSVFile(path string) (records [][]string, warnings []string, errMsg string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Sprintf("Cannot open file: %v", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, "File is empty"
	}

	delim := DetectCSVDelimiter(data)
	if delim != ',' {
		name := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delim]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", name))
	}

	records, err = readRecords(bytes.NewReader(data), delim)
	if err != nil {
		return nil, warnings, fmt.Sprintf("Cannot read CSV: %v", err)
	}
	return records, warnings, ""
}

// ImportCSV reads panels from a CSV file.
func ImportCSV(path string) ImportResult {
	records, warnings, errMsg := readCSVFile(path)
	if errMsg != "" {
		return ImportResult{Errors: []string{errMsg}, Warnings: warnings}
	}
	return panelsFromRows(records, "Line", warnings)
}

// ImportCSVFromReader reads panels from CSV data with a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	records, err := readRecords(r, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return panelsFromRows(records, "Line", nil)
}

// ImportExcel reads panels from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	rows, errMsg := readExcel(path)
	if errMsg != "" {
		return ImportResult{Errors: []string{errMsg}}
	}
	return panelsFromRows(rows, "Row", nil)
}

// ImportStockCSV reads stock sheets from a CSV file.
func ImportStockCSV(path string) StockResult {
	records, warnings, errMsg := readCSVFile(path)
	if errMsg != "" {
		return StockResult{Errors: []string{errMsg}, Warnings: warnings}
	}
	return stockFromRows(records, "Line", warnings)
}

// ImportStockCSVFromReader reads stock sheets from CSV data with a known delimiter.
func ImportStockCSVFromReader(r io.Reader, delimiter rune) StockResult {
	records, err := readRecords(r, delimiter)
	if err != nil {
		return StockResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return stockFromRows(records, "Line", nil)
}

// ImportStockExcel reads stock sheets from the first sheet of an Excel workbook.
func ImportStockExcel(path string) StockResult {
	rows, errMsg := readExcel(path)
	if errMsg != "" {
		return StockResult{Errors: []string{errMsg}}
	}
	return stockFromRows(rows, "Row", nil)
}

func readExcel(path string) ([][]string, string) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Sprintf("Cannot open Excel file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "Excel file has no sheets"
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Sprintf("Cannot read Excel data: %v", err)
	}
	if len(rows) == 0 {
		return nil, "Sheet is empty"
	}
	return rows, ""
}

// resolveColumns decides between a header row and the positional layout.
// It returns the first data row index.
func resolveColumns(rows [][]string, positional ColumnMapping, warnings *[]string) (ColumnMapping, int, string) {
	mapping, hasHeader := DetectColumns(rows[0])
	if hasHeader {
		*warnings = append(*warnings, "Detected header row, skipping")
		var missing []string
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Quantity == -1 {
			missing = append(missing, "Quantity")
		}
		if len(missing) > 0 {
			return mapping, 0, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", "))
		}
		return mapping, 1, ""
	}

	// An unrecognized header has no numeric dimension at all.
	_, lengthErr := strconv.ParseFloat(getCell(rows[0], positional.Length), 64)
	_, widthErr := strconv.ParseFloat(getCell(rows[0], positional.Width), 64)
	if lengthErr != nil && widthErr != nil {
		*warnings = append(*warnings, "Detected header row, skipping")
		return positional, 1, ""
	}
	return positional, 0, ""
}

func panelsFromRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, start, errMsg := resolveColumns(rows, panelColumns, &result.Warnings)
	if errMsg != "" {
		result.Errors = append(result.Errors, errMsg)
		return result
	}

	for i := start; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		panel, errMsg, rowWarnings := parsePanelRow(rows[i], mapping, rowLabel, len(result.Panels))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, rowWarnings...)
		result.Panels = append(result.Panels, panel)
	}
	return result
}

func stockFromRows(rows [][]string, rowPrefix string, warnings []string) StockResult {
	result := StockResult{Warnings: warnings}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, start, errMsg := resolveColumns(rows, stockColumns, &result.Warnings)
	if errMsg != "" {
		result.Errors = append(result.Errors, errMsg)
		return result
	}

	for i := start; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		sheet, errMsg, rowWarnings := parseStockRow(rows[i], mapping, rowLabel, len(result.StockSheets))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, rowWarnings...)
		result.StockSheets = append(result.StockSheets, sheet)
	}
	return result
}

// dimensions parses the length, width and quantity columns shared by panel
// and stock rows.
func dimensions(row []string, m ColumnMapping, rowLabel string) (length, width float64, qty int, errMsg string) {
	lengthStr := getCell(row, m.Length)
	if lengthStr == "" {
		return 0, 0, 0, fmt.Sprintf("%s: Missing length value", rowLabel)
	}
	length, err := strconv.ParseFloat(lengthStr, 64)
	if err != nil {
		return 0, 0, 0, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr)
	}

	widthStr := getCell(row, m.Width)
	if widthStr == "" {
		return 0, 0, 0, fmt.Sprintf("%s: Missing width value", rowLabel)
	}
	width, err = strconv.ParseFloat(widthStr, 64)
	if err != nil {
		return 0, 0, 0, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr)
	}

	qtyStr := getCell(row, m.Quantity)
	if qtyStr == "" {
		return 0, 0, 0, fmt.Sprintf("%s: Missing quantity value", rowLabel)
	}
	qty, err = strconv.Atoi(qtyStr)
	if err != nil {
		return 0, 0, 0, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
	}

	if length <= 0 || width <= 0 {
		return 0, 0, 0, fmt.Sprintf("%s: Length and width must be positive", rowLabel)
	}
	if qty < 0 {
		return 0, 0, 0, fmt.Sprintf("%s: Quantity must not be negative", rowLabel)
	}
	return length, width, qty, ""
}

func material(row []string, m ColumnMapping, rowLabel string) (model.MaterialGroup, string) {
	raw := getCell(row, m.Material)
	group, ok := model.ParseMaterialGroup(raw)
	if !ok {
		return model.MaterialNone, fmt.Sprintf("%s: Unknown material group '%s', ignoring", rowLabel, raw)
	}
	return group, ""
}

func parsePanelRow(row []string, m ColumnMapping, rowLabel string, count int) (model.PanelSpec, string, []string) {
	length, width, qty, errMsg := dimensions(row, m, rowLabel)
	if errMsg != "" {
		return model.PanelSpec{}, errMsg, nil
	}

	label := getCell(row, m.Label)
	if label == "" {
		label = fmt.Sprintf("Panel %d", count+1)
	}
	panel := model.NewPanel(label, length, width, qty)
	panel.TargetSheetID = getCell(row, m.Target)

	var warnings []string
	if qty == 0 {
		warnings = append(warnings, fmt.Sprintf("%s: Quantity is 0, panel will not be cut", rowLabel))
	}
	group, warning := material(row, m, rowLabel)
	panel.MaterialGroup = group
	if warning != "" {
		warnings = append(warnings, warning)
	}
	return panel, "", warnings
}

func parseStockRow(row []string, m ColumnMapping, rowLabel string, count int) (model.StockSheetSpec, string, []string) {
	length, width, qty, errMsg := dimensions(row, m, rowLabel)
	if errMsg != "" {
		return model.StockSheetSpec{}, errMsg, nil
	}

	label := getCell(row, m.Label)
	if label == "" {
		label = fmt.Sprintf("Sheet %d", count+1)
	}
	sheet := model.NewStockSheet(label, length, width, qty)

	var warnings []string
	if s := getCell(row, m.Thickness); s != "" {
		if t, err := strconv.ParseFloat(s, 64); err == nil && t > 0 {
			sheet.Thickness = t
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid thickness '%s', ignoring", rowLabel, s))
		}
	}
	if s := getCell(row, m.Price); s != "" {
		if price, err := decimal.NewFromString(s); err == nil && !price.IsNegative() {
			sheet.PricePerSheet = price
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid price '%s', ignoring", rowLabel, s))
		}
	}
	group, warning := material(row, m, rowLabel)
	sheet.MaterialGroup = group
	if warning != "" {
		warnings = append(warnings, warning)
	}
	return sheet, "", warnings
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
