package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialGroup partitions panels and stock sheets into independent packing problems.
type MaterialGroup string

const (
	MaterialNone    MaterialGroup = ""
	MaterialCarcass MaterialGroup = "carcass"
	MaterialDoors   MaterialGroup = "doors"
	MaterialBacking MaterialGroup = "backing"
)

// MaterialGroups lists the known groups in display order.
var MaterialGroups = []MaterialGroup{MaterialCarcass, MaterialDoors, MaterialBacking}

func (g MaterialGroup) String() string {
	if g == MaterialNone {
		return "none"
	}
	return string(g)
}

// ParseMaterialGroup converts a user supplied name into a MaterialGroup.
// It returns false when the name is not recognized.
func ParseMaterialGroup(s string) (MaterialGroup, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "-":
		return MaterialNone, true
	case "carcass", "carcase", "case":
		return MaterialCarcass, true
	case "doors", "door", "fronts":
		return MaterialDoors, true
	case "backing", "back", "backs":
		return MaterialBacking, true
	default:
		return MaterialNone, false
	}
}

// PanelSpec is one line of the cut list: a rectangular panel demanded quantity times.
// Length and Width are nominal (pre-kerf) dimensions.
type PanelSpec struct {
	ID            string        `json:"id"`
	Length        float64       `json:"length"`
	Width         float64       `json:"width"`
	Quantity      int           `json:"quantity"`
	Label         string        `json:"label,omitempty"`
	MaterialGroup MaterialGroup `json:"materialGroup,omitempty"`
	TargetSheetID string        `json:"targetSheetId,omitempty"`
}

func NewPanel(label string, length, width float64, qty int) PanelSpec {
	return PanelSpec{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   length,
		Width:    width,
		Quantity: qty,
	}
}

// StockSheetSpec describes a sheet type. Quantity is the stock on hand and is
// not enforced by the packer.
type StockSheetSpec struct {
	ID            string          `json:"id"`
	Length        float64         `json:"length"`
	Width         float64         `json:"width"`
	Quantity      int             `json:"quantity"`
	Thickness     float64         `json:"thickness,omitempty"`
	Label         string          `json:"label,omitempty"`
	MaterialGroup MaterialGroup   `json:"materialGroup,omitempty"`
	PricePerSheet decimal.Decimal `json:"pricePerSheet"`
}

func NewStockSheet(label string, length, width float64, qty int) StockSheetSpec {
	return StockSheetSpec{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   length,
		Width:    width,
		Quantity: qty,
	}
}

// Options controls a single optimizer run.
type Options struct {
	Kerf             float64 `json:"kerf"`
	ConsiderMaterial bool    `json:"considerMaterial"`
	PreserveGrain    bool    `json:"preserveGrain"`
}

func DefaultOptions() Options {
	return Options{
		Kerf:             3.2,
		ConsiderMaterial: false,
		PreserveGrain:    false,
	}
}

// PanelInstance is one physical cut derived from a PanelSpec. Cut dimensions
// include the kerf.
type PanelInstance struct {
	ID            string
	PanelID       string
	Copy          int
	Label         string
	CutLength     float64
	CutWidth      float64
	MaterialGroup MaterialGroup
	TargetSheetID string
}

// Area returns the cut area of the instance.
func (pi PanelInstance) Area() float64 {
	return pi.CutLength * pi.CutWidth
}

// InstanceID builds the identifier of copy n of a panel.
func InstanceID(panelID string, n int) string {
	return fmt.Sprintf("%s#%d", panelID, n)
}

// BasePanelID strips the copy suffix from an instance identifier.
func BasePanelID(instanceID string) string {
	if i := strings.LastIndexByte(instanceID, '#'); i >= 0 {
		return instanceID[:i]
	}
	return instanceID
}

// Placement positions one panel instance on a sheet of the final layout.
type Placement struct {
	PanelInstanceID  string        `json:"panelInstanceId"`
	PanelID          string        `json:"panelId"`
	Label            string        `json:"label,omitempty"`
	GlobalSheetIndex int           `json:"globalSheetIndex"`
	X                float64       `json:"x"`
	Y                float64       `json:"y"`
	PlacedLength     float64       `json:"placedLength"`
	PlacedWidth      float64       `json:"placedWidth"`
	Rotated          bool          `json:"rotated"`
	MaterialGroup    MaterialGroup `json:"materialGroup,omitempty"`
}

// Area returns the reserved area including kerf.
func (p Placement) Area() float64 {
	return p.PlacedLength * p.PlacedWidth
}

// Right returns the x coordinate of the far edge.
func (p Placement) Right() float64 { return p.X + p.PlacedLength }

// Bottom returns the y coordinate of the far edge.
func (p Placement) Bottom() float64 { return p.Y + p.PlacedWidth }

// SheetMetadata describes one physical sheet in the final layout.
// Width carries the stock Length and Height carries the stock Width.
type SheetMetadata struct {
	GlobalSheetIndex int           `json:"globalSheetIndex"`
	Width            float64       `json:"width"`
	Height           float64       `json:"height"`
	MaterialGroup    MaterialGroup `json:"materialGroup,omitempty"`
	Label            string        `json:"label"`
	StockSheetID     string        `json:"stockSheetId,omitempty"`
}

// Area returns the sheet area.
func (m SheetMetadata) Area() float64 {
	return m.Width * m.Height
}

// UnplaceableReason explains why a panel instance produced no placement.
type UnplaceableReason string

const ReasonExceedsStockDimensions UnplaceableReason = "exceeds-stock-dimensions"

// UnplaceablePanel reports an instance that fits no stock sheet in any orientation.
type UnplaceablePanel struct {
	PanelID         string            `json:"panelId"`
	PanelInstanceID string            `json:"panelInstanceId,omitempty"`
	Reason          UnplaceableReason `json:"reason"`
}

// Stats are derived from the final placements and sheets on every run.
type Stats struct {
	TotalSheetArea float64 `json:"totalSheetArea"`
	UsedArea       float64 `json:"usedArea"`
	WastedArea     float64 `json:"wastedArea"`
	WastePercent   int     `json:"wastePercent"`
	TotalCuts      int     `json:"totalCuts"`
	CutLength      float64 `json:"cutLength"`
}

// OptimizationResult is the complete output of one optimizer invocation.
type OptimizationResult struct {
	Placements     []Placement        `json:"placements"`
	SheetCount     int                `json:"sheetCount"`
	SheetsMetadata []SheetMetadata    `json:"sheetsMetadata"`
	Errors         []UnplaceablePanel `json:"errors"`
	Stats          Stats              `json:"stats"`
}

// PlacementsOnSheet returns the placements on the given global sheet index in
// result order.
func (r OptimizationResult) PlacementsOnSheet(index int) []Placement {
	var out []Placement
	for _, p := range r.Placements {
		if p.GlobalSheetIndex == index {
			out = append(out, p)
		}
	}
	return out
}

// Project ties everything together for save/load and sharing.
type Project struct {
	Name        string              `json:"name"`
	Panels      []PanelSpec         `json:"panels"`
	StockSheets []StockSheetSpec    `json:"stockSheets"`
	Options     Options             `json:"options"`
	Result      *OptimizationResult `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:        "Untitled",
		Panels:      []PanelSpec{},
		StockSheets: []StockSheetSpec{},
		Options:     DefaultOptions(),
	}
}
