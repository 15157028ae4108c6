package engine

import (
	"fmt"

	"github.com/piwi3910/PanelNest/internal/model"
)

// ViolationKind classifies a layout defect found by Verify.
type ViolationKind string

const (
	ViolationUnknownSheet ViolationKind = "unknown-sheet"
	ViolationOutOfBounds  ViolationKind = "out-of-bounds"
	ViolationOverlap      ViolationKind = "overlap"
	ViolationRotated      ViolationKind = "rotated-with-grain"
	ViolationSheetCount   ViolationKind = "sheet-count"
)

// Violation describes one defect in a layout.
type Violation struct {
	Kind             ViolationKind `json:"kind"`
	GlobalSheetIndex int           `json:"globalSheetIndex"`
	PanelInstanceID  string        `json:"panelInstanceId,omitempty"`
	Other            string        `json:"other,omitempty"`
	Detail           string        `json:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s on sheet %d: %s", v.Kind, v.GlobalSheetIndex, v.Detail)
}

// Verify checks the geometric invariants of a layout: every placement sits on
// a known sheet, inside its bounds, and no two placements on a sheet overlap.
// Placements that merely share an edge do not overlap.
func Verify(result model.OptimizationResult) []Violation {
	var violations []Violation

	if result.SheetCount != len(result.SheetsMetadata) {
		violations = append(violations, Violation{
			Kind:             ViolationSheetCount,
			GlobalSheetIndex: -1,
			Detail:           fmt.Sprintf("sheet count %d but %d metadata entries", result.SheetCount, len(result.SheetsMetadata)),
		})
	}

	sheets := make(map[int]model.SheetMetadata, len(result.SheetsMetadata))
	for _, m := range result.SheetsMetadata {
		sheets[m.GlobalSheetIndex] = m
	}

	bySheet := make(map[int][]model.Placement)
	for _, p := range result.Placements {
		meta, ok := sheets[p.GlobalSheetIndex]
		if !ok {
			violations = append(violations, Violation{
				Kind:             ViolationUnknownSheet,
				GlobalSheetIndex: p.GlobalSheetIndex,
				PanelInstanceID:  p.PanelInstanceID,
				Detail:           "placement references a sheet with no metadata",
			})
			continue
		}
		if p.X < -epsilon || p.Y < -epsilon || !fits(p.Right(), meta.Width) || !fits(p.Bottom(), meta.Height) {
			violations = append(violations, Violation{
				Kind:             ViolationOutOfBounds,
				GlobalSheetIndex: p.GlobalSheetIndex,
				PanelInstanceID:  p.PanelInstanceID,
				Detail: fmt.Sprintf("(%.1f,%.1f)-(%.1f,%.1f) outside %.1f x %.1f",
					p.X, p.Y, p.Right(), p.Bottom(), meta.Width, meta.Height),
			})
		}
		bySheet[p.GlobalSheetIndex] = append(bySheet[p.GlobalSheetIndex], p)
	}

	for _, m := range result.SheetsMetadata {
		ps := bySheet[m.GlobalSheetIndex]
		for i := 0; i < len(ps); i++ {
			for j := i + 1; j < len(ps); j++ {
				if placementsOverlap(ps[i], ps[j]) {
					violations = append(violations, Violation{
						Kind:             ViolationOverlap,
						GlobalSheetIndex: m.GlobalSheetIndex,
						PanelInstanceID:  ps[i].PanelInstanceID,
						Other:            ps[j].PanelInstanceID,
						Detail:           fmt.Sprintf("%s overlaps %s", ps[i].PanelInstanceID, ps[j].PanelInstanceID),
					})
				}
			}
		}
	}

	return violations
}

// VerifyGrain reports every rotated placement. Use it on layouts produced
// with grain preservation enabled.
func VerifyGrain(result model.OptimizationResult) []Violation {
	var violations []Violation
	for _, p := range result.Placements {
		if p.Rotated {
			violations = append(violations, Violation{
				Kind:             ViolationRotated,
				GlobalSheetIndex: p.GlobalSheetIndex,
				PanelInstanceID:  p.PanelInstanceID,
				Detail:           "panel rotated while grain is preserved",
			})
		}
	}
	return violations
}

func placementsOverlap(a, b model.Placement) bool {
	return a.X < b.Right()-epsilon && a.Right() > b.X+epsilon &&
		a.Y < b.Bottom()-epsilon && a.Bottom() > b.Y+epsilon
}
