package engine

import (
	"sort"

	"github.com/piwi3910/PanelNest/internal/model"
)

// epsilon absorbs float rounding from kerf sums in fit checks.
const epsilon = 1e-6

// fallbackUsesLastOrientation controls which orientation opens a new sheet when
// no existing sheet accepts an instance. When true, the last orientation the
// scan evaluated is used, which is the rotated one whenever grain is free.
// When false, the first orientation that fits an empty sheet is used.
const fallbackUsesLastOrientation = true

// shelf is a horizontal strip of a sheet. Instances on a shelf are laid left
// to right and share its y offset.
type shelf struct {
	y      float64
	height float64
	xUsed  float64
}

type sheetState struct {
	shelves    []shelf
	usedHeight float64
}

type orientation struct {
	length  float64
	width   float64
	rotated bool
}

// localPlacement is a placement relative to the group's own sheet numbering.
type localPlacement struct {
	instance model.PanelInstance
	sheet    int
	x, y     float64
	length   float64
	width    float64
	rotated  bool
}

// packedGroup is the outcome of packing one demand group.
type packedGroup struct {
	group      DemandGroup
	placements []localPlacement
	sheetCount int
	errors     []model.UnplaceablePanel
}

func fits(a, b float64) bool {
	return a <= b+epsilon
}

// orientationsFor lists the orientations to try, un-rotated first. A square
// instance has only one distinct orientation.
func orientationsFor(inst model.PanelInstance, preserveGrain bool) []orientation {
	list := []orientation{{length: inst.CutLength, width: inst.CutWidth}}
	if !preserveGrain && inst.CutLength != inst.CutWidth {
		list = append(list, orientation{length: inst.CutWidth, width: inst.CutLength, rotated: true})
	}
	return list
}

// packShelves packs a group's instances with first-fit-decreasing shelf
// packing. The sheet length runs along x and the sheet width along y.
func packShelves(g DemandGroup, preserveGrain bool) packedGroup {
	W, H := g.Stock.Length, g.Stock.Width
	out := packedGroup{group: g}

	instances := make([]model.PanelInstance, len(g.Instances))
	copy(instances, g.Instances)
	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].Area() > instances[j].Area()
	})

	var sheets []*sheetState

	for _, inst := range instances {
		orients := orientationsFor(inst, preserveGrain)
		placed := false

		var last *orientation
		for oi := range orients {
			o := &orients[oi]
			last = o
			if !fits(o.length, W) || !fits(o.width, H) {
				continue
			}

			for si, sheet := range sheets {
				for shi := range sheet.shelves {
					sh := &sheet.shelves[shi]
					if fits(o.width, sh.height) && fits(sh.xUsed+o.length, W) {
						out.placements = append(out.placements, localPlacement{
							instance: inst, sheet: si,
							x: sh.xUsed, y: sh.y,
							length: o.length, width: o.width, rotated: o.rotated,
						})
						sh.xUsed += o.length
						placed = true
						break
					}
				}
				if placed {
					break
				}

				if fits(sheet.usedHeight+o.width, H) {
					y := sheet.usedHeight
					sheet.shelves = append(sheet.shelves, shelf{y: y, height: o.width, xUsed: o.length})
					sheet.usedHeight += o.width
					out.placements = append(out.placements, localPlacement{
						instance: inst, sheet: si,
						x: 0, y: y,
						length: o.length, width: o.width, rotated: o.rotated,
					})
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if placed {
			continue
		}

		o := fallbackOrientation(orients, last, W, H)
		if o == nil {
			out.errors = append(out.errors, model.UnplaceablePanel{
				PanelID:         inst.PanelID,
				PanelInstanceID: inst.ID,
				Reason:          model.ReasonExceedsStockDimensions,
			})
			continue
		}

		sheets = append(sheets, &sheetState{
			shelves:    []shelf{{y: 0, height: o.width, xUsed: o.length}},
			usedHeight: o.width,
		})
		out.placements = append(out.placements, localPlacement{
			instance: inst, sheet: len(sheets) - 1,
			length: o.length, width: o.width, rotated: o.rotated,
		})
	}

	out.sheetCount = len(sheets)
	return out
}

// fallbackOrientation picks the orientation used to open a new sheet, or nil
// when no orientation fits an empty sheet.
func fallbackOrientation(orients []orientation, last *orientation, W, H float64) *orientation {
	fitsEmpty := func(o *orientation) bool {
		return o != nil && fits(o.length, W) && fits(o.width, H)
	}
	if fallbackUsesLastOrientation && fitsEmpty(last) {
		return last
	}
	for i := range orients {
		if fitsEmpty(&orients[i]) {
			return &orients[i]
		}
	}
	return nil
}
