package engine

import "github.com/piwi3910/PanelNest/internal/model"

// DemandGroup is an independent packing problem: the instances that will be
// packed onto sheets of a single stock type.
type DemandGroup struct {
	Key       string
	Stock     model.StockSheetSpec
	Instances []model.PanelInstance
}

// Packable reports whether the group's stock sheet has usable dimensions.
func (g DemandGroup) Packable() bool {
	return g.Stock.Length > 0 && g.Stock.Width > 0
}

// GroupDemand routes every instance to the stock sheet that governs its packing.
//
// Without material partitioning, or for instances with no target sheet, the
// instance goes to the default group keyed by defaultKey. A target that
// matches no stock sheet also falls back to the default group. Groups are
// returned in the order their key was first seen.
func GroupDemand(instances []model.PanelInstance, stocks []model.StockSheetSpec, considerMaterial bool, defaultKey string) []DemandGroup {
	if len(stocks) == 0 {
		return nil
	}

	byID := make(map[string]model.StockSheetSpec, len(stocks))
	for _, s := range stocks {
		if _, ok := byID[s.ID]; !ok {
			byID[s.ID] = s
		}
	}
	defaultStock, ok := byID[defaultKey]
	if !ok {
		defaultStock = stocks[0]
		defaultKey = stocks[0].ID
	}

	var groups []DemandGroup
	index := make(map[string]int)

	for _, inst := range instances {
		key, stock := defaultKey, defaultStock
		if considerMaterial && inst.TargetSheetID != "" {
			if s, found := byID[inst.TargetSheetID]; found {
				key, stock = inst.TargetSheetID, s
			}
		}

		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, DemandGroup{Key: key, Stock: stock})
		}
		groups[i].Instances = append(groups[i].Instances, inst)
	}
	return groups
}
