package engine

import "github.com/piwi3910/PanelNest/internal/model"

// ExpandPanel converts a panel demand into its physical cuts. Each instance is
// grown by the kerf on both axes. Panels with no quantity or a non-positive
// dimension produce nothing.
func ExpandPanel(p model.PanelSpec, kerf float64) []model.PanelInstance {
	if p.Quantity <= 0 || p.Length <= 0 || p.Width <= 0 {
		return nil
	}
	instances := make([]model.PanelInstance, 0, p.Quantity)
	for i := 0; i < p.Quantity; i++ {
		instances = append(instances, model.PanelInstance{
			ID:            model.InstanceID(p.ID, i),
			PanelID:       p.ID,
			Copy:          i,
			Label:         p.Label,
			CutLength:     p.Length + kerf,
			CutWidth:      p.Width + kerf,
			MaterialGroup: p.MaterialGroup,
			TargetSheetID: p.TargetSheetID,
		})
	}
	return instances
}

// ExpandPanels expands every panel in input order. The ids of panels that
// expanded to nothing are returned so callers can surface them.
func ExpandPanels(panels []model.PanelSpec, kerf float64) (instances []model.PanelInstance, dropped []string) {
	for _, p := range panels {
		expanded := ExpandPanel(p, kerf)
		if len(expanded) == 0 {
			dropped = append(dropped, p.ID)
			continue
		}
		instances = append(instances, expanded...)
	}
	return instances, dropped
}
