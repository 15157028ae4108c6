package engine

import (
	"fmt"

	"github.com/piwi3910/PanelNest/internal/model"
)

// ComparisonScenario is a named set of options to evaluate.
type ComparisonScenario struct {
	Name    string        `json:"name"`
	Options model.Options `json:"options"`
}

// ComparisonResult holds the layout and headline figures for one scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario       `json:"scenario"`
	Result        model.OptimizationResult `json:"result"`
	SheetsUsed    int                      `json:"sheetsUsed"`
	TotalCuts     int                      `json:"totalCuts"`
	WastePercent  int                      `json:"wastePercent"`
	UnplacedCount int                      `json:"unplacedCount"`
}

// CompareScenarios optimizes the same demand under each scenario and returns
// the results in scenario order.
func (o *Optimizer) CompareScenarios(scenarios []ComparisonScenario, panels []model.PanelSpec, stocks []model.StockSheetSpec) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))
	for _, sc := range scenarios {
		result, err := o.Optimize(panels, stocks, sc.Options)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		results = append(results, ComparisonResult{
			Scenario:      sc,
			Result:        result,
			SheetsUsed:    result.SheetCount,
			TotalCuts:     result.Stats.TotalCuts,
			WastePercent:  result.Stats.WastePercent,
			UnplacedCount: len(result.Errors),
		})
	}
	return results, nil
}

// BuildDefaultScenarios derives what-if alternatives from the current options:
// the opposite grain setting, half the kerf when the kerf exceeds 1mm, and the
// opposite material partitioning.
func BuildDefaultScenarios(base model.Options) []ComparisonScenario {
	scenarios := []ComparisonScenario{{Name: "Current settings", Options: base}}

	grain := base
	grain.PreserveGrain = !base.PreserveGrain
	if grain.PreserveGrain {
		scenarios = append(scenarios, ComparisonScenario{Name: "Preserve grain", Options: grain})
	} else {
		scenarios = append(scenarios, ComparisonScenario{Name: "Allow rotation", Options: grain})
	}

	if base.Kerf > 1 {
		thin := base
		thin.Kerf = base.Kerf / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:    fmt.Sprintf("Thin kerf (%.1fmm)", thin.Kerf),
			Options: thin,
		})
	}

	material := base
	material.ConsiderMaterial = !base.ConsiderMaterial
	if material.ConsiderMaterial {
		scenarios = append(scenarios, ComparisonScenario{Name: "Split by material", Options: material})
	} else {
		scenarios = append(scenarios, ComparisonScenario{Name: "Single stock sheet", Options: material})
	}

	return scenarios
}
