package engine

import (
	"sync"

	"go.uber.org/zap"

	"github.com/piwi3910/PanelNest/internal/model"
)

// Optimizer nests panel demand onto stock sheets.
type Optimizer struct {
	logger   *zap.Logger
	parallel bool
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger used for warnings about dropped input.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Optimizer) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithParallelGroups packs demand groups concurrently. The result is identical
// to a sequential run.
func WithParallelGroups(enabled bool) Option {
	return func(o *Optimizer) {
		o.parallel = enabled
	}
}

// New returns an Optimizer. Without WithLogger, warnings are discarded.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize is a convenience wrapper around New().Optimize.
func Optimize(panels []model.PanelSpec, stocks []model.StockSheetSpec, options model.Options) (model.OptimizationResult, error) {
	return New().Optimize(panels, stocks, options)
}

// Optimize expands the panels into kerf-adjusted instances, routes them to
// stock sheet groups and shelf-packs each group. Panels that cannot fit any
// orientation of their sheet are reported in the result's Errors rather than
// failing the run. The only failures are empty panel or stock lists.
func (o *Optimizer) Optimize(panels []model.PanelSpec, stocks []model.StockSheetSpec, options model.Options) (model.OptimizationResult, error) {
	if len(panels) == 0 {
		return model.OptimizationResult{}, ErrNoPanels
	}
	if len(stocks) == 0 {
		return model.OptimizationResult{}, ErrNoStockSheets
	}

	instances, dropped := ExpandPanels(panels, options.Kerf)
	for _, id := range dropped {
		o.logger.Warn("panel dropped: no quantity or non-positive dimension", zap.String("panel_id", id))
	}

	groups := GroupDemand(instances, stocks, options.ConsiderMaterial, stocks[0].ID)

	packable := make([]DemandGroup, 0, len(groups))
	for _, g := range groups {
		if !g.Packable() {
			o.logger.Warn("stock group skipped: non-positive dimension",
				zap.String("stock_sheet_id", g.Stock.ID),
				zap.Float64("length", g.Stock.Length),
				zap.Float64("width", g.Stock.Width),
				zap.Int("instances", len(g.Instances)),
			)
			continue
		}
		packable = append(packable, g)
	}

	packed := o.packGroups(packable, options.PreserveGrain)
	result := assembleLayout(packed)
	for _, e := range result.Errors {
		o.logger.Warn("panel does not fit its stock sheet",
			zap.String("panel_id", e.PanelID),
			zap.String("instance_id", e.PanelInstanceID),
			zap.String("reason", string(e.Reason)),
		)
	}

	o.logger.Debug("optimization complete",
		zap.Int("instances", len(instances)),
		zap.Int("groups", len(packable)),
		zap.Int("sheets", result.SheetCount),
		zap.Int("unplaceable", len(result.Errors)),
		zap.Int("waste_percent", result.Stats.WastePercent),
	)
	return result, nil
}

// packGroups packs every group. Results keep the input group order so the
// global sheet numbering does not depend on scheduling.
func (o *Optimizer) packGroups(groups []DemandGroup, preserveGrain bool) []packedGroup {
	packed := make([]packedGroup, len(groups))
	if !o.parallel || len(groups) < 2 {
		for i, g := range groups {
			packed[i] = packShelves(g, preserveGrain)
		}
		return packed
	}

	var wg sync.WaitGroup
	for i, g := range groups {
		wg.Add(1)
		go func(i int, g DemandGroup) {
			defer wg.Done()
			packed[i] = packShelves(g, preserveGrain)
		}(i, g)
	}
	wg.Wait()
	return packed
}
