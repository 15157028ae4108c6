package model

import "github.com/shopspring/decimal"

// StockUsage summarizes how many sheets of one stock type a layout consumes.
type StockUsage struct {
	StockSheetID  string          `json:"stockSheetId"`
	Label         string          `json:"label"`
	SheetsUsed    int             `json:"sheetsUsed"`
	SheetsInStock int             `json:"sheetsInStock"`
	Shortfall     int             `json:"shortfall"` // Sheets to buy beyond stock on hand
	PricePerSheet decimal.Decimal `json:"pricePerSheet"`
	Cost          decimal.Decimal `json:"cost"` // SheetsUsed x PricePerSheet
}

// PurchaseEstimate holds the per stock type usage of a layout and its cost.
type PurchaseEstimate struct {
	Lines     []StockUsage    `json:"lines"`
	TotalCost decimal.Decimal `json:"totalCost"`
	Shortfall int             `json:"shortfall"`
}

// EstimatePurchase compares the sheets a layout opened against the advisory
// stock quantities. The packer never caps sheet usage, so any excess shows up
// here as a shortfall. Lines follow the order of stocks; unused types are omitted.
func EstimatePurchase(result OptimizationResult, stocks []StockSheetSpec) PurchaseEstimate {
	used := make(map[string]int)
	for _, meta := range result.SheetsMetadata {
		used[meta.StockSheetID]++
	}

	est := PurchaseEstimate{TotalCost: decimal.Zero}
	seen := make(map[string]bool)
	for _, s := range stocks {
		n := used[s.ID]
		if n == 0 || seen[s.ID] {
			continue
		}
		seen[s.ID] = true

		shortfall := n - s.Quantity
		if shortfall < 0 {
			shortfall = 0
		}
		cost := s.PricePerSheet.Mul(decimal.NewFromInt(int64(n)))
		est.Lines = append(est.Lines, StockUsage{
			StockSheetID:  s.ID,
			Label:         s.Label,
			SheetsUsed:    n,
			SheetsInStock: s.Quantity,
			Shortfall:     shortfall,
			PricePerSheet: s.PricePerSheet,
			Cost:          cost,
		})
		est.TotalCost = est.TotalCost.Add(cost)
		est.Shortfall += shortfall
	}
	return est
}
