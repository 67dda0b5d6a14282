// Package portfolio derives the display figures for positions and proposed
// allocations. It never computes yields itself; APYs come from the backend.
package portfolio

import "github.com/alfredjeanlab/swarmdash/internal/model"

// ETHPriceUSD is the fixed conversion used for the USD sub-total.
const ETHPriceUSD = 2500.0

// Summary holds the aggregate figures shown above a positions table.
type Summary struct {
	TotalValue float64 `json:"total_value"`
	TotalPnL   float64 `json:"total_pnl"`
	PnLPercent float64 `json:"pnl_percent"`
	AvgAPY     float64 `json:"avg_apy"`
	ValueUSD   float64 `json:"value_usd"`
	Count      int     `json:"count"`
}

// Summarize totals positions. AvgAPY and PnLPercent are zero when there is
// nothing to divide by.
func Summarize(positions []model.Position) Summary {
	var s Summary
	var apySum float64
	for _, p := range positions {
		s.TotalValue += p.Value
		s.TotalPnL += p.PnL
		apySum += p.APY
	}
	s.Count = len(positions)
	if s.Count > 0 {
		s.AvgAPY = apySum / float64(s.Count)
	}
	if s.TotalValue != 0 {
		s.PnLPercent = s.TotalPnL / s.TotalValue * 100
	}
	s.ValueUSD = s.TotalValue * ETHPriceUSD
	return s
}

// AllocationSummary holds the figures shown next to an allocation chart.
type AllocationSummary struct {
	TotalAmount     float64 `json:"total_amount"`
	WeightedAPY     float64 `json:"weighted_apy"`
	PercentTotal    float64 `json:"percent_total"`
	ProjectedYearly float64 `json:"projected_yearly"`
}

// SummarizeAllocation totals an allocation. WeightedAPY weights each APY by
// its percentage share; PercentTotal is reported, not enforced.
func SummarizeAllocation(entries []model.AllocationEntry) AllocationSummary {
	var s AllocationSummary
	for _, e := range entries {
		s.TotalAmount += e.Amount
		s.WeightedAPY += e.APY * e.Percentage / 100
		s.PercentTotal += e.Percentage
	}
	s.ProjectedYearly = s.TotalAmount * s.WeightedAPY / 100
	return s
}
