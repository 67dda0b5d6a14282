package portfolio

import "github.com/alfredjeanlab/swarmdash/internal/model"

// SamplePositions is shown when the backend has no portfolio to return.
func SamplePositions() []model.Position {
	return []model.Position{
		{Protocol: "Aave V3", Chain: "Ethereum", Amount: 5.0, APY: 4.2, Value: 5.12, PnL: 0.12},
		{Protocol: "Uniswap V3", Chain: "Polygon", Amount: 4.0, APY: 12.5, Value: 4.28, PnL: 0.28},
		{Protocol: "Raydium", Chain: "Solana", Amount: 3.45, APY: 18.3, Value: 3.63, PnL: 0.18},
	}
}

// SampleAllocation is the allocation preview shown after an investment turn.
func SampleAllocation() []model.AllocationEntry {
	return []model.AllocationEntry{
		{Protocol: "Aave V3", Chain: "Ethereum", Amount: 3.0, Percentage: 30, APY: 5.8, Color: "#8B5CF6"},
		{Protocol: "Uniswap V3", Chain: "Polygon", Amount: 3.5, Percentage: 35, APY: 12.5, Color: "#3B82F6"},
		{Protocol: "Raydium", Chain: "Solana", Amount: 2.0, Percentage: 20, APY: 18.2, Color: "#10B981"},
		{Protocol: "GMX", Chain: "Arbitrum", Amount: 1.5, Percentage: 15, APY: 14.5, Color: "#F59E0B"},
	}
}
