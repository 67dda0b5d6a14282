package model

import "encoding/json"

// Position is a read-only holding in one protocol on one chain.
type Position struct {
	Protocol string  `json:"protocol"`
	Chain    string  `json:"chain"`
	Amount   float64 `json:"amount"`
	APY      float64 `json:"apy"`
	Value    float64 `json:"value"`
	PnL      float64 `json:"pnl"`
}

// PortfolioStats are backend-computed aggregates for a portfolio.
type PortfolioStats struct {
	TotalValue    float64 `json:"totalValue"`
	TotalInvested float64 `json:"totalInvested"`
	TotalPnL      float64 `json:"totalPnl"`
	AvgAPY        float64 `json:"avgApy"`
}

// UnmarshalJSON accepts both camelCase and snake_case field names.
func (s *PortfolioStats) UnmarshalJSON(data []byte) error {
	var wire struct {
		TotalValue         *float64 `json:"totalValue"`
		TotalValueSnake    *float64 `json:"total_value"`
		TotalInvested      *float64 `json:"totalInvested"`
		TotalInvestedSnake *float64 `json:"total_invested"`
		TotalPnL           *float64 `json:"totalPnl"`
		TotalPnLSnake      *float64 `json:"total_pnl"`
		AvgAPY             *float64 `json:"avgApy"`
		AvgAPYSnake        *float64 `json:"avg_apy"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	s.TotalValue = firstFloat(wire.TotalValue, wire.TotalValueSnake)
	s.TotalInvested = firstFloat(wire.TotalInvested, wire.TotalInvestedSnake)
	s.TotalPnL = firstFloat(wire.TotalPnL, wire.TotalPnLSnake)
	s.AvgAPY = firstFloat(wire.AvgAPY, wire.AvgAPYSnake)
	return nil
}

// Portfolio is the reply of GET /api/portfolio/{userId}.
type Portfolio struct {
	UserID      string         `json:"userId"`
	Stats       PortfolioStats `json:"stats"`
	Positions   []Position     `json:"positions"`
	LastUpdated string         `json:"lastUpdated"`
}

// UnmarshalJSON accepts both camelCase and snake_case field names.
func (p *Portfolio) UnmarshalJSON(data []byte) error {
	var wire struct {
		UserID           string         `json:"userId"`
		UserIDSnake      string         `json:"user_id"`
		Stats            PortfolioStats `json:"stats"`
		Positions        []Position     `json:"positions"`
		LastUpdated      string         `json:"lastUpdated"`
		LastUpdatedSnake string         `json:"last_updated"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	p.UserID = wire.UserID
	if p.UserID == "" {
		p.UserID = wire.UserIDSnake
	}
	p.Stats = wire.Stats
	p.Positions = wire.Positions
	p.LastUpdated = wire.LastUpdated
	if p.LastUpdated == "" {
		p.LastUpdated = wire.LastUpdatedSnake
	}
	return nil
}

// Opportunity is a yield opportunity reported by the backend.
type Opportunity struct {
	Protocol  string  `json:"protocol"`
	Chain     string  `json:"chain"`
	APY       float64 `json:"apy"`
	TVL       float64 `json:"tvl"`
	RiskScore float64 `json:"riskScore"`
	Category  string  `json:"category"`
}

// UnmarshalJSON accepts both "riskScore" and "risk_score".
func (o *Opportunity) UnmarshalJSON(data []byte) error {
	type plain Opportunity
	var wire struct {
		plain
		RiskScoreSnake *float64 `json:"risk_score"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*o = Opportunity(wire.plain)
	if wire.RiskScoreSnake != nil && o.RiskScore == 0 {
		o.RiskScore = *wire.RiskScoreSnake
	}
	return nil
}

// OpportunitiesResponse is the reply of GET /api/opportunities.
type OpportunitiesResponse struct {
	Success       bool          `json:"success"`
	Opportunities []Opportunity `json:"opportunities"`
}

// AllocationEntry is one slice of a proposed allocation. Percentages across
// an allocation are expected to sum to 100 but this is not enforced.
type AllocationEntry struct {
	Protocol   string  `json:"protocol"`
	Chain      string  `json:"chain"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	APY        float64 `json:"apy"`
	Color      string  `json:"color,omitempty"`
}

func firstFloat(vals ...*float64) float64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}
