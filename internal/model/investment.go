package model

// RiskLevel is the user's risk tolerance for an investment.
type RiskLevel string

const (
	RiskConservative RiskLevel = "conservative"
	RiskModerate     RiskLevel = "moderate"
	RiskAggressive   RiskLevel = "aggressive"
)

// IsValid checks whether the risk level is a known value.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskConservative, RiskModerate, RiskAggressive:
		return true
	}
	return false
}

// Chain is a blockchain network accepted by the invest endpoint.
type Chain string

const (
	ChainEthereum Chain = "ethereum"
	ChainPolygon  Chain = "polygon"
	ChainArbitrum Chain = "arbitrum"
	ChainOptimism Chain = "optimism"
	ChainBase     Chain = "base"
)

// IsValid checks whether the chain is a known value.
func (c Chain) IsValid() bool {
	switch c {
	case ChainEthereum, ChainPolygon, ChainArbitrum, ChainOptimism, ChainBase:
		return true
	}
	return false
}

// DefaultCurrency is used when an investment request leaves Currency empty.
const DefaultCurrency = "ETH"

// InvestmentRequest is the body of POST /api/invest.
type InvestmentRequest struct {
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	RiskLevel RiskLevel `json:"risk_level"`
	Chains    []Chain   `json:"chains"`
}
