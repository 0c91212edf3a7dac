package models

// PortfolioResponse is the body of GET /accounts/{address}/portfolio.
type PortfolioResponse struct {
	Portfolio []PortfolioToken `json:"portfolio"`
}

// PortfolioToken aggregates one token's balances across all configured chains.
type PortfolioToken struct {
	TokenName         string              `json:"tokenName"`
	TokenDecimals     uint8               `json:"tokenDecimals"`
	Balance           PortfolioBalance    `json:"balance"`
	TokenChainBalance []TokenChainBalance `json:"tokenChainBalance"`
}

// PortfolioBalance splits a balance into locked and unlocked portions. The
// mock never locks anything.
type PortfolioBalance struct {
	Locked   string `json:"locked"`
	Unlocked string `json:"unlocked"`
}

// TokenChainBalance is the per-chain component of a portfolio entry.
type TokenChainBalance struct {
	ChainID      int64  `json:"chainId"`
	TokenAddress string `json:"tokenAddress"`
	Balance      string `json:"balance"`
}
