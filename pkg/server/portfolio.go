package server

import (
	"context"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/intenthub/orchestrator/pkg/models"
)

// buildPortfolio queries every configured chain for the owner's balances of
// every configured token and folds them into the per-symbol portfolio shape.
// A chain that cannot be queried is skipped rather than failing the whole
// response.
func (s *Server) buildPortfolio(ctx context.Context, owner common.Address) (*models.PortfolioResponse, error) {
	type tokenEntry struct {
		decimals uint8
		total    *big.Int
		chains   []models.TokenChainBalance
	}
	entries := make(map[string]*tokenEntry)

	chainIDs := make([]int64, 0, len(s.chains))
	for chainID := range s.chains {
		chainIDs = append(chainIDs, chainID)
	}
	sort.Slice(chainIDs, func(i, j int) bool { return chainIDs[i] < chainIDs[j] })

	for _, chainID := range chainIDs {
		chain := s.chains[chainID]

		symbols := make([]string, 0, len(chain.Tokens()))
		for _, token := range chain.Tokens() {
			symbols = append(symbols, token.Symbol)
		}
		if len(symbols) == 0 {
			continue
		}

		balances, err := chain.BalanceOf(ctx, owner, symbols)
		if err != nil {
			s.logger.ErrorWithChain(chainID, "Portfolio balance query failed: %v", err)
			continue
		}

		for _, balance := range balances {
			entry, ok := entries[balance.Symbol]
			if !ok {
				entry = &tokenEntry{decimals: balance.Decimals, total: new(big.Int)}
				entries[balance.Symbol] = entry
			}
			entry.total.Add(entry.total, balance.Amount)
			entry.chains = append(entry.chains, models.TokenChainBalance{
				ChainID:      chainID,
				TokenAddress: balance.TokenAddress.Hex(),
				Balance:      balance.Amount.String(),
			})
		}
	}

	symbols := make([]string, 0, len(entries))
	for symbol := range entries {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	resp := &models.PortfolioResponse{Portfolio: make([]models.PortfolioToken, 0, len(symbols))}
	for _, symbol := range symbols {
		entry := entries[symbol]
		resp.Portfolio = append(resp.Portfolio, models.PortfolioToken{
			TokenName:     symbol,
			TokenDecimals: entry.decimals,
			Balance: models.PortfolioBalance{
				Locked:   "0",
				Unlocked: entry.total.String(),
			},
			TokenChainBalance: entry.chains,
		})
	}
	return resp, nil
}
