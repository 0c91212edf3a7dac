package intents

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/intenthub/orchestrator/pkg/config"
	"github.com/intenthub/orchestrator/pkg/metrics"
	"github.com/intenthub/orchestrator/pkg/models"
)

// Validity windows for fabricated intents.
const (
	intentExpiry = time.Hour
	fillDeadline = 30 * time.Minute
)

// RouteBuilder fabricates a plausible intent operation for a route request.
// The result is what a real pricing/settlement backend would return; here
// everything except the chain topology is made up deterministically enough
// for tests to sign and resubmit it.
type RouteBuilder struct {
	chains   []int64
	arbiters map[int64]string
	tokens   map[int64][]config.TokenConfig
	prices   *PriceCache
	now      func() time.Time
}

// NewRouteBuilder creates a route builder over the ordered configured chains.
// The arbiter for each element is the chain's executor fixture.
func NewRouteBuilder(cfg *config.Config) *RouteBuilder {
	arbiters := make(map[int64]string)
	tokens := make(map[int64][]config.TokenConfig)
	for chainID, chain := range cfg.Chains {
		arbiters[chainID] = chain.ExecutorAddress
		tokens[chainID] = chain.Tokens
	}
	return &RouteBuilder{
		chains:   cfg.ChainOrder,
		arbiters: arbiters,
		tokens:   tokens,
		prices:   NewPriceCache(5 * time.Minute),
		now:      time.Now,
	}
}

// Build fabricates the intent operation and cost summary for a route request.
func (b *RouteBuilder) Build(req *models.RouteRequest) (*models.RouteResponse, error) {
	if err := b.validate(req); err != nil {
		return nil, err
	}

	sourceChain := b.sourceChain(req)
	settlementLayer := models.SettlementAcross
	if sourceChain == req.DestinationChainID {
		settlementLayer = models.SettlementSameChain
	}

	now := b.now()
	nonce, err := randomNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %v", err)
	}

	tokenOut := make([]models.TokenOutEntry, 0, len(req.TokenRequests))
	tokensSpent := make(map[string]string)
	for _, tr := range req.TokenRequests {
		amount, ok := new(big.Int).SetString(tr.Amount, 10)
		if !ok || amount.Sign() < 0 {
			return nil, fmt.Errorf("invalid token request amount: %s", tr.Amount)
		}
		tokenID := new(big.Int).SetBytes(common.HexToAddress(tr.TokenAddress).Bytes())
		tokenOut = append(tokenOut, models.TokenOutEntry{TokenID: tokenID, Amount: amount})
		tokensSpent[tr.TokenAddress] = tr.Amount
	}

	var destinationOps *models.DestinationOps
	if len(req.DestinationOps) > 0 {
		destinationOps = &models.DestinationOps{
			ExecType: models.ExecTypeERC7579,
			SigMode:  models.SigModeERC1271,
			Tagged:   true,
			Ops:      req.DestinationOps,
		}
	}

	mandate := models.Mandate{
		Recipient:          req.Account.Address,
		TokenOut:           tokenOut,
		DestinationChainID: req.DestinationChainID,
		FillDeadline:       strconv.FormatInt(now.Add(fillDeadline).Unix(), 10),
		Qualifier: models.Qualifier{
			SettlementLayer: settlementLayer,
			FundingMethod:   "ESCROW",
			EncodedVal:      "0x00",
		},
		DestinationOps: destinationOps,
	}

	accountContext, err := json.Marshal(map[string]interface{}{
		"address":     req.Account.Address,
		"accountType": orDefault(req.Account.AccountType, "EOA"),
		"deployed":    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build account context: %v", err)
	}

	op := &models.IntentOp{
		Sponsor: req.Account.Address,
		Nonce:   nonce.String(),
		Expires: strconv.FormatInt(now.Add(intentExpiry).Unix(), 10),
		Elements: []models.IntentElement{
			{
				Arbiter: b.arbiters[sourceChain],
				ChainID: sourceChain,
				Mandate: mandate,
			},
		},
		ServerSignature: b.serverSignature(req.Account.Address, nonce),
		SignedMetadata: models.SignedMetadata{
			TokenPrices:    b.tokenPrices(req),
			AccountContext: accountContext,
		},
	}

	metrics.RoutesCreated.WithLabelValues(settlementLayer).Inc()

	return &models.RouteResponse{
		IntentOp: op,
		IntentCost: models.IntentCost{
			HasFulfilledAll: true,
			TokensSpent:     tokensSpent,
			TokensReceived:  tokensSpent,
			SponsorFee:      "0",
		},
	}, nil
}

// validate rejects requests no route can be fabricated for.
func (b *RouteBuilder) validate(req *models.RouteRequest) error {
	if req.DestinationChainID == 0 {
		return fmt.Errorf("destinationChainId is required")
	}
	if len(req.TokenRequests) == 0 {
		return fmt.Errorf("at least one token request is required")
	}
	if req.Account.Address == "" || !common.IsHexAddress(req.Account.Address) {
		return fmt.Errorf("account.address must be a valid address")
	}
	for i, tr := range req.TokenRequests {
		if !common.IsHexAddress(tr.TokenAddress) {
			return fmt.Errorf("tokenRequests[%d].tokenAddress must be a valid address", i)
		}
	}
	return nil
}

// sourceChain picks the first chain of the access list, falling back to the
// first configured chain.
func (b *RouteBuilder) sourceChain(req *models.RouteRequest) int64 {
	if req.AccountAccessList != nil && len(req.AccountAccessList.ChainIDs) > 0 {
		return req.AccountAccessList.ChainIDs[0]
	}
	if len(b.chains) > 0 {
		return b.chains[0]
	}
	return req.DestinationChainID
}

// tokenPrices resolves stub quotes for the requested tokens by symbol.
func (b *RouteBuilder) tokenPrices(req *models.RouteRequest) map[string]string {
	prices := make(map[string]string)
	registry := b.tokens[req.DestinationChainID]
	for _, tr := range req.TokenRequests {
		for _, token := range registry {
			if common.HexToAddress(token.Address) == common.HexToAddress(tr.TokenAddress) {
				prices[token.Symbol] = b.prices.Quote(token.Symbol)
			}
		}
	}
	return prices
}

// serverSignature produces the opaque 65-byte pseudo-signature sealed into
// the route response. Nothing verifies it; it only has to look like one.
func (b *RouteBuilder) serverSignature(sponsor string, nonce *big.Int) string {
	seed := crypto.Keccak256(common.HexToAddress(sponsor).Bytes(), nonce.Bytes())
	sig := make([]byte, 0, 65)
	sig = append(sig, seed...)
	sig = append(sig, crypto.Keccak256(seed)...)
	sig = append(sig, 0x1b)
	return hexutil.Encode(sig)
}

// randomNonce draws a fresh 128-bit intent nonce.
func randomNonce() (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), 128)
	return rand.Int(rand.Reader, limit)
}

func orDefault(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}
