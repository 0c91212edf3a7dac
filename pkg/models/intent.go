package models

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// TokenRequest is a single token the user wants delivered on the destination chain.
type TokenRequest struct {
	TokenAddress string `json:"tokenAddress"`
	Amount       string `json:"amount"`
}

// Account describes the account the intent is created for.
type Account struct {
	Address     string `json:"address"`
	AccountType string `json:"accountType,omitempty"`
}

// AccountAccessList constrains which source chains are eligible for the intent.
type AccountAccessList struct {
	ChainIDs []int64 `json:"chainIds"`
}

// RouteRequest is the body of POST /intents/route.
type RouteRequest struct {
	DestinationChainID int64              `json:"destinationChainId"`
	TokenRequests      []TokenRequest     `json:"tokenRequests"`
	Account            Account            `json:"account"`
	AccountAccessList  *AccountAccessList `json:"accountAccessList,omitempty"`
	DestinationOps     []Call             `json:"destinationOps,omitempty"`
}

// IntentOp is the fabricated intent returned by the route endpoint. Once it is
// handed back to the caller the server never mutates it; the signed copy comes
// back verbatim with the signature fields filled in.
type IntentOp struct {
	Sponsor              string          `json:"sponsor"`
	Nonce                string          `json:"nonce"`
	Expires              string          `json:"expires"`
	Elements             []IntentElement `json:"elements"`
	ServerSignature      string          `json:"serverSignature"`
	SignedMetadata       SignedMetadata  `json:"signedMetadata"`
	OriginSignatures     []string        `json:"originSignatures,omitempty"`
	DestinationSignature string          `json:"destinationSignature,omitempty"`
}

// IntentElement binds a source chain and an arbiter to a mandate.
type IntentElement struct {
	Arbiter string  `json:"arbiter"`
	ChainID int64   `json:"chainId"`
	Mandate Mandate `json:"mandate"`
}

// Mandate holds the destination-chain terms of an intent element.
type Mandate struct {
	Recipient          string          `json:"recipient"`
	TokenOut           []TokenOutEntry `json:"tokenOut"`
	DestinationChainID int64           `json:"chainId"`
	FillDeadline       string          `json:"fillDeadline"`
	Qualifier          Qualifier       `json:"qualifier"`
	DestinationOps     *DestinationOps `json:"destinationOps,omitempty"`
}

// Qualifier tags the settlement mechanism for a mandate.
type Qualifier struct {
	SettlementLayer string `json:"settlementLayer"`
	FundingMethod   string `json:"fundingMethod"`
	EncodedVal      string `json:"encodedVal"`
}

// Settlement layer tags.
const (
	SettlementSameChain = "SAME_CHAIN"
	SettlementAcross    = "ACROSS"
)

// SignedMetadata carries server-side context sealed into the signed intent.
type SignedMetadata struct {
	TokenPrices    map[string]string `json:"tokenPrices,omitempty"`
	AccountContext json.RawMessage   `json:"accountContext,omitempty"`
	SetupOps       []Call            `json:"setupOps,omitempty"`
}

// Call is a single destination call descriptor: target, optional native value
// and raw calldata.
type Call struct {
	To    string `json:"to"`
	Value string `json:"value,omitempty"`
	Data  string `json:"data"`
}

// TokenOutEntry is a packed [tokenId, amount] pair. The wire form is a
// two-element JSON array whose items may be decimal strings or numbers.
type TokenOutEntry struct {
	TokenID *big.Int
	Amount  *big.Int
}

// UnmarshalJSON parses the two-element tuple form. Anything that is not a
// pair of integers is a decode error.
func (t *TokenOutEntry) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("tokenOut entry is not an array: %v", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("tokenOut entry must have exactly 2 items, got %d", len(raw))
	}

	tokenID, err := parseBigInt(raw[0])
	if err != nil {
		return fmt.Errorf("invalid tokenOut tokenId: %v", err)
	}
	amount, err := parseBigInt(raw[1])
	if err != nil {
		return fmt.Errorf("invalid tokenOut amount: %v", err)
	}

	t.TokenID = tokenID
	t.Amount = amount
	return nil
}

// MarshalJSON writes the tuple back in the string form to avoid losing
// precision on 256-bit values.
func (t TokenOutEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{t.TokenID.String(), t.Amount.String()})
}

// parseBigInt accepts a JSON string or number holding a base-10 integer.
func parseBigInt(raw json.RawMessage) (*big.Int, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Not a string, try a bare number
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("expected integer string or number")
		}
		s = n.String()
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not a base-10 integer: %q", s)
	}
	return v, nil
}

// SubmitRequest is the body of POST /intent-operations.
type SubmitRequest struct {
	SignedIntentOp *IntentOp `json:"signedIntentOp"`
}

// RouteResponse is the body returned by POST /intents/route.
type RouteResponse struct {
	IntentOp   *IntentOp  `json:"intentOp"`
	IntentCost IntentCost `json:"intentCost"`
}

// IntentCost summarizes what fulfilling the route costs the sponsor.
type IntentCost struct {
	HasFulfilledAll bool              `json:"hasFulfilledAll"`
	TokensSpent     map[string]string `json:"tokensSpent"`
	TokensReceived  map[string]string `json:"tokensReceived"`
	SponsorFee      string            `json:"sponsorFee"`
}
