// Package intents is the execution pipeline for signed intents: it decodes
// the mandate wire format, compiles the normalized result into a single
// on-chain transaction and tracks the lifecycle record per nonce.
package intents

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/intenthub/orchestrator/pkg/chainclient"
	"github.com/intenthub/orchestrator/pkg/models"
)

// TokenTransfer is one normalized ERC-20 payout owed to the recipient.
type TokenTransfer struct {
	Token  common.Address
	Amount *big.Int
}

// DecodedOps is the normalized destination-operation batch together with the
// two discriminant bytes the executor contract consumes.
type DecodedOps struct {
	ExecType byte
	SigMode  byte
	Calls    []chainclient.Call
}

// Decoded is the output of mandate decoding: everything the compiler needs to
// build an execution batch.
type Decoded struct {
	Recipient   common.Address
	DestChainID int64
	Transfers   []TokenTransfer
	NativeValue *big.Int
	Ops         *DecodedOps
	SetupOps    []chainclient.Call
}

// DecodeIntentOp normalizes a signed intent operation's elements into
// transfer and call descriptors. Recipient and destination chain come from
// the first element's mandate; tokenOut entries are collected across all
// elements. Only the first native-currency entry is honored: a second native
// entry across elements does not sum into the value.
func DecodeIntentOp(op *models.IntentOp) (*Decoded, error) {
	if len(op.Elements) == 0 {
		return nil, fmt.Errorf("intent has no elements")
	}

	first := op.Elements[0].Mandate
	decoded := &Decoded{
		Recipient:   common.HexToAddress(first.Recipient),
		DestChainID: first.DestinationChainID,
	}

	for i, element := range op.Elements {
		mandate := element.Mandate
		for j, entry := range mandate.TokenOut {
			token, err := tokenAddress(entry.TokenID)
			if err != nil {
				return nil, fmt.Errorf("element %d tokenOut %d: %v", i, j, err)
			}
			if token == (common.Address{}) {
				if decoded.NativeValue == nil {
					decoded.NativeValue = new(big.Int).Set(entry.Amount)
				}
				continue
			}
			decoded.Transfers = append(decoded.Transfers, TokenTransfer{
				Token:  token,
				Amount: entry.Amount,
			})
		}

		if mandate.DestinationOps == nil || len(mandate.DestinationOps.Ops) == 0 {
			continue
		}
		if decoded.Ops == nil {
			decoded.Ops = &DecodedOps{
				ExecType: mandate.DestinationOps.ExecType,
				SigMode:  mandate.DestinationOps.SigMode,
			}
		}
		for j, call := range mandate.DestinationOps.Ops {
			parsed, err := parseCall(call)
			if err != nil {
				return nil, fmt.Errorf("element %d destinationOps %d: %v", i, j, err)
			}
			decoded.Ops.Calls = append(decoded.Ops.Calls, parsed)
		}
	}

	for i, call := range op.SignedMetadata.SetupOps {
		parsed, err := parseCall(call)
		if err != nil {
			return nil, fmt.Errorf("setupOps %d: %v", i, err)
		}
		decoded.SetupOps = append(decoded.SetupOps, parsed)
	}

	return decoded, nil
}

// tokenAddress recovers the ERC-20 address from a packed tokenId by
// right-aligning it into 20 bytes. Upper bits beyond 160 would silently
// truncate, so they are rejected outright.
func tokenAddress(tokenID *big.Int) (common.Address, error) {
	if tokenID.Sign() < 0 {
		return common.Address{}, fmt.Errorf("negative tokenId")
	}
	if tokenID.BitLen() > 160 {
		return common.Address{}, fmt.Errorf("tokenId exceeds 160 bits")
	}
	return common.BigToAddress(tokenID), nil
}

// parseCall converts a wire call descriptor into an executable call.
func parseCall(call models.Call) (chainclient.Call, error) {
	if call.To == "" {
		return chainclient.Call{}, fmt.Errorf("missing to")
	}
	if !common.IsHexAddress(call.To) {
		return chainclient.Call{}, fmt.Errorf("invalid to address: %s", call.To)
	}
	if call.Data == "" {
		return chainclient.Call{}, fmt.Errorf("missing data")
	}

	data, err := hexutil.Decode(call.Data)
	if err != nil {
		// "0x" decodes fine; anything else must be valid hex
		return chainclient.Call{}, fmt.Errorf("invalid data: %v", err)
	}

	value := big.NewInt(0)
	if call.Value != "" {
		value, err = parseValue(call.Value)
		if err != nil {
			return chainclient.Call{}, err
		}
	}

	return chainclient.Call{
		Target: common.HexToAddress(call.To),
		Value:  value,
		Data:   data,
	}, nil
}

// parseValue accepts a decimal or 0x-prefixed hex native value.
func parseValue(val string) (*big.Int, error) {
	var parsed *big.Int
	var ok bool
	if strings.HasPrefix(val, "0x") {
		parsed, ok = new(big.Int).SetString(strings.TrimPrefix(val, "0x"), 16)
	} else {
		parsed, ok = new(big.Int).SetString(val, 10)
	}
	if !ok || parsed.Sign() < 0 {
		return nil, fmt.Errorf("invalid value: %s", val)
	}
	return parsed, nil
}
