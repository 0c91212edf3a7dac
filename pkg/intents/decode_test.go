package intents

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/intenthub/orchestrator/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRecipient = "0x1111111111111111111111111111111111111111"
	testToken     = "0x2222222222222222222222222222222222222222"
	testToken2    = "0x3333333333333333333333333333333333333333"
)

func tokenID(address string) *big.Int {
	return new(big.Int).SetBytes(common.HexToAddress(address).Bytes())
}

func singleElementOp(mandate models.Mandate) *models.IntentOp {
	return &models.IntentOp{
		Sponsor: testRecipient,
		Nonce:   "42",
		Elements: []models.IntentElement{
			{Arbiter: testToken, ChainID: 31337, Mandate: mandate},
		},
	}
}

func TestDecodeIntentOp(t *testing.T) {
	t.Run("no elements", func(t *testing.T) {
		_, err := DecodeIntentOp(&models.IntentOp{Nonce: "1"})
		assert.Error(t, err)
	})

	t.Run("recipient and chain from first element", func(t *testing.T) {
		decoded, err := DecodeIntentOp(singleElementOp(models.Mandate{
			Recipient:          testRecipient,
			DestinationChainID: 31337,
		}))
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(testRecipient), decoded.Recipient)
		assert.Equal(t, int64(31337), decoded.DestChainID)
		assert.Empty(t, decoded.Transfers)
		assert.Nil(t, decoded.NativeValue)
		assert.Nil(t, decoded.Ops)
	})

	t.Run("token transfers collected", func(t *testing.T) {
		decoded, err := DecodeIntentOp(singleElementOp(models.Mandate{
			Recipient:          testRecipient,
			DestinationChainID: 31337,
			TokenOut: []models.TokenOutEntry{
				{TokenID: tokenID(testToken), Amount: big.NewInt(100)},
				{TokenID: tokenID(testToken2), Amount: big.NewInt(250)},
			},
		}))
		require.NoError(t, err)
		require.Len(t, decoded.Transfers, 2)
		assert.Equal(t, common.HexToAddress(testToken), decoded.Transfers[0].Token)
		assert.Equal(t, big.NewInt(100), decoded.Transfers[0].Amount)
		assert.Equal(t, common.HexToAddress(testToken2), decoded.Transfers[1].Token)
	})

	t.Run("zero token id is native, first entry wins", func(t *testing.T) {
		decoded, err := DecodeIntentOp(singleElementOp(models.Mandate{
			Recipient:          testRecipient,
			DestinationChainID: 31337,
			TokenOut: []models.TokenOutEntry{
				{TokenID: big.NewInt(0), Amount: big.NewInt(1000)},
				{TokenID: big.NewInt(0), Amount: big.NewInt(9999)},
			},
		}))
		require.NoError(t, err)
		assert.Empty(t, decoded.Transfers)
		assert.Equal(t, big.NewInt(1000), decoded.NativeValue)
	})

	t.Run("token id wider than 160 bits rejected", func(t *testing.T) {
		wide := new(big.Int).Lsh(big.NewInt(1), 160)
		_, err := DecodeIntentOp(singleElementOp(models.Mandate{
			Recipient:          testRecipient,
			DestinationChainID: 31337,
			TokenOut: []models.TokenOutEntry{
				{TokenID: wide, Amount: big.NewInt(1)},
			},
		}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "160 bits")
	})

	t.Run("token id right-aligned into address", func(t *testing.T) {
		decoded, err := DecodeIntentOp(singleElementOp(models.Mandate{
			Recipient:          testRecipient,
			DestinationChainID: 31337,
			TokenOut: []models.TokenOutEntry{
				{TokenID: big.NewInt(0xabcd), Amount: big.NewInt(1)},
			},
		}))
		require.NoError(t, err)
		require.Len(t, decoded.Transfers, 1)
		assert.Equal(t, common.HexToAddress("0x000000000000000000000000000000000000abcd"), decoded.Transfers[0].Token)
	})

	t.Run("destination ops parsed with discriminants", func(t *testing.T) {
		decoded, err := DecodeIntentOp(singleElementOp(models.Mandate{
			Recipient:          testRecipient,
			DestinationChainID: 31337,
			DestinationOps: &models.DestinationOps{
				ExecType: models.ExecTypeMulticall,
				SigMode:  models.SigModeEmissary,
				Ops: []models.Call{
					{To: testToken, Value: "1000", Data: "0xdeadbeef"},
					{To: testToken2, Value: "0x10", Data: "0x"},
				},
			},
		}))
		require.NoError(t, err)
		require.NotNil(t, decoded.Ops)
		assert.Equal(t, models.ExecTypeMulticall, decoded.Ops.ExecType)
		assert.Equal(t, models.SigModeEmissary, decoded.Ops.SigMode)
		require.Len(t, decoded.Ops.Calls, 2)
		assert.Equal(t, big.NewInt(1000), decoded.Ops.Calls[0].Value)
		assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, decoded.Ops.Calls[0].Data)
		assert.Equal(t, big.NewInt(16), decoded.Ops.Calls[1].Value)
		assert.Empty(t, decoded.Ops.Calls[1].Data)
	})

	t.Run("destination ops appended across elements, first discriminants win", func(t *testing.T) {
		mandate := func(execType byte, to string) models.Mandate {
			return models.Mandate{
				Recipient:          testRecipient,
				DestinationChainID: 31337,
				DestinationOps: &models.DestinationOps{
					ExecType: execType,
					SigMode:  models.SigModeERC1271,
					Ops:      []models.Call{{To: to, Data: "0x01"}},
				},
			}
		}
		decoded, err := DecodeIntentOp(&models.IntentOp{
			Nonce: "7",
			Elements: []models.IntentElement{
				{ChainID: 31337, Mandate: mandate(models.ExecTypeERC7579, testToken)},
				{ChainID: 31338, Mandate: mandate(models.ExecTypeCalldata, testToken2)},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, decoded.Ops)
		assert.Equal(t, models.ExecTypeERC7579, decoded.Ops.ExecType)
		require.Len(t, decoded.Ops.Calls, 2)
		assert.Equal(t, common.HexToAddress(testToken2), decoded.Ops.Calls[1].Target)
	})

	t.Run("invalid call target rejected", func(t *testing.T) {
		_, err := DecodeIntentOp(singleElementOp(models.Mandate{
			Recipient:          testRecipient,
			DestinationChainID: 31337,
			DestinationOps: &models.DestinationOps{
				Ops: []models.Call{{To: "not-an-address", Data: "0x01"}},
			},
		}))
		assert.Error(t, err)
	})

	t.Run("invalid call data rejected", func(t *testing.T) {
		_, err := DecodeIntentOp(singleElementOp(models.Mandate{
			Recipient:          testRecipient,
			DestinationChainID: 31337,
			DestinationOps: &models.DestinationOps{
				Ops: []models.Call{{To: testToken, Data: "deadbeef"}},
			},
		}))
		assert.Error(t, err)
	})

	t.Run("setup ops parsed from signed metadata", func(t *testing.T) {
		op := singleElementOp(models.Mandate{
			Recipient:          testRecipient,
			DestinationChainID: 31337,
		})
		op.SignedMetadata.SetupOps = []models.Call{
			{To: testToken, Data: "0x1234"},
		}
		decoded, err := DecodeIntentOp(op)
		require.NoError(t, err)
		require.Len(t, decoded.SetupOps, 1)
		assert.Equal(t, common.HexToAddress(testToken), decoded.SetupOps[0].Target)
	})
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"1000", 1000, false},
		{"0", 0, false},
		{"0x10", 16, false},
		{"0x0", 0, false},
		{"-5", 0, true},
		{"abc", 0, true},
		{"0xzz", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseValue(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, big.NewInt(tt.expected), got)
		})
	}
}
