package models

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenOutEntryUnmarshal(t *testing.T) {
	t.Run("string pair", func(t *testing.T) {
		var entry TokenOutEntry
		// 2^160-1: a tokenId filling all 20 address bytes
		require.NoError(t, json.Unmarshal([]byte(`["1461501637330902918203684832716283019655932542975", "1000000"]`), &entry))
		assert.Equal(t, big.NewInt(1000000), entry.Amount)
		assert.Equal(t, 160, entry.TokenID.BitLen())
	})

	t.Run("number pair", func(t *testing.T) {
		var entry TokenOutEntry
		require.NoError(t, json.Unmarshal([]byte(`[0, 12345]`), &entry))
		assert.Equal(t, 0, entry.TokenID.Sign())
		assert.Equal(t, big.NewInt(12345), entry.Amount)
	})

	t.Run("mixed pair", func(t *testing.T) {
		var entry TokenOutEntry
		require.NoError(t, json.Unmarshal([]byte(`[0, "500"]`), &entry))
		assert.Equal(t, big.NewInt(500), entry.Amount)
	})

	t.Run("wrong arity", func(t *testing.T) {
		var entry TokenOutEntry
		assert.Error(t, json.Unmarshal([]byte(`["1"]`), &entry))
		assert.Error(t, json.Unmarshal([]byte(`["1","2","3"]`), &entry))
	})

	t.Run("not an array", func(t *testing.T) {
		var entry TokenOutEntry
		assert.Error(t, json.Unmarshal([]byte(`{"tokenId":"1"}`), &entry))
	})

	t.Run("non-integer item", func(t *testing.T) {
		var entry TokenOutEntry
		assert.Error(t, json.Unmarshal([]byte(`["abc","1"]`), &entry))
	})
}

func TestTokenOutEntryMarshal(t *testing.T) {
	huge, ok := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	require.True(t, ok)

	entry := TokenOutEntry{TokenID: big.NewInt(7), Amount: huge}
	raw, err := json.Marshal(entry)
	require.NoError(t, err)

	// String form so 256-bit amounts survive the round trip
	var back TokenOutEntry
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, 0, huge.Cmp(back.Amount))
}

func TestIntentOpRoundTrip(t *testing.T) {
	raw := `{
		"sponsor": "0x1111111111111111111111111111111111111111",
		"nonce": "12345678901234567890",
		"expires": "1767225600",
		"elements": [
			{
				"arbiter": "0x6666666666666666666666666666666666666666",
				"chainId": 31337,
				"mandate": {
					"recipient": "0x1111111111111111111111111111111111111111",
					"tokenOut": [["0", "1000"]],
					"chainId": 31338,
					"fillDeadline": "1767224600",
					"qualifier": {
						"settlementLayer": "ACROSS",
						"fundingMethod": "ESCROW",
						"encodedVal": "0x00"
					},
					"destinationOps": {
						"vt": "0x0201",
						"ops": [{"to": "0x2222222222222222222222222222222222222222", "data": "0x01"}]
					}
				}
			}
		],
		"serverSignature": "0xabcd",
		"signedMetadata": {"tokenPrices": {"USDC": "1.00"}},
		"destinationSignature": "0x1b2c"
	}`

	var op IntentOp
	require.NoError(t, json.Unmarshal([]byte(raw), &op))
	require.Len(t, op.Elements, 1)
	mandate := op.Elements[0].Mandate
	assert.Equal(t, int64(31338), mandate.DestinationChainID)
	require.NotNil(t, mandate.DestinationOps)
	assert.Equal(t, ExecTypeERC7579, mandate.DestinationOps.ExecType)
	assert.Equal(t, SigModeERC1271, mandate.DestinationOps.SigMode)

	out, err := json.Marshal(&op)
	require.NoError(t, err)

	var back IntentOp
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, op.Nonce, back.Nonce)
	assert.Equal(t, op.Elements[0].Mandate.TokenOut, back.Elements[0].Mandate.TokenOut)
	assert.Equal(t, "0x1b2c", back.DestinationSignature)
}
