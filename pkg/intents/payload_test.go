package intents

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/intenthub/orchestrator/pkg/chainclient"
	"github.com/intenthub/orchestrator/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorPayloadRoundTrip(t *testing.T) {
	calls := []chainclient.Call{
		{
			Target: common.HexToAddress(testToken),
			Value:  big.NewInt(1500),
			Data:   []byte{0xde, 0xad, 0xbe, 0xef},
		},
		{
			Target: common.HexToAddress(testToken2),
			Value:  big.NewInt(0),
			Data:   []byte{},
		},
	}

	payload, err := EncodeExecutorPayload(models.ExecTypeERC7579, models.SigModeERC1271, calls)
	require.NoError(t, err)

	// Two header bytes before the ABI blob
	require.Greater(t, len(payload), 2)
	assert.Equal(t, models.ExecTypeERC7579, payload[0])
	assert.Equal(t, models.SigModeERC1271, payload[1])

	execType, sigMode, decoded, err := DecodeExecutorPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, models.ExecTypeERC7579, execType)
	assert.Equal(t, models.SigModeERC1271, sigMode)
	require.Len(t, decoded, 2)
	assert.Equal(t, calls[0].Target, decoded[0].Target)
	assert.Equal(t, 0, calls[0].Value.Cmp(decoded[0].Value))
	assert.Equal(t, calls[0].Data, decoded[0].Data)
	assert.Equal(t, calls[1].Target, decoded[1].Target)
	assert.Equal(t, 0, decoded[1].Value.Sign())
	assert.Empty(t, decoded[1].Data)
}

func TestEncodeExecutorPayloadEmptyBatch(t *testing.T) {
	payload, err := EncodeExecutorPayload(models.ExecTypeCalldata, models.SigModeEmissary, nil)
	require.NoError(t, err)

	execType, sigMode, decoded, err := DecodeExecutorPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, models.ExecTypeCalldata, execType)
	assert.Equal(t, models.SigModeEmissary, sigMode)
	assert.Empty(t, decoded)
}

func TestEncodeExecutorPayloadNilFields(t *testing.T) {
	payload, err := EncodeExecutorPayload(models.ExecTypeERC7579, models.SigModeERC1271, []chainclient.Call{
		{Target: common.HexToAddress(testToken)},
	})
	require.NoError(t, err)

	_, _, decoded, err := DecodeExecutorPayload(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, 0, decoded[0].Value.Sign())
}

func TestDecodeExecutorPayloadTooShort(t *testing.T) {
	_, _, _, err := DecodeExecutorPayload([]byte{0x02})
	assert.Error(t, err)

	_, _, _, err = DecodeExecutorPayload(nil)
	assert.Error(t, err)
}
