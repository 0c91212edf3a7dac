package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestinationOpsUnmarshal(t *testing.T) {
	t.Run("legacy array shape", func(t *testing.T) {
		raw := `[{"to":"0x2222222222222222222222222222222222222222","value":"100","data":"0xdeadbeef"}]`

		var ops DestinationOps
		require.NoError(t, json.Unmarshal([]byte(raw), &ops))
		assert.False(t, ops.Tagged)
		assert.Equal(t, ExecTypeERC7579, ops.ExecType)
		assert.Equal(t, SigModeERC1271, ops.SigMode)
		require.Len(t, ops.Ops, 1)
		assert.Equal(t, "0xdeadbeef", ops.Ops[0].Data)
	})

	t.Run("tagged shape with vt", func(t *testing.T) {
		raw := `{"vt":"0x0300","ops":[{"to":"0x2222222222222222222222222222222222222222","data":"0x01"}]}`

		var ops DestinationOps
		require.NoError(t, json.Unmarshal([]byte(raw), &ops))
		assert.True(t, ops.Tagged)
		assert.Equal(t, ExecTypeMulticall, ops.ExecType)
		assert.Equal(t, SigModeEmissary, ops.SigMode)
		require.Len(t, ops.Ops, 1)
	})

	t.Run("tagged shape without vt uses defaults", func(t *testing.T) {
		raw := `{"ops":[{"to":"0x2222222222222222222222222222222222222222","data":"0x01"}]}`

		var ops DestinationOps
		require.NoError(t, json.Unmarshal([]byte(raw), &ops))
		assert.True(t, ops.Tagged)
		assert.Equal(t, ExecTypeERC7579, ops.ExecType)
		assert.Equal(t, SigModeERC1271, ops.SigMode)
	})

	t.Run("vt with wrong width rejected", func(t *testing.T) {
		raw := `{"vt":"0x030001","ops":[{"to":"0x2222222222222222222222222222222222222222","data":"0x01"}]}`

		var ops DestinationOps
		err := json.Unmarshal([]byte(raw), &ops)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 bytes")
	})

	t.Run("vt with invalid hex rejected", func(t *testing.T) {
		raw := `{"vt":"0xzzzz","ops":[]}`

		var ops DestinationOps
		assert.Error(t, json.Unmarshal([]byte(raw), &ops))
	})

	t.Run("call missing to rejected", func(t *testing.T) {
		raw := `[{"data":"0x01"}]`

		var ops DestinationOps
		assert.Error(t, json.Unmarshal([]byte(raw), &ops))
	})

	t.Run("call missing data rejected", func(t *testing.T) {
		raw := `{"ops":[{"to":"0x2222222222222222222222222222222222222222"}]}`

		var ops DestinationOps
		assert.Error(t, json.Unmarshal([]byte(raw), &ops))
	})

	t.Run("neither shape rejected", func(t *testing.T) {
		var ops DestinationOps
		assert.Error(t, json.Unmarshal([]byte(`"bogus"`), &ops))
	})
}

func TestDestinationOpsMarshalIsTagged(t *testing.T) {
	ops := DestinationOps{
		ExecType: ExecTypeMulticall,
		SigMode:  SigModeEmissary,
		Tagged:   false, // even a legacy-parsed value writes back tagged
		Ops:      []Call{{To: "0x2222222222222222222222222222222222222222", Data: "0x01"}},
	}

	raw, err := json.Marshal(ops)
	require.NoError(t, err)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.JSONEq(t, `"0x0300"`, string(out["vt"]))

	var parsed DestinationOps
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, ExecTypeMulticall, parsed.ExecType)
	assert.Equal(t, SigModeEmissary, parsed.SigMode)
}
