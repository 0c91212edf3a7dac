package models

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Execution types understood by the on-chain intent executor. The value is
// the first byte of the packed operation payload.
const (
	ExecTypeEIP712Hash byte = 0
	ExecTypeCalldata   byte = 1
	ExecTypeERC7579    byte = 2
	ExecTypeMulticall  byte = 3
)

// Signature verification modes. The value is the second byte of the packed
// operation payload.
const (
	SigModeEmissary                 byte = 0
	SigModeERC1271                  byte = 1
	SigModeEmissaryERC1271          byte = 2
	SigModeERC1271Emissary          byte = 3
	SigModeEmissaryExecution        byte = 4
	SigModeEmissaryExecutionERC1271 byte = 5
	SigModeERC1271EmissaryExecution byte = 6
)

// DestinationOps is the set of extra calls to run on the destination chain.
// Two wire shapes are accepted for backward compatibility:
//
//   - a legacy flat array of call descriptors, or
//   - an object {"vt": "0x....", "ops": [...]} where vt is a 2-byte value
//     whose first byte selects the execution type and second byte the
//     signature mode.
//
// When vt is absent the execution type defaults to ERC7579 and the signature
// mode to ERC1271.
type DestinationOps struct {
	ExecType byte
	SigMode  byte
	Tagged   bool
	Ops      []Call
}

type taggedOps struct {
	VT  string `json:"vt"`
	Ops []Call `json:"ops"`
}

// UnmarshalJSON discriminates the two wire shapes at parse time.
func (d *DestinationOps) UnmarshalJSON(data []byte) error {
	d.ExecType = ExecTypeERC7579
	d.SigMode = SigModeERC1271

	// Legacy shape: bare array of call descriptors.
	var legacy []Call
	if err := json.Unmarshal(data, &legacy); err == nil {
		d.Tagged = false
		d.Ops = legacy
		return validateCalls(legacy)
	}

	var tagged taggedOps
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("destinationOps is neither an array nor a tagged object: %v", err)
	}
	d.Tagged = true
	d.Ops = tagged.Ops

	if tagged.VT != "" {
		vt, err := hexutil.Decode(tagged.VT)
		if err != nil {
			return fmt.Errorf("invalid destinationOps vt: %v", err)
		}
		if len(vt) != 2 {
			return fmt.Errorf("destinationOps vt must be 2 bytes, got %d", len(vt))
		}
		d.ExecType = vt[0]
		d.SigMode = vt[1]
	}

	return validateCalls(tagged.Ops)
}

// MarshalJSON always writes the tagged shape; the legacy array is accepted on
// input only.
func (d DestinationOps) MarshalJSON() ([]byte, error) {
	return json.Marshal(taggedOps{
		VT:  hexutil.Encode([]byte{d.ExecType, d.SigMode}),
		Ops: d.Ops,
	})
}

// validateCalls rejects descriptors with missing fields. A call with no
// target or no calldata cannot be compiled.
func validateCalls(calls []Call) error {
	for i, c := range calls {
		if c.To == "" {
			return fmt.Errorf("destinationOps[%d]: missing to", i)
		}
		if c.Data == "" {
			return fmt.Errorf("destinationOps[%d]: missing data", i)
		}
	}
	return nil
}
