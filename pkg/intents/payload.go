package intents

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/intenthub/orchestrator/pkg/chainclient"
)

// The executor payload is a small binary format: two fixed header bytes
// (execution type, signature mode) followed by an ABI-encoded
// (address,uint256,bytes)[] of the destination calls. The executor contract
// strips the header and dispatches the tuple array according to the two
// discriminants.

type payloadOp struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

var (
	payloadArgsOnce sync.Once
	payloadArgs     abi.Arguments
	payloadArgsErr  error
)

func getPayloadArgs() (abi.Arguments, error) {
	payloadArgsOnce.Do(func() {
		tupleArray, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
			{Name: "to", Type: "address"},
			{Name: "value", Type: "uint256"},
			{Name: "data", Type: "bytes"},
		})
		if err != nil {
			payloadArgsErr = err
			return
		}
		payloadArgs = abi.Arguments{{Name: "ops", Type: tupleArray}}
	})
	return payloadArgs, payloadArgsErr
}

// EncodeExecutorPayload packs the discriminant header and the call batch.
func EncodeExecutorPayload(execType, sigMode byte, calls []chainclient.Call) ([]byte, error) {
	args, err := getPayloadArgs()
	if err != nil {
		return nil, fmt.Errorf("failed to build payload type: %v", err)
	}

	ops := make([]payloadOp, 0, len(calls))
	for _, call := range calls {
		value := call.Value
		if value == nil {
			value = big.NewInt(0)
		}
		data := call.Data
		if data == nil {
			data = []byte{}
		}
		ops = append(ops, payloadOp{To: call.Target, Value: value, Data: data})
	}

	packed, err := args.Pack(ops)
	if err != nil {
		return nil, fmt.Errorf("failed to pack executor payload: %v", err)
	}

	payload := make([]byte, 0, 2+len(packed))
	payload = append(payload, execType, sigMode)
	payload = append(payload, packed...)
	return payload, nil
}

// DecodeExecutorPayload reverses EncodeExecutorPayload.
func DecodeExecutorPayload(payload []byte) (execType, sigMode byte, calls []chainclient.Call, err error) {
	if len(payload) < 2 {
		return 0, 0, nil, fmt.Errorf("executor payload shorter than 2-byte header")
	}

	args, err := getPayloadArgs()
	if err != nil {
		return 0, 0, nil, fmt.Errorf("failed to build payload type: %v", err)
	}

	out, err := args.Unpack(payload[2:])
	if err != nil {
		return 0, 0, nil, fmt.Errorf("failed to unpack executor payload: %v", err)
	}
	if len(out) != 1 {
		return 0, 0, nil, fmt.Errorf("unexpected unpack result length %d", len(out))
	}

	ops := *abi.ConvertType(out[0], new([]payloadOp)).(*[]payloadOp)
	calls = make([]chainclient.Call, 0, len(ops))
	for _, op := range ops {
		calls = append(calls, chainclient.Call{
			Target: op.To,
			Value:  op.Value,
			Data:   op.Data,
		})
	}

	return payload[0], payload[1], calls, nil
}
