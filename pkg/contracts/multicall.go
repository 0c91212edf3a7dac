package contracts

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// MulticallABI is the aggregate entrypoint of the Multicall3 deployment used
// on the forked chains. aggregate reverts the whole batch if any sub-call
// reverts.
const MulticallABI = `[
	{
		"inputs": [
			{
				"components": [
					{"name": "target", "type": "address"},
					{"name": "callData", "type": "bytes"}
				],
				"name": "calls",
				"type": "tuple[]"
			}
		],
		"name": "aggregate",
		"outputs": [
			{"name": "blockNumber", "type": "uint256"},
			{"name": "returnData", "type": "bytes[]"}
		],
		"stateMutability": "payable",
		"type": "function"
	}
]`

// MulticallCall is a single sub-call of an aggregate batch
type MulticallCall struct {
	Target   common.Address
	CallData []byte
}

var (
	multicallABIOnce   sync.Once
	multicallABIParsed abi.ABI
	multicallABIErr    error
)

// GetMulticallABI returns the parsed Multicall3 ABI
func GetMulticallABI() (abi.ABI, error) {
	multicallABIOnce.Do(func() {
		multicallABIParsed, multicallABIErr = abi.JSON(strings.NewReader(MulticallABI))
	})
	return multicallABIParsed, multicallABIErr
}

// PackAggregate encodes aggregate(calls) calldata
func PackAggregate(calls []MulticallCall) ([]byte, error) {
	parsed, err := GetMulticallABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse Multicall ABI: %v", err)
	}
	data, err := parsed.Pack("aggregate", calls)
	if err != nil {
		return nil, fmt.Errorf("failed to pack aggregate: %v", err)
	}
	return data, nil
}
