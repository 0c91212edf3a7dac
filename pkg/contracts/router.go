package contracts

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// RouterABI is the batch dispatch entrypoint of the mock router fixture.
// Each sub-call carries its own native value; any sub-call failure reverts
// the whole batch.
const RouterABI = `[
	{
		"inputs": [
			{
				"components": [
					{"name": "to", "type": "address"},
					{"name": "value", "type": "uint256"},
					{"name": "data", "type": "bytes"}
				],
				"name": "calls",
				"type": "tuple[]"
			}
		],
		"name": "batchCall",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	}
]`

// RouterCall is a single sub-call of a batchCall dispatch
type RouterCall struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

var (
	routerABIOnce   sync.Once
	routerABIParsed abi.ABI
	routerABIErr    error
)

// GetRouterABI returns the parsed router ABI
func GetRouterABI() (abi.ABI, error) {
	routerABIOnce.Do(func() {
		routerABIParsed, routerABIErr = abi.JSON(strings.NewReader(RouterABI))
	})
	return routerABIParsed, routerABIErr
}

// PackBatchCall encodes batchCall(calls) calldata
func PackBatchCall(calls []RouterCall) ([]byte, error) {
	parsed, err := GetRouterABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse router ABI: %v", err)
	}
	data, err := parsed.Pack("batchCall", calls)
	if err != nil {
		return nil, fmt.Errorf("failed to pack batchCall: %v", err)
	}
	return data, nil
}
