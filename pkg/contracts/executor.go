package contracts

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ExecutorABI is the verifying intent executor fixture. It checks the
// destination signature against the sponsor account before dispatching the
// packed operation batch.
const ExecutorABI = `[
	{
		"inputs": [
			{"name": "sponsor", "type": "address"},
			{"name": "nonce", "type": "uint256"},
			{"name": "ops", "type": "bytes"},
			{"name": "signature", "type": "bytes"}
		],
		"name": "executeIntentOps",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	}
]`

var (
	executorABIOnce   sync.Once
	executorABIParsed abi.ABI
	executorABIErr    error
)

// GetExecutorABI returns the parsed executor ABI
func GetExecutorABI() (abi.ABI, error) {
	executorABIOnce.Do(func() {
		executorABIParsed, executorABIErr = abi.JSON(strings.NewReader(ExecutorABI))
	})
	return executorABIParsed, executorABIErr
}

// PackExecuteIntentOps encodes executeIntentOps(sponsor, nonce, ops, signature) calldata
func PackExecuteIntentOps(sponsor common.Address, nonce *big.Int, ops, signature []byte) ([]byte, error) {
	parsed, err := GetExecutorABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse executor ABI: %v", err)
	}
	data, err := parsed.Pack("executeIntentOps", sponsor, nonce, ops, signature)
	if err != nil {
		return nil, fmt.Errorf("failed to pack executeIntentOps: %v", err)
	}
	return data, nil
}
