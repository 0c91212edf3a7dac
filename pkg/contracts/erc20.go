// Package contracts holds the ABI definitions and calldata packing helpers
// for the on-chain fixtures the orchestrator talks to: ERC-20 tokens, the
// Multicall3 aggregator, the mock router and the intent executor.
package contracts

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ERC20ABI covers the subset of the ERC-20 interface the orchestrator uses.
const ERC20ABI = `[
	{
		"constant": true,
		"inputs": [{"name": "_owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"payable": false,
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "_to", "type": "address"},
			{"name": "_value", "type": "uint256"}
		],
		"name": "transfer",
		"outputs": [{"name": "", "type": "bool"}],
		"payable": false,
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "_from", "type": "address"},
			{"name": "_to", "type": "address"},
			{"name": "_value", "type": "uint256"}
		],
		"name": "transferFrom",
		"outputs": [{"name": "", "type": "bool"}],
		"payable": false,
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

var (
	erc20ABIOnce   sync.Once
	erc20ABIParsed abi.ABI
	erc20ABIErr    error
)

// GetERC20ABI returns the parsed ERC-20 ABI
func GetERC20ABI() (abi.ABI, error) {
	erc20ABIOnce.Do(func() {
		erc20ABIParsed, erc20ABIErr = abi.JSON(strings.NewReader(ERC20ABI))
	})
	return erc20ABIParsed, erc20ABIErr
}

// PackTransfer encodes transfer(to, amount) calldata
func PackTransfer(to common.Address, amount *big.Int) ([]byte, error) {
	parsed, err := GetERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %v", err)
	}
	data, err := parsed.Pack("transfer", to, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack transfer: %v", err)
	}
	return data, nil
}

// PackTransferFrom encodes transferFrom(from, to, amount) calldata
func PackTransferFrom(from, to common.Address, amount *big.Int) ([]byte, error) {
	parsed, err := GetERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %v", err)
	}
	data, err := parsed.Pack("transferFrom", from, to, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack transferFrom: %v", err)
	}
	return data, nil
}

// PackBalanceOf encodes balanceOf(owner) calldata
func PackBalanceOf(owner common.Address) ([]byte, error) {
	parsed, err := GetERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %v", err)
	}
	data, err := parsed.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf: %v", err)
	}
	return data, nil
}

// UnpackBalanceOf decodes the result of a balanceOf call
func UnpackBalanceOf(data []byte) (*big.Int, error) {
	parsed, err := GetERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %v", err)
	}
	out, err := parsed.Unpack("balanceOf", data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf result: %v", err)
	}
	if len(out) == 0 || out[0] == nil {
		return nil, fmt.Errorf("empty result from balanceOf call")
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("invalid balanceOf result type")
	}
	return balance, nil
}
