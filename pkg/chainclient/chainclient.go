// Package chainclient wraps one JSON-RPC-connected relayer account per chain.
// It exposes what the intent pipeline needs: balance reads, ERC-20 calldata
// encoding, multicall and router batch aggregation, and raw receipt-checked
// execution.
package chainclient

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/intenthub/orchestrator/pkg/config"
	"github.com/intenthub/orchestrator/pkg/contracts"
	"github.com/intenthub/orchestrator/pkg/logger"
	"github.com/intenthub/orchestrator/pkg/metrics"
)

// Call is one target/value/calldata triple of an execution batch.
type Call struct {
	Target common.Address
	Value  *big.Int
	Data   []byte
}

// Balance is the result of a single token balance lookup.
type Balance struct {
	Symbol       string
	TokenAddress common.Address
	Decimals     uint8
	Amount       *big.Int
}

// Client contains client and config information for a specific blockchain
type Client struct {
	ChainID          int64
	RPCURL           string
	RouterAddress    common.Address
	ExecutorAddress  common.Address
	MulticallAddress common.Address
	Client           *ethclient.Client
	Auth             *bind.TransactOpts
	GasMultiplier    float64

	tokens []config.TokenConfig
	nonces *nonceSerializer
	logger logger.Logger
}

// New connects a relayer account to a chain and returns its execution service
func New(ctx context.Context, cfg *config.ChainConfig, privateKey string, gasMultiplier float64, log logger.Logger) (*Client, error) {
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain %d: %v", cfg.ChainID, err)
	}

	auth, err := createAuthenticator(ctx, client, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator for chain %d: %v", cfg.ChainID, err)
	}

	if gasMultiplier <= 0 {
		gasMultiplier = 1.1
	}

	c := &Client{
		ChainID:          cfg.ChainID,
		RPCURL:           cfg.RPCURL,
		RouterAddress:    common.HexToAddress(cfg.RouterAddress),
		ExecutorAddress:  common.HexToAddress(cfg.ExecutorAddress),
		MulticallAddress: common.HexToAddress(cfg.MulticallAddress),
		Client:           client,
		Auth:             auth,
		GasMultiplier:    gasMultiplier,
		tokens:           cfg.Tokens,
		nonces:           newNonceSerializer(),
		logger:           log,
	}

	log.InfoWithChain(c.ChainID, "Connected to %s as %s", cfg.RPCURL, auth.From.Hex())
	return c, nil
}

// RelayerAddress returns the relayer account funding the payouts
func (c *Client) RelayerAddress() common.Address {
	return c.Auth.From
}

// Tokens returns the token registry for this chain
func (c *Client) Tokens() []config.TokenConfig {
	return c.tokens
}

// BalanceOf reads the relayer-visible balances of the given token symbols for
// an owner address. Symbols not configured on this chain are skipped.
func (c *Client) BalanceOf(ctx context.Context, owner common.Address, symbols []string) ([]Balance, error) {
	var balances []Balance
	for _, symbol := range symbols {
		var token config.TokenConfig
		found := false
		for _, t := range c.tokens {
			if t.Symbol == symbol {
				token = t
				found = true
				break
			}
		}
		if !found {
			continue
		}

		calldata, err := contracts.PackBalanceOf(owner)
		if err != nil {
			return nil, err
		}
		tokenAddr := common.HexToAddress(token.Address)
		result, err := c.Client.CallContract(ctx, ethereum.CallMsg{
			To:   &tokenAddr,
			Data: calldata,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("balanceOf call failed for %s on chain %d: %v", symbol, c.ChainID, err)
		}
		amount, err := contracts.UnpackBalanceOf(result)
		if err != nil {
			return nil, err
		}

		balances = append(balances, Balance{
			Symbol:       symbol,
			TokenAddress: tokenAddr,
			Decimals:     token.Decimals,
			Amount:       amount,
		})
	}
	return balances, nil
}

// ERC20Transfer builds a transfer(to, amount) call against a token
func (c *Client) ERC20Transfer(token, to common.Address, amount *big.Int) (Call, error) {
	data, err := contracts.PackTransfer(to, amount)
	if err != nil {
		return Call{}, err
	}
	return Call{Target: token, Value: big.NewInt(0), Data: data}, nil
}

// ERC20TransferFrom builds a transferFrom(from, to, amount) call against a token
func (c *Client) ERC20TransferFrom(token, from, to common.Address, amount *big.Int) (Call, error) {
	data, err := contracts.PackTransferFrom(from, to, amount)
	if err != nil {
		return Call{}, err
	}
	return Call{Target: token, Value: big.NewInt(0), Data: data}, nil
}

// Multicall aggregates N calls into a single Multicall3 aggregate call.
// The whole batch reverts if any sub-call fails.
func (c *Client) Multicall(calls []Call) (Call, error) {
	batch := make([]contracts.MulticallCall, 0, len(calls))
	for _, call := range calls {
		batch = append(batch, contracts.MulticallCall{
			Target:   call.Target,
			CallData: call.Data,
		})
	}
	data, err := contracts.PackAggregate(batch)
	if err != nil {
		return Call{}, err
	}
	return Call{Target: c.MulticallAddress, Value: big.NewInt(0), Data: data}, nil
}

// RouterBatchCall wraps N calls for the mock router fixture. The router is
// msg.sender for each sub-call and reverts the batch on any failure.
func (c *Client) RouterBatchCall(calls []Call) (Call, error) {
	batch := make([]contracts.RouterCall, 0, len(calls))
	for _, call := range calls {
		value := call.Value
		if value == nil {
			value = big.NewInt(0)
		}
		batch = append(batch, contracts.RouterCall{
			To:    call.Target,
			Value: value,
			Data:  call.Data,
		})
	}
	data, err := contracts.PackBatchCall(batch)
	if err != nil {
		return Call{}, err
	}
	return Call{Target: c.RouterAddress, Value: big.NewInt(0), Data: data}, nil
}

// ExecutorCall builds the verified-executor dispatch carrying the packed
// operation payload and the destination signature.
func (c *Client) ExecutorCall(sponsor common.Address, nonce *big.Int, payload, signature []byte) (Call, error) {
	data, err := contracts.PackExecuteIntentOps(sponsor, nonce, payload, signature)
	if err != nil {
		return Call{}, err
	}
	return Call{Target: c.ExecutorAddress, Value: big.NewInt(0), Data: data}, nil
}

// Execute signs and submits a single transaction and waits for its receipt.
// Submissions on the same chain are serialized so the relayer account nonce
// never races.
func (c *Client) Execute(ctx context.Context, call Call) (common.Hash, error) {
	c.nonces.Lock()
	defer c.nonces.Unlock()

	nonce, err := c.nonces.next(ctx, c.Client, c.Auth.From)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to allocate nonce on chain %d: %v", c.ChainID, err)
	}

	gasPrice, err := c.suggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	value := call.Value
	if value == nil {
		value = big.NewInt(0)
	}

	gasLimit, err := c.Client.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.Auth.From,
		To:    &call.Target,
		Value: value,
		Data:  call.Data,
	})
	if err != nil {
		c.nonces.release(nonce)
		return common.Hash{}, fmt.Errorf("gas estimation failed on chain %d: %v", c.ChainID, err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &call.Target,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     call.Data,
	})

	signedTx, err := c.Auth.Signer(c.Auth.From, tx)
	if err != nil {
		c.nonces.release(nonce)
		return common.Hash{}, fmt.Errorf("failed to sign transaction on chain %d: %v", c.ChainID, err)
	}

	if err := c.Client.SendTransaction(ctx, signedTx); err != nil {
		c.nonces.release(nonce)
		return common.Hash{}, fmt.Errorf("failed to send transaction on chain %d: %v", c.ChainID, err)
	}

	c.logger.InfoWithChain(c.ChainID, "Submitted tx %s (nonce: %d, gas: %d)",
		signedTx.Hash().Hex(), nonce, gasLimit)

	receipt, err := bind.WaitMined(ctx, c.Client, signedTx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to wait for transaction on chain %d: %v", c.ChainID, err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return common.Hash{}, fmt.Errorf("transaction %s reverted on chain %d", signedTx.Hash().Hex(), c.ChainID)
	}

	metrics.GasUsed.WithLabelValues(strconv.FormatInt(c.ChainID, 10)).Observe(float64(receipt.GasUsed))

	c.logger.InfoWithChain(c.ChainID, "Confirmed tx %s (gas used: %d)",
		signedTx.Hash().Hex(), receipt.GasUsed)
	return signedTx.Hash(), nil
}

// LatestBlockNumber gets the latest block number from the chain
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	if c.Client == nil {
		return 0, fmt.Errorf("client not connected")
	}
	return c.Client.BlockNumber(ctx)
}

// suggestGasPrice fetches the current gas price and applies the multiplier
func (c *Client) suggestGasPrice(ctx context.Context) (*big.Int, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	gasPrice, err := c.Client.SuggestGasPrice(timeoutCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price on chain %d: %v", c.ChainID, err)
	}

	// Apply gas multiplier (e.g. 1.1 = 10% buffer)
	multipliedGasPrice := new(big.Float).Mul(
		new(big.Float).SetInt(gasPrice),
		big.NewFloat(c.GasMultiplier),
	)
	finalGasPrice := new(big.Int)
	multipliedGasPrice.Int(finalGasPrice)

	gwei, _ := new(big.Float).Quo(multipliedGasPrice, big.NewFloat(1e9)).Float64()
	metrics.GasPrice.WithLabelValues(strconv.FormatInt(c.ChainID, 10)).Set(gwei)
	return finalGasPrice, nil
}

// Helper function to create authenticator
func createAuthenticator(ctx context.Context, client *ethclient.Client, privateKeyHex string) (*bind.TransactOpts, error) {
	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %v", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %v", err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %v", err)
	}

	return auth, nil
}
