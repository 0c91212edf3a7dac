package intents

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/intenthub/orchestrator/pkg/chainclient"
	"github.com/intenthub/orchestrator/pkg/circuitbreaker"
	"github.com/intenthub/orchestrator/pkg/logger"
	"github.com/intenthub/orchestrator/pkg/metrics"
	"github.com/intenthub/orchestrator/pkg/models"
)

// ExecutionService is the per-chain collaborator the compiler dispatches
// through. *chainclient.Client implements it; tests substitute a mock.
type ExecutionService interface {
	RelayerAddress() common.Address
	ERC20TransferFrom(token, from, to common.Address, amount *big.Int) (chainclient.Call, error)
	Multicall(calls []chainclient.Call) (chainclient.Call, error)
	RouterBatchCall(calls []chainclient.Call) (chainclient.Call, error)
	ExecutorCall(sponsor common.Address, nonce *big.Int, payload, signature []byte) (chainclient.Call, error)
	Execute(ctx context.Context, call chainclient.Call) (common.Hash, error)
}

// Dispatch strategies a compiled batch can take.
const (
	strategyNone      = "none"
	strategyDirect    = "direct"
	strategyNative    = "native"
	strategyMulticall = "multicall"
	strategyRouter    = "router"
)

// Compiler turns a signed intent operation into exactly one on-chain
// transaction and records the outcome.
type Compiler struct {
	services map[int64]ExecutionService
	store    *Store
	breakers map[int64]*circuitbreaker.CircuitBreaker
	logger   logger.Logger
}

// NewCompiler creates an execution compiler over the given per-chain services
func NewCompiler(services map[int64]ExecutionService, store *Store, breakers map[int64]*circuitbreaker.CircuitBreaker, log logger.Logger) *Compiler {
	if log == nil {
		log = &logger.EmptyLogger{}
	}
	return &Compiler{
		services: services,
		store:    store,
		breakers: breakers,
		logger:   log,
	}
}

// Execute compiles and executes a signed intent operation. The returned hash
// is the fill transaction, or the all-zero hash when the batch was empty and
// nothing needed to be sent. A PENDING record is written up front and driven
// to COMPLETED or FAILED before this returns.
func (c *Compiler) Execute(ctx context.Context, op *models.IntentOp) (common.Hash, error) {
	startTime := time.Now()

	decoded, err := DecodeIntentOp(op)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to decode intent %s: %v", op.Nonce, err)
	}

	c.store.Put(op.Nonce, &models.IntentRecord{
		ID:                 op.Nonce,
		Status:             models.StatusPending,
		Recipient:          decoded.Recipient.Hex(),
		DestinationChainID: decoded.DestChainID,
		Claims:             []models.Claim{},
	})

	hash, strategy, err := c.execute(ctx, op, decoded)

	chainLabel := strconv.FormatInt(decoded.DestChainID, 10)
	metrics.IntentExecutionTime.WithLabelValues(chainLabel).Observe(time.Since(startTime).Seconds())

	if err != nil {
		c.finish(op.Nonce, decoded, models.StatusFailed, common.Hash{})
		metrics.IntentsExecuted.WithLabelValues(chainLabel, "failed").Inc()
		if cb, ok := c.breakers[decoded.DestChainID]; ok {
			cb.RecordFailure()
		}
		c.logger.ErrorWithChain(decoded.DestChainID, "Intent %s failed: %v", op.Nonce, err)
		return common.Hash{}, err
	}

	c.finish(op.Nonce, decoded, models.StatusCompleted, hash)
	metrics.IntentsExecuted.WithLabelValues(chainLabel, "success").Inc()
	c.logger.InfoWithChain(decoded.DestChainID, "Intent %s completed via %s dispatch: %s",
		op.Nonce, strategy, hash.Hex())
	return hash, nil
}

// execute builds the ordered call list, picks the dispatch strategy and runs
// the single resulting transaction.
func (c *Compiler) execute(ctx context.Context, op *models.IntentOp, decoded *Decoded) (common.Hash, string, error) {
	service, exists := c.services[decoded.DestChainID]
	if !exists {
		return common.Hash{}, strategyNone, fmt.Errorf("%w: %d", ErrChainNotFound, decoded.DestChainID)
	}

	if cb, ok := c.breakers[decoded.DestChainID]; ok && cb.IsOpen() {
		return common.Hash{}, strategyNone, fmt.Errorf("circuit breaker open for chain %d", decoded.DestChainID)
	}

	// Setup calls run first so a not-yet-deployed account exists before any
	// transfer touches it.
	calls := append([]chainclient.Call{}, decoded.SetupOps...)

	// One relayer-funded payout per non-native token entry.
	for _, transfer := range decoded.Transfers {
		call, err := service.ERC20TransferFrom(transfer.Token, service.RelayerAddress(), decoded.Recipient, transfer.Amount)
		if err != nil {
			return common.Hash{}, strategyNone, err
		}
		calls = append(calls, call)
	}

	hasOps := decoded.Ops != nil && len(decoded.Ops.Calls) > 0
	if hasOps {
		if IsPlaceholderSignature(op.DestinationSignature) {
			return common.Hash{}, strategyNone, ErrDestinationSignatureRequired
		}

		signature, err := hexutil.Decode(op.DestinationSignature)
		if err != nil {
			return common.Hash{}, strategyNone, fmt.Errorf("invalid destination signature: %v", err)
		}

		payload, err := EncodeExecutorPayload(decoded.Ops.ExecType, decoded.Ops.SigMode, decoded.Ops.Calls)
		if err != nil {
			return common.Hash{}, strategyNone, err
		}

		nonce, ok := new(big.Int).SetString(op.Nonce, 10)
		if !ok {
			return common.Hash{}, strategyNone, fmt.Errorf("invalid intent nonce: %s", op.Nonce)
		}

		execCall, err := service.ExecutorCall(common.HexToAddress(op.Sponsor), nonce, payload, signature)
		if err != nil {
			return common.Hash{}, strategyNone, err
		}
		calls = append(calls, execCall)
	}

	native := decoded.NativeValue
	if native == nil {
		native = big.NewInt(0)
	}

	dispatch, strategy, err := c.selectDispatch(service, decoded, calls, native, hasOps)
	if err != nil {
		return common.Hash{}, strategyNone, err
	}

	chainLabel := strconv.FormatInt(decoded.DestChainID, 10)
	metrics.ExecutionBatchSize.WithLabelValues(chainLabel, strategy).Observe(float64(len(calls)))

	if strategy == strategyNone {
		// Nothing to send: the fixed all-zero hash stands in for a
		// transaction that never happened.
		return common.Hash{}, strategy, nil
	}

	c.logger.DebugWithChain(decoded.DestChainID, "Dispatching intent %s: %d calls via %s (value: %s)",
		op.Nonce, len(calls), strategy, native.String())

	hash, err := service.Execute(ctx, dispatch)
	if err != nil {
		return common.Hash{}, strategy, fmt.Errorf("execution failed on chain %d: %v", decoded.DestChainID, err)
	}
	return hash, strategy, nil
}

// selectDispatch reduces the ordered call list to one transaction. Legacy
// intents (no destination ops) go direct for a single call and through
// multicall for several; anything carrying destination ops always routes
// through the router batch so the batch stays atomic around the executor
// call.
func (c *Compiler) selectDispatch(service ExecutionService, decoded *Decoded, calls []chainclient.Call, native *big.Int, hasOps bool) (chainclient.Call, string, error) {
	if hasOps {
		dispatch, err := service.RouterBatchCall(calls)
		if err != nil {
			return chainclient.Call{}, strategyNone, err
		}
		dispatch.Value = native
		return dispatch, strategyRouter, nil
	}

	switch len(calls) {
	case 0:
		if native.Sign() == 0 {
			return chainclient.Call{}, strategyNone, nil
		}
		// Native-only payout: a plain value transfer to the recipient.
		return chainclient.Call{
			Target: decoded.Recipient,
			Value:  native,
			Data:   nil,
		}, strategyNative, nil
	case 1:
		dispatch := calls[0]
		dispatch.Value = native
		return dispatch, strategyDirect, nil
	default:
		dispatch, err := service.Multicall(calls)
		if err != nil {
			return chainclient.Call{}, strategyNone, err
		}
		dispatch.Value = native
		return dispatch, strategyMulticall, nil
	}
}

// finish writes the terminal record for an intent.
func (c *Compiler) finish(nonce string, decoded *Decoded, status string, hash common.Hash) {
	c.store.Put(nonce, &models.IntentRecord{
		ID:                  nonce,
		Status:              status,
		Recipient:           decoded.Recipient.Hex(),
		DestinationChainID:  decoded.DestChainID,
		FillTimestamp:       time.Now().UTC(),
		FillTransactionHash: hash.Hex(),
		Claims:              []models.Claim{},
	})
}
