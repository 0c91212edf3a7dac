package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/intenthub/orchestrator/pkg/intents"
	"github.com/intenthub/orchestrator/pkg/metrics"
	"github.com/intenthub/orchestrator/pkg/models"
)

// writeJSON serializes a response body with the given status code
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError serializes an error body with the given status code
func writeError(w http.ResponseWriter, status int, format string, args ...interface{}) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf(format, args...)})
}

// handleRoute fabricates an intent operation for a route request
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req models.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid route request: %v", err)
		return
	}

	resp, err := s.routes.Build(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	s.logger.Info("Created route %s for %s (destination chain %d)",
		resp.IntentOp.Nonce, req.Account.Address, req.DestinationChainID)
	writeJSON(w, http.StatusCreated, resp)
}

// handleSubmit executes a signed intent operation synchronously. The response
// status is the literal PENDING even though the on-chain work already
// finished: clients poll the status endpoint for the terminal state.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid submission: %v", err)
		return
	}
	if req.SignedIntentOp == nil {
		writeError(w, http.StatusBadRequest, "signedIntentOp is required")
		return
	}
	if req.SignedIntentOp.Nonce == "" {
		writeError(w, http.StatusBadRequest, "signedIntentOp.nonce is required")
		return
	}

	if _, err := s.executor.Execute(r.Context(), req.SignedIntentOp); err != nil {
		s.logger.Error("Execution failed for intent %s: %v", req.SignedIntentOp.Nonce, err)
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}

	writeJSON(w, http.StatusCreated, models.SubmitResponse{
		Result: models.SubmitResult{
			ID:     req.SignedIntentOp.Nonce,
			Status: models.StatusPending,
		},
	})
}

// handleStatus returns the stored record for an intent id
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := new(big.Int).SetString(id, 10); !ok {
		writeError(w, http.StatusBadRequest, "invalid intent id: %s", id)
		return
	}

	record, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, intents.ErrNotFound) {
			writeError(w, http.StatusNotFound, "intent %s not found", id)
			return
		}
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handlePortfolio aggregates balances for a user across all configured chains
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if !common.IsHexAddress(address) {
		writeError(w, http.StatusBadRequest, "invalid address: %s", address)
		return
	}

	resp, err := s.buildPortfolio(r.Context(), common.HexToAddress(address))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHealth is the liveness probe
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady reports whether all chain services are usable
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	for chainID, chain := range s.chains {
		if _, err := chain.LatestBlockNumber(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = fmt.Fprintf(w, "Chain %d not reachable", chainID)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Ready"))
}

// handleChainStatus reports per-chain diagnostics: block height, circuit
// state and relayer token balances
func (s *Server) handleChainStatus(w http.ResponseWriter, r *http.Request) {
	status := make(map[string]interface{})

	for chainID, chain := range s.chains {
		circuitStatus := "closed"
		if cb, ok := s.breakers[chainID]; ok && cb.IsOpen() {
			circuitStatus = "open"
		}

		chainStatus := map[string]interface{}{
			"relayer": chain.RelayerAddress().Hex(),
			"circuit": circuitStatus,
		}

		if blockNumber, err := chain.LatestBlockNumber(r.Context()); err == nil {
			chainStatus["latest_block"] = blockNumber
			chainStatus["connected"] = true
		} else {
			chainStatus["connected"] = false
		}

		symbols := make([]string, 0, len(chain.Tokens()))
		for _, token := range chain.Tokens() {
			symbols = append(symbols, token.Symbol)
		}
		if balances, err := chain.BalanceOf(r.Context(), chain.RelayerAddress(), symbols); err == nil {
			tokenBalances := make(map[string]string)
			for _, balance := range balances {
				tokenBalances[balance.Symbol] = balance.Amount.String()
				amount, _ := new(big.Float).SetInt(balance.Amount).Float64()
				metrics.TokenBalance.WithLabelValues(strconv.FormatInt(chainID, 10), balance.Symbol).Set(amount)
			}
			if len(tokenBalances) > 0 {
				chainStatus["token_balances"] = tokenBalances
			}
		}

		status[fmt.Sprintf("chain_%d", chainID)] = chainStatus
	}

	writeJSON(w, http.StatusOK, status)
}

// handleCircuitReset manually resets a chain's circuit breaker
func (s *Server) handleCircuitReset(w http.ResponseWriter, r *http.Request) {
	chainIDStr := r.URL.Query().Get("chain")
	if chainIDStr == "" {
		writeError(w, http.StatusBadRequest, "missing chain parameter")
		return
	}

	chainID, err := strconv.ParseInt(chainIDStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chain ID: %s", chainIDStr)
		return
	}

	cb, ok := s.breakers[chainID]
	if !ok {
		writeError(w, http.StatusNotFound, "no circuit breaker for chain %d", chainID)
		return
	}

	cb.Reset()
	s.logger.NoticeWithChain(chainID, "Circuit breaker manually reset")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "Circuit breaker for chain %d reset", chainID)
}

// handleNotImplemented answers every unmatched route
func (s *Server) handleNotImplemented(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Not implemented!"})
}
