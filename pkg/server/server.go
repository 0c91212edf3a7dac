// Package server exposes the orchestrator HTTP API: route fabrication,
// signed-intent submission, status lookup, portfolio aggregation and the
// operational endpoints (health, readiness, chain status, metrics).
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/intenthub/orchestrator/pkg/chainclient"
	"github.com/intenthub/orchestrator/pkg/circuitbreaker"
	"github.com/intenthub/orchestrator/pkg/config"
	"github.com/intenthub/orchestrator/pkg/intents"
	"github.com/intenthub/orchestrator/pkg/logger"
	"github.com/intenthub/orchestrator/pkg/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Executor runs a signed intent through the execution pipeline.
// *intents.Compiler implements it; handler tests substitute a mock.
type Executor interface {
	Execute(ctx context.Context, op *models.IntentOp) (common.Hash, error)
}

// ChainService is the per-chain surface the read-only endpoints need.
// *chainclient.Client implements it.
type ChainService interface {
	RelayerAddress() common.Address
	Tokens() []config.TokenConfig
	BalanceOf(ctx context.Context, owner common.Address, symbols []string) ([]chainclient.Balance, error)
	LatestBlockNumber(ctx context.Context) (uint64, error)
}

// Server is the orchestrator HTTP server
type Server struct {
	cfg        *config.Config
	routes     *intents.RouteBuilder
	executor   Executor
	store      *intents.Store
	chains     map[int64]ChainService
	breakers   map[int64]*circuitbreaker.CircuitBreaker
	logger     logger.Logger
	httpServer *http.Server
}

// NewServer wires the handlers onto a mux and returns the server
func NewServer(
	cfg *config.Config,
	routes *intents.RouteBuilder,
	executor Executor,
	store *intents.Store,
	chains map[int64]ChainService,
	breakers map[int64]*circuitbreaker.CircuitBreaker,
	log logger.Logger,
) *Server {
	if log == nil {
		log = &logger.EmptyLogger{}
	}

	s := &Server{
		cfg:      cfg,
		routes:   routes,
		executor: executor,
		store:    store,
		chains:   chains,
		breakers: breakers,
		logger:   log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /intents/route", s.handleRoute)
	mux.HandleFunc("POST /intent-operations", s.handleSubmit)
	mux.HandleFunc("GET /intent-operation/{id}", s.handleStatus)
	mux.HandleFunc("GET /accounts/{address}/portfolio", s.handlePortfolio)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /status", s.handleChainStatus)
	mux.HandleFunc("POST /circuit/reset", s.handleCircuitReset)
	mux.Handle("GET /metrics", s.metricsAuthMiddleware(promhttp.Handler()))

	// Everything unmatched reports not implemented, matching what clients of
	// the full settlement backend expect from the mock.
	mux.HandleFunc("/", s.handleNotImplemented)

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           s.requestLogMiddleware(requestIDMiddleware(mux)),
		ReadHeaderTimeout: 15 * time.Second,
	}
	return s
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Orchestrator API listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured handler chain for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
