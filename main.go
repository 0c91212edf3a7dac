package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/intenthub/orchestrator/pkg/chainclient"
	"github.com/intenthub/orchestrator/pkg/circuitbreaker"
	"github.com/intenthub/orchestrator/pkg/config"
	"github.com/intenthub/orchestrator/pkg/intents"
	"github.com/intenthub/orchestrator/pkg/logger"
	"github.com/intenthub/orchestrator/pkg/server"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	stdLogger := logger.NewStdLogger(cfg.LoggerConfig.Coloring, cfg.LoggerConfig.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect a client and a circuit breaker per configured chain
	services := make(map[int64]intents.ExecutionService)
	chains := make(map[int64]server.ChainService)
	breakers := make(map[int64]*circuitbreaker.CircuitBreaker)
	for chainID, chainCfg := range cfg.Chains {
		client, err := chainclient.New(ctx, chainCfg, cfg.PrivateKey, cfg.GasMultiplier, stdLogger)
		if err != nil {
			log.Fatalf("Failed to connect to chain %d: %v", chainID, err)
		}
		services[chainID] = client
		chains[chainID] = client
		breakers[chainID] = circuitbreaker.NewCircuitBreaker(
			cfg.CircuitBreaker.Enabled,
			cfg.CircuitBreaker.Threshold,
			cfg.CircuitBreaker.WindowDuration,
			cfg.CircuitBreaker.ResetTimeout,
			stdLogger,
		)
		stdLogger.InfoWithChain(chainID, "Connected to %s (relayer %s)", chainCfg.RPCURL, client.RelayerAddress().Hex())
	}

	store := intents.NewStore()
	compiler := intents.NewCompiler(services, store, breakers, stdLogger)
	routes := intents.NewRouteBuilder(cfg)

	srv := server.NewServer(cfg, routes, compiler, store, chains, breakers, stdLogger)

	// Shut down gracefully on SIGINT/SIGTERM
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		stdLogger.Notice("Received termination signal, shutting down gracefully...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			stdLogger.Error("Server shutdown failed: %v", err)
		}
		cancel()
	}()

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
