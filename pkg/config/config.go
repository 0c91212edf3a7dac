package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/intenthub/orchestrator/pkg/logger"
	"github.com/joho/godotenv"
)

// Config holds the configuration for the orchestrator service
type Config struct {
	HTTPPort       string
	PrivateKey     string
	MetricsAPIKey  string
	Chains         map[int64]*ChainConfig
	ChainOrder     []int64
	GasMultiplier  float64
	CircuitBreaker CircuitBreakerConfig
	LoggerConfig   LoggerConfig
}

// CircuitBreakerConfig holds circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled        bool
	Threshold      int
	WindowDuration time.Duration
	ResetTimeout   time.Duration
}

// LoggerConfig holds the configuration for logging
type LoggerConfig struct {
	Level    logger.Level
	Coloring bool
}

// ChainConfig holds the configuration for a single forked test chain
type ChainConfig struct {
	ChainID          int64             `json:"chainId"`
	RPCURL           string            `json:"rpcUrl"`
	RouterAddress    string            `json:"routerAddress"`
	ExecutorAddress  string            `json:"executorAddress"`
	MulticallAddress string            `json:"multicallAddress"`
	Tokens           []TokenConfig     `json:"tokens"`
	Funding          map[string]string `json:"funding,omitempty"`
}

// TokenConfig describes one ERC-20 supported on a chain
type TokenConfig struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
}

// LoadConfig loads the configuration from environment variables and the
// optional JSON chains file
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	httpPort := GetEnvHTTPPort()

	gasMultiplier, err := GetEnvGasMultiplier()
	if err != nil {
		return nil, err
	}

	cbEnabled, err := GetEnvCircuitBreakerEnabled()
	if err != nil {
		return nil, err
	}

	cbThreshold, err := GetEnvCircuitBreakerThreshold()
	if err != nil {
		return nil, err
	}

	cbWindow, err := GetEnvCircuitBreakerWindow()
	if err != nil {
		return nil, err
	}

	cbReset, err := GetEnvCircuitBreakerReset()
	if err != nil {
		return nil, err
	}

	logLevel, err := GetEnvLogLevel()
	if err != nil {
		return nil, err
	}

	logColoring, err := GetEnvLogColoring()
	if err != nil {
		return nil, err
	}

	// Chain configurations come from the JSON file when configured,
	// otherwise from CHAIN_IDS plus per-chain environment variables
	chainList, err := loadChainConfigs()
	if err != nil {
		return nil, err
	}

	chains := make(map[int64]*ChainConfig)
	order := make([]int64, 0, len(chainList))
	for i := range chainList {
		cc := chainList[i]
		chains[cc.ChainID] = cc
		order = append(order, cc.ChainID)
	}

	cfg := &Config{
		HTTPPort:      httpPort,
		PrivateKey:    os.Getenv("PRIVATE_KEY"),
		MetricsAPIKey: os.Getenv("METRICS_API_KEY"),
		Chains:        chains,
		ChainOrder:    order,
		GasMultiplier: gasMultiplier,
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:        cbEnabled,
			Threshold:      cbThreshold,
			WindowDuration: cbWindow,
			ResetTimeout:   cbReset,
		},
		LoggerConfig: LoggerConfig{
			Level:    logLevel,
			Coloring: logColoring,
		},
	}

	// Validate required environment variables
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.PrivateKey == "" {
		return fmt.Errorf("PRIVATE_KEY environment variable is required")
	}
	if len(cfg.Chains) == 0 {
		return fmt.Errorf("at least one chain configuration is required")
	}
	for chainID, chainConfig := range cfg.Chains {
		if chainConfig.RPCURL == "" {
			return fmt.Errorf("RPC URL for chain %d is required", chainID)
		}
		if chainConfig.RouterAddress == "" {
			return fmt.Errorf("router address for chain %d is required", chainID)
		}
	}
	return nil
}

// Token returns the token config for a symbol, if the chain supports it
func (c *ChainConfig) Token(symbol string) (TokenConfig, bool) {
	for _, t := range c.Tokens {
		if t.Symbol == symbol {
			return t, true
		}
	}
	return TokenConfig{}, false
}
