package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// loadChainConfigs resolves the per-chain configuration. A JSON file named by
// CHAINS_CONFIG_FILE takes precedence; otherwise chains are read from
// CHAIN_IDS plus per-chain environment variables.
func loadChainConfigs() ([]*ChainConfig, error) {
	if path := os.Getenv("CHAINS_CONFIG_FILE"); path != "" {
		return loadChainConfigFile(path)
	}
	return loadChainConfigEnv()
}

// loadChainConfigFile reads a JSON array of chain configurations. The same
// file feeds the fork bootstrapper, so it may carry funding amounts and
// bytecode overrides the orchestrator itself ignores.
func loadChainConfigFile(path string) ([]*ChainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chains config file %s: %v", path, err)
	}

	var chains []*ChainConfig
	if err := json.Unmarshal(data, &chains); err != nil {
		return nil, fmt.Errorf("failed to parse chains config file %s: %v", path, err)
	}
	if len(chains) == 0 {
		return nil, fmt.Errorf("chains config file %s contains no chains", path)
	}
	return chains, nil
}

// loadChainConfigEnv builds chain configurations from environment variables:
//
//	CHAIN_IDS=31337,31338
//	CHAIN_31337_RPC_URL=http://localhost:8545
//	CHAIN_31337_ROUTER_ADDRESS=0x...
//	CHAIN_31337_EXECUTOR_ADDRESS=0x...
//	CHAIN_31337_MULTICALL_ADDRESS=0x...
//	CHAIN_31337_TOKENS=USDC:0x...:6,WETH:0x...:18
func loadChainConfigEnv() ([]*ChainConfig, error) {
	idsVal := os.Getenv("CHAIN_IDS")
	if idsVal == "" {
		return nil, fmt.Errorf("CHAIN_IDS environment variable is required when CHAINS_CONFIG_FILE is not set")
	}

	var chains []*ChainConfig
	for _, idStr := range strings.Split(idsVal, ",") {
		idStr = strings.TrimSpace(idStr)
		if idStr == "" {
			continue
		}
		chainID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain ID in CHAIN_IDS: %s", idStr)
		}

		tokens, err := parseTokenList(os.Getenv(fmt.Sprintf("CHAIN_%d_TOKENS", chainID)))
		if err != nil {
			return nil, fmt.Errorf("invalid token list for chain %d: %v", chainID, err)
		}

		chains = append(chains, &ChainConfig{
			ChainID:          chainID,
			RPCURL:           os.Getenv(fmt.Sprintf("CHAIN_%d_RPC_URL", chainID)),
			RouterAddress:    os.Getenv(fmt.Sprintf("CHAIN_%d_ROUTER_ADDRESS", chainID)),
			ExecutorAddress:  os.Getenv(fmt.Sprintf("CHAIN_%d_EXECUTOR_ADDRESS", chainID)),
			MulticallAddress: os.Getenv(fmt.Sprintf("CHAIN_%d_MULTICALL_ADDRESS", chainID)),
			Tokens:           tokens,
		})
	}
	return chains, nil
}

// parseTokenList parses SYMBOL:ADDRESS:DECIMALS entries separated by commas.
func parseTokenList(val string) ([]TokenConfig, error) {
	if val == "" {
		return nil, nil
	}

	var tokens []TokenConfig
	for _, entry := range strings.Split(val, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("expected SYMBOL:ADDRESS:DECIMALS, got %q", entry)
		}
		decimals, err := strconv.ParseUint(parts[2], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid decimals in %q: %v", entry, err)
		}
		tokens = append(tokens, TokenConfig{
			Symbol:   strings.ToUpper(parts[0]),
			Address:  parts[1],
			Decimals: uint8(decimals),
		})
	}
	return tokens, nil
}
