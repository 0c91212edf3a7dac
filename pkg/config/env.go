package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/intenthub/orchestrator/pkg/logger"
)

const (
	// DefaultHTTPPort defines the default port for the orchestrator API
	DefaultHTTPPort = "3000"

	// DefaultGasMultiplier defines the default gas price buffer applied
	// before submitting a transaction
	DefaultGasMultiplier = 1.1

	// DefaultCircuitBreakerEnabled defines whether the circuit breaker is enabled
	DefaultCircuitBreakerEnabled = true

	// DefaultCircuitBreakerThreshold defines the number of failures before the circuit breaker trips
	DefaultCircuitBreakerThreshold = 5

	// DefaultCircuitBreakerWindow defines the time window for the circuit breaker in minutes
	DefaultCircuitBreakerWindow = 5

	// DefaultCircuitBreakerReset defines the reset timeout for the circuit breaker in minutes
	DefaultCircuitBreakerReset = 15

	// DefaultLogLevel defines the default log level
	DefaultLogLevel = logger.InfoLevel
)

// GetEnvHTTPPort returns the API port
func GetEnvHTTPPort() string {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		return port
	}
	return DefaultHTTPPort
}

// GetEnvGasMultiplier returns the gas price multiplier
func GetEnvGasMultiplier() (float64, error) {
	val := os.Getenv("GAS_MULTIPLIER")
	if val == "" {
		return DefaultGasMultiplier, nil
	}
	multiplier, err := strconv.ParseFloat(val, 64)
	if err != nil || multiplier <= 0 {
		return 0, fmt.Errorf("invalid GAS_MULTIPLIER value: %s", val)
	}
	return multiplier, nil
}

// GetEnvCircuitBreakerEnabled returns whether the circuit breaker is enabled
func GetEnvCircuitBreakerEnabled() (bool, error) {
	val := os.Getenv("CIRCUIT_BREAKER_ENABLED")
	if val == "" {
		return DefaultCircuitBreakerEnabled, nil
	}
	enabled, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid CIRCUIT_BREAKER_ENABLED value: %s", val)
	}
	return enabled, nil
}

// GetEnvCircuitBreakerThreshold returns the circuit breaker failure threshold
func GetEnvCircuitBreakerThreshold() (int, error) {
	val := os.Getenv("CIRCUIT_BREAKER_THRESHOLD")
	if val == "" {
		return DefaultCircuitBreakerThreshold, nil
	}
	threshold, err := strconv.Atoi(val)
	if err != nil || threshold <= 0 {
		return 0, fmt.Errorf("invalid CIRCUIT_BREAKER_THRESHOLD value: %s", val)
	}
	return threshold, nil
}

// GetEnvCircuitBreakerWindow returns the circuit breaker failure window
func GetEnvCircuitBreakerWindow() (time.Duration, error) {
	val := os.Getenv("CIRCUIT_BREAKER_WINDOW_MINUTES")
	if val == "" {
		return DefaultCircuitBreakerWindow * time.Minute, nil
	}
	minutes, err := strconv.Atoi(val)
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("invalid CIRCUIT_BREAKER_WINDOW_MINUTES value: %s", val)
	}
	return time.Duration(minutes) * time.Minute, nil
}

// GetEnvCircuitBreakerReset returns the circuit breaker reset timeout
func GetEnvCircuitBreakerReset() (time.Duration, error) {
	val := os.Getenv("CIRCUIT_BREAKER_RESET_MINUTES")
	if val == "" {
		return DefaultCircuitBreakerReset * time.Minute, nil
	}
	minutes, err := strconv.Atoi(val)
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("invalid CIRCUIT_BREAKER_RESET_MINUTES value: %s", val)
	}
	return time.Duration(minutes) * time.Minute, nil
}

// GetEnvLogLevel returns the configured log level
func GetEnvLogLevel() (logger.Level, error) {
	val := os.Getenv("LOG_LEVEL")
	switch strings.ToLower(val) {
	case "":
		return DefaultLogLevel, nil
	case "debug":
		return logger.DebugLevel, nil
	case "info":
		return logger.InfoLevel, nil
	case "notice":
		return logger.NoticeLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL value: %s", val)
	}
}

// GetEnvLogColoring returns whether log coloring is enabled
func GetEnvLogColoring() (bool, error) {
	val := os.Getenv("LOG_COLORING")
	if val == "" {
		return true, nil
	}
	coloring, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid LOG_COLORING value: %s", val)
	}
	return coloring, nil
}
