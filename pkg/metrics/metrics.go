package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for monitoring
var (
	IntentsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orchestrator_intents_executed_total",
		Help: "The total number of executed intents by chain and outcome",
	}, []string{"chain_id", "status"})

	IntentExecutionTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orchestrator_intent_execution_seconds",
		Help:    "Time taken to compile and execute intents",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // Start at 100ms with 12 buckets doubling in size
	}, []string{"chain_id"})

	ExecutionBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orchestrator_execution_batch_size",
		Help:    "Number of calls in a compiled execution batch",
		Buckets: prometheus.LinearBuckets(0, 1, 12),
	}, []string{"chain_id", "strategy"})

	GasUsed = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orchestrator_gas_used",
		Help:    "Gas used for executed intent transactions",
		Buckets: prometheus.ExponentialBuckets(21000, 2, 10), // Start at 21000 with 10 buckets doubling in size
	}, []string{"chain_id"})

	GasPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "orchestrator_gas_price_gwei",
		Help: "Current gas price in gwei",
	}, []string{"chain_id"})

	RoutesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orchestrator_routes_created_total",
		Help: "The total number of fabricated intent routes by settlement layer",
	}, []string{"settlement_layer"})

	RecordsStored = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orchestrator_intent_records",
		Help: "The number of intent records held in the store",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orchestrator_http_requests_total",
		Help: "Total HTTP requests by path and status code",
	}, []string{"path", "status"})

	TokenBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "orchestrator_relayer_token_balance",
		Help: "Relayer token balance in base token units",
	}, []string{"chain_id", "symbol"})
)
