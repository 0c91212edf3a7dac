package models

import "time"

// Intent record statuses. PENDING transitions to COMPLETED or FAILED and
// nothing further.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// IntentRecord is the lifecycle record of a submitted intent, keyed by nonce.
type IntentRecord struct {
	ID                  string    `json:"id"`
	Status              string    `json:"status"`
	Recipient           string    `json:"recipient"`
	DestinationChainID  int64     `json:"destinationChainId"`
	FillTimestamp       time.Time `json:"fillTimestamp"`
	FillTransactionHash string    `json:"fillTransactionHash"`
	Claims              []Claim   `json:"claims"`
}

// Claim would describe a settlement claim against the record. The mock
// orchestrator never produces any; the list is kept so the wire shape matches
// what clients expect.
type Claim struct {
	ChainID int64  `json:"chainId"`
	TxHash  string `json:"txHash"`
}

// SubmitResponse is the body returned by POST /intent-operations. The status
// is always the literal PENDING even though execution is synchronous.
type SubmitResponse struct {
	Result SubmitResult `json:"result"`
}

// SubmitResult identifies the accepted intent.
type SubmitResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
