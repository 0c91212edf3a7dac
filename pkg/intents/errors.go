package intents

import "errors"

var (
	// ErrNotFound is returned when no record exists for an intent id.
	ErrNotFound = errors.New("intent not found")

	// ErrChainNotFound is returned when an intent targets a chain with no
	// configured execution service.
	ErrChainNotFound = errors.New("chain configuration not found")

	// ErrDestinationSignatureRequired is returned when an intent carries
	// destination operations but only a placeholder signature.
	ErrDestinationSignatureRequired = errors.New("destination signature required")
)
