package chainclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// nonceSerializer allocates relayer account nonces for one chain. The whole
// submission path runs under its lock, so two intents routed to the same
// chain can never collide on a nonce.
type nonceSerializer struct {
	mu       sync.Mutex
	current  uint64
	lastSync time.Time
}

// resyncInterval bounds how long the tracked nonce is trusted before it is
// re-read from the node.
const resyncInterval = 5 * time.Minute

func newNonceSerializer() *nonceSerializer {
	return &nonceSerializer{}
}

func (n *nonceSerializer) Lock()   { n.mu.Lock() }
func (n *nonceSerializer) Unlock() { n.mu.Unlock() }

// next returns the nonce to use for the next transaction. Callers must hold
// the lock.
func (n *nonceSerializer) next(ctx context.Context, client *ethclient.Client, address common.Address) (uint64, error) {
	if n.lastSync.IsZero() || time.Since(n.lastSync) > resyncInterval {
		pending, err := client.PendingNonceAt(ctx, address)
		if err != nil {
			return 0, fmt.Errorf("failed to get pending nonce: %v", err)
		}
		if pending > n.current {
			n.current = pending
		}
		n.lastSync = time.Now()
	}

	nonce := n.current
	n.current++
	return nonce, nil
}

// release hands a nonce back after a failed submission so the next
// transaction reuses it instead of leaving a gap. Callers must hold the lock.
func (n *nonceSerializer) release(nonce uint64) {
	if n.current == nonce+1 {
		n.current = nonce
	}
}
