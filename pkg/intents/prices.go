package intents

import (
	"sync"
	"time"
)

// defaultPrices are the stub USD quotes baked into fabricated routes. The
// orchestrator never talks to a real price feed; these exist so signed
// metadata carries plausible values.
var defaultPrices = map[string]string{
	"USDC": "1.00",
	"USDT": "1.00",
	"DAI":  "1.00",
	"WETH": "3000.00",
	"WBTC": "60000.00",
}

// PriceCache manages cached token prices so repeated route requests reuse
// the same quote within the TTL.
type PriceCache struct {
	mu       sync.RWMutex
	cache    map[string]*cachedPrice
	cacheTTL time.Duration
}

// cachedPrice represents a cached token price with timestamp
type cachedPrice struct {
	price     string
	timestamp time.Time
}

// NewPriceCache creates a new token price cache
func NewPriceCache(cacheTTL time.Duration) *PriceCache {
	return &PriceCache{
		cache:    make(map[string]*cachedPrice),
		cacheTTL: cacheTTL,
	}
}

// Get retrieves a cached price if it's still valid
func (c *PriceCache) Get(symbol string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, exists := c.cache[symbol]
	if !exists {
		return "", false
	}
	if time.Since(cached.timestamp) > c.cacheTTL {
		return "", false
	}
	return cached.price, true
}

// Set stores a price in the cache with current timestamp
func (c *PriceCache) Set(symbol string, price string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[symbol] = &cachedPrice{
		price:     price,
		timestamp: time.Now(),
	}
}

// Clear removes all cached entries
func (c *PriceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[string]*cachedPrice)
}

// Quote returns the price for a symbol, filling the cache from the stub
// table on a miss. Unknown symbols quote as zero.
func (c *PriceCache) Quote(symbol string) string {
	if price, ok := c.Get(symbol); ok {
		return price
	}
	price, ok := defaultPrices[symbol]
	if !ok {
		price = "0.00"
	}
	c.Set(symbol, price)
	return price
}
