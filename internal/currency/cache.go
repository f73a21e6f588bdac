package currency

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// freshnessWindow is how long a fetched rate table is served without
// refreshing from the source.
const freshnessWindow = 24 * time.Hour

// Cache is the process-wide exchange-rate cache. Rates are fetched lazily on
// first need and refreshed once the freshness window has elapsed. Refreshes
// are idempotent, so a last-writer-wins race between concurrent refreshes is
// acceptable; the table is replaced wholesale and never mutated in place.
type Cache struct {
	mu        sync.RWMutex
	source    Source
	rates     Rates
	fetchedAt time.Time
	logger    zerolog.Logger

	now func() time.Time
}

// NewCache creates a new exchange-rate cache backed by the given source.
func NewCache(source Source, logger zerolog.Logger) *Cache {
	return &Cache{
		source: source,
		logger: logger.With().Str("component", "rate-cache").Logger(),
		now:    time.Now,
	}
}

// Rate returns the conversion rate from USD to the given currency. USD is
// always the identity. An unknown currency, or a source that cannot be
// reached before any rates were cached, fails soft to the USD identity rate.
func (c *Cache) Rate(ctx context.Context, code string) float64 {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == "usd" {
		return 1
	}

	rates := c.current(ctx)
	if rate, ok := rates[code]; ok && rate > 0 {
		return rate
	}

	c.logger.Debug().Str("currency", code).Msg("no rate available, falling back to USD identity")
	return 1
}

// current returns the cached rate table, refreshing it first when stale or
// absent. A failed refresh keeps serving the previous table.
func (c *Cache) current(ctx context.Context) Rates {
	c.mu.RLock()
	rates, fetchedAt := c.rates, c.fetchedAt
	c.mu.RUnlock()

	if rates != nil && c.now().Sub(fetchedAt) < freshnessWindow {
		return rates
	}

	fresh, err := c.source.FetchRates(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to refresh exchange rates")
		return rates
	}

	c.mu.Lock()
	c.rates = fresh
	c.fetchedAt = c.now()
	c.mu.Unlock()

	c.logger.Info().Int("currencies", len(fresh)).Msg("exchange rate cache refreshed")

	return fresh
}
