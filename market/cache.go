package market

import (
	"context"
	"fmt"
	"sync"

	"quotebot/logger"
)

// Source fetches the full symbol -> Metadata map from the exchange.
type Source interface {
	FetchMetadata(ctx context.Context) (map[string]Metadata, error)
}

// Cache is a read-through metadata cache. Lookups hit the cache first and
// fall back to one refresh from the source; a symbol still absent after a
// refresh resolves to ErrNotFound. Entries are last-writer-wins.
type Cache struct {
	mu     sync.RWMutex
	source Source
	meta   map[string]Metadata
	log    *logger.Logger
}

func NewCache(source Source, log *logger.Logger) *Cache {
	return &Cache{
		source: source,
		meta:   make(map[string]Metadata),
		log:    log,
	}
}

func (c *Cache) Get(symbol string) (Metadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.meta[symbol]
	return m, ok
}

func (c *Cache) Put(symbol string, m Metadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta[symbol] = m
}

// Resolve returns the metadata for symbol, refreshing from the source on a
// cache miss.
func (c *Cache) Resolve(ctx context.Context, symbol string) (Metadata, error) {
	if m, ok := c.Get(symbol); ok {
		return m, nil
	}

	if err := c.Refresh(ctx); err != nil {
		return Metadata{}, fmt.Errorf("metadata refresh: %w", err)
	}

	if m, ok := c.Get(symbol); ok {
		return m, nil
	}
	return Metadata{}, fmt.Errorf("%w: %s", ErrNotFound, symbol)
}

// Refresh replaces the cached map wholesale with a fresh fetch.
func (c *Cache) Refresh(ctx context.Context) error {
	fetched, err := c.source.FetchMetadata(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.meta = fetched
	c.mu.Unlock()

	c.log.Info("metadata_refreshed", "symbols", len(fetched))
	return nil
}

// Known reports whether symbol currently resolves without a refresh.
func (c *Cache) Known(symbol string) bool {
	_, ok := c.Get(symbol)
	return ok
}
