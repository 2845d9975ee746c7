package data

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/logger"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/types"
)

// MemoryCache implements DataCache using in-memory storage
type MemoryCache struct {
	cache map[string][]types.OHLCV
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string][]types.OHLCV),
	}
}

// Get returns a copy of the cached bars
func (c *MemoryCache) Get(key string) ([]types.OHLCV, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	data, exists := c.cache[key]
	if !exists {
		return nil, false
	}
	result := make([]types.OHLCV, len(data))
	copy(result, data)
	return result, true
}

// Set stores a copy of data
func (c *MemoryCache) Set(key string, data []types.OHLCV) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached := make([]types.OHLCV, len(data))
	copy(cached, data)
	c.cache[key] = cached
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string][]types.OHLCV)
}

// Size returns the number of cached entries
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CachedProvider wraps another PriceSource so each symbol is fetched once
type CachedProvider struct {
	provider PriceSource
	cache    DataCache
	log      logrus.FieldLogger
}

// NewCachedProvider creates a new cached data provider
func NewCachedProvider(provider PriceSource) *CachedProvider {
	return NewCachedProviderWithCache(provider, NewMemoryCache())
}

// NewCachedProviderWithCache creates a new cached data provider with custom cache
func NewCachedProviderWithCache(provider PriceSource, cache DataCache) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
		log:      logger.Component(logger.Nop(), component),
	}
}

// WithLogger sets the logger
func (p *CachedProvider) WithLogger(l logrus.FieldLogger) *CachedProvider {
	p.log = logger.Component(l, component)
	return p
}

// Name returns the name of the underlying provider
func (p *CachedProvider) Name() string {
	return p.provider.Name()
}

// LoadMonthly serves from cache, loading through the wrapped source on a miss.
// Errors are not cached.
func (p *CachedProvider) LoadMonthly(ctx context.Context, symbol string) ([]types.OHLCV, error) {
	key := p.provider.Name() + ":" + symbol

	if cached, ok := p.cache.Get(key); ok {
		p.log.WithField("key", key).Debug("price cache hit")
		return cached, nil
	}

	p.log.WithFields(logrus.Fields{"source": p.provider.Name(), "symbol": symbol}).Info("🔄 loading price history")
	data, err := p.provider.LoadMonthly(ctx, symbol)
	if err != nil {
		p.log.WithError(err).WithField("symbol", symbol).Error("❌ failed to load price history")
		return nil, err
	}

	p.cache.Set(key, data)
	p.log.WithFields(logrus.Fields{"symbol": symbol, "bars": len(data)}).Info("✅ loaded and cached price history")
	return data, nil
}

// ClearCache clears all cached data
func (p *CachedProvider) ClearCache() {
	p.cache.Clear()
}

// GetCacheSize returns the number of cached entries
func (p *CachedProvider) GetCacheSize() int {
	return p.cache.Size()
}
