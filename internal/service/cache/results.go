package cache

import (
	"encoding/json"
	"time"

	"StockScout/internal/domain/models"
)

const resultKeyPrefix = "ai:classification:"

// DefaultResultTTL bounds how long an AI classification stays valid.
const DefaultResultTTL = 10 * time.Minute

// ResultCache stores classification results behind any BytesCache.
// Lookups are best-effort: broken or expired entries read as misses.
type ResultCache struct {
	store BytesCache
	ttl   time.Duration
}

func NewResultCache(store BytesCache, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &ResultCache{store: store, ttl: ttl}
}

func (c *ResultCache) Get(code string) (*models.ClassificationResult, bool) {
	b, ok, err := c.store.GetBytes(resultKeyPrefix + code)
	if err != nil || !ok {
		return nil, false
	}
	var res models.ClassificationResult
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, false
	}
	return &res, true
}

func (c *ResultCache) Set(code string, res *models.ClassificationResult) {
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	_ = c.store.SetBytes(resultKeyPrefix+code, b, c.ttl)
}
