package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"stockboard/internal/domain"

	"github.com/redis/go-redis/v9"
)

// MarketData is the full market-data surface the rest of the service
// consumes. *YahooProvider satisfies it.
type MarketData interface {
	Quote(ctx context.Context, symbol string) *domain.Quote
	History(ctx context.Context, symbol string, days int) ([]domain.PriceBar, error)
	Intraday(ctx context.Context, symbol string, period domain.HistoryPeriod) ([]domain.PriceBar, error)
}

// CachedProvider is a read-through Redis layer over another MarketData.
// With a nil client it degrades to a transparent pass-through, so callers
// never have to care whether Redis is configured. Quotes are deliberately
// not cached; only bar series are.
type CachedProvider struct {
	inner MarketData
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedProvider(inner MarketData, rdb *redis.Client, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProvider{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *CachedProvider) Quote(ctx context.Context, symbol string) *domain.Quote {
	return c.inner.Quote(ctx, symbol)
}

func (c *CachedProvider) History(ctx context.Context, symbol string, days int) ([]domain.PriceBar, error) {
	key := fmt.Sprintf("stockboard:history:%s:%d", symbol, days)
	return c.through(ctx, key, func() ([]domain.PriceBar, error) {
		return c.inner.History(ctx, symbol, days)
	})
}

func (c *CachedProvider) Intraday(ctx context.Context, symbol string, period domain.HistoryPeriod) ([]domain.PriceBar, error) {
	key := fmt.Sprintf("stockboard:intraday:%s:%s", symbol, period)
	return c.through(ctx, key, func() ([]domain.PriceBar, error) {
		return c.inner.Intraday(ctx, symbol, period)
	})
}

func (c *CachedProvider) through(ctx context.Context, key string, fetch func() ([]domain.PriceBar, error)) ([]domain.PriceBar, error) {
	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, key).Result()
		if err == nil {
			var bars []domain.PriceBar
			if err := json.Unmarshal([]byte(raw), &bars); err == nil {
				return bars, nil
			}
			// Poisoned entry; drop it and refetch.
			c.rdb.Del(ctx, key)
		} else if err != redis.Nil {
			log.Printf("Warning: redis read failed for %s: %v", key, err)
		}
	}

	bars, err := fetch()
	if err != nil {
		return nil, err
	}

	if c.rdb != nil && len(bars) > 0 {
		if raw, err := json.Marshal(bars); err == nil {
			if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				log.Printf("Warning: redis write failed for %s: %v", key, err)
			}
		}
	}
	return bars, nil
}
