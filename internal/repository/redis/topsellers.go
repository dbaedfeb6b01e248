package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/pkg/breaker"
)

// TopSellersKey is the fixed key of the snapshot.
const TopSellersKey = "top_sellers"

// TopSellersCache implements repository.TopSellersCache using Redis. Every
// call goes through a circuit breaker so an unreachable Redis fails fast.
type TopSellersCache struct {
	client  redis.Cmdable
	ttl     time.Duration
	breaker *breaker.Breaker[[]byte]
}

// NewTopSellersCache creates a new Redis-backed top-sellers cache.
func NewTopSellersCache(client redis.Cmdable, ttl time.Duration, cb *breaker.Breaker[[]byte]) *TopSellersCache {
	return &TopSellersCache{
		client:  client,
		ttl:     ttl,
		breaker: cb,
	}
}

// Get returns the stored snapshot, or nil when the key is absent or expired.
func (c *TopSellersCache) Get(ctx context.Context) ([]domain.SellerSummary, error) {
	data, err := c.breaker.Execute(func() ([]byte, error) {
		b, err := c.client.Get(ctx, TopSellersKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("redis get top sellers: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var sellers []domain.SellerSummary
	if err := json.Unmarshal(data, &sellers); err != nil {
		return nil, fmt.Errorf("unmarshal top sellers: %w", err)
	}
	return sellers, nil
}

// Set overwrites the snapshot with the configured TTL.
func (c *TopSellersCache) Set(ctx context.Context, sellers []domain.SellerSummary) error {
	if sellers == nil {
		sellers = []domain.SellerSummary{}
	}
	data, err := json.Marshal(sellers)
	if err != nil {
		return fmt.Errorf("marshal top sellers: %w", err)
	}

	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, TopSellersKey, data, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set top sellers: %w", err)
	}
	return nil
}

// Clear removes the snapshot.
func (c *TopSellersCache) Clear(ctx context.Context) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Del(ctx, TopSellersKey).Err()
	})
	if err != nil {
		return fmt.Errorf("redis del top sellers: %w", err)
	}
	return nil
}
