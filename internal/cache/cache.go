// Package cache keeps the exchange rates of a day close to the services that
// read them on every payment. Rates are immutable once stored, so entries only
// expire on TTL or when new rates for the same day are inserted.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"billing/internal/models"
)

// RateCache stores every rate recorded for a day under one key.
type RateCache interface {
	GetRates(ctx context.Context, date time.Time) ([]models.ExchangeRate, bool, error)
	SetRates(ctx context.Context, date time.Time, rates []models.ExchangeRate) error
	Invalidate(ctx context.Context, date time.Time) error
}

// RatesKey returns the cache key for a day's rates.
func RatesKey(date time.Time) string {
	return fmt.Sprintf("rates:%s", date.UTC().Format("2006-01-02"))
}

// RedisRateCache is a RateCache backed by Redis, values stored as JSON.
type RedisRateCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisRateCache wraps an existing client.
func NewRedisRateCache(client redis.UniversalClient, ttl time.Duration) *RedisRateCache {
	return &RedisRateCache{client: client, ttl: ttl}
}

// Connect dials Redis and checks it answers before handing the client out.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  time.Second,
		ReadTimeout:  400 * time.Millisecond,
		WriteTimeout: 400 * time.Millisecond,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// GetRates reports false on a miss; redis.Nil is not an error.
func (c *RedisRateCache) GetRates(ctx context.Context, date time.Time) ([]models.ExchangeRate, bool, error) {
	data, err := c.client.Get(ctx, RatesKey(date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached rates: %w", err)
	}

	var rates []models.ExchangeRate
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached rates: %w", err)
	}
	return rates, true, nil
}

func (c *RedisRateCache) SetRates(ctx context.Context, date time.Time, rates []models.ExchangeRate) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}
	return c.client.Set(ctx, RatesKey(date), data, c.ttl).Err()
}

func (c *RedisRateCache) Invalidate(ctx context.Context, date time.Time) error {
	return c.client.Del(ctx, RatesKey(date)).Err()
}

// Noop never holds anything. Used when no Redis address is configured.
type Noop struct{}

func (Noop) GetRates(context.Context, time.Time) ([]models.ExchangeRate, bool, error) {
	return nil, false, nil
}

func (Noop) SetRates(context.Context, time.Time, []models.ExchangeRate) error { return nil }

func (Noop) Invalidate(context.Context, time.Time) error { return nil }
