package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"PsiSentinel/internal/collector"
	"PsiSentinel/internal/metrics"
	"PsiSentinel/internal/model"
)

const opTimeout = 5 * time.Second

// Config configures the Redis-backed fetch cache.
type Config struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
	TTL      time.Duration
}

// CachedFetcher decorates a Fetcher with a Redis cache so repeated scans
// within the TTL skip the upstream data source. Redis failures degrade
// to pass-through.
type CachedFetcher struct {
	inner   collector.Fetcher
	client  *goredis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

// New creates a CachedFetcher and pings the Redis server. The metrics
// argument may be nil.
func New(inner collector.Fetcher, cfg Config, m *metrics.Metrics) (*CachedFetcher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	log.Printf("[INFO] bar cache connected to %s (ttl %v)", cfg.Addr, ttl)
	return &CachedFetcher{inner: inner, client: client, ttl: ttl, metrics: m}, nil
}

func (c *CachedFetcher) Name() string { return c.inner.Name() + "+cache" }

// Close releases the Redis connection.
func (c *CachedFetcher) Close() error { return c.client.Close() }

func barKey(interval, symbol string, end time.Time) string {
	day := "latest"
	if !end.IsZero() {
		day = end.Format("2006-01-02")
	}
	return fmt.Sprintf("bars:%s:%s:%s", interval, symbol, day)
}

func (c *CachedFetcher) FetchDailyBars(symbol string, end time.Time) ([]model.OHLCV, error) {
	return c.fetchBars(barKey("1d", symbol, end), func() ([]model.OHLCV, error) {
		return c.inner.FetchDailyBars(symbol, end)
	})
}

func (c *CachedFetcher) FetchWeeklyBars(symbol string, end time.Time) ([]model.OHLCV, error) {
	return c.fetchBars(barKey("1wk", symbol, end), func() ([]model.OHLCV, error) {
		return c.inner.FetchWeeklyBars(symbol, end)
	})
}

func (c *CachedFetcher) FetchYearBars(symbol string, end time.Time) ([]model.OHLCV, error) {
	return c.fetchBars(barKey("1y", symbol, end), func() ([]model.OHLCV, error) {
		return c.inner.FetchYearBars(symbol, end)
	})
}

func (c *CachedFetcher) fetchBars(key string, fetch func() ([]model.OHLCV, error)) ([]model.OHLCV, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var bars []model.OHLCV
		if err := json.Unmarshal(data, &bars); err == nil {
			c.hit()
			return bars, nil
		}
		log.Printf("[WARN] corrupt cache entry %s, refetching", key)
	} else if err != goredis.Nil {
		log.Printf("[WARN] cache read %s: %v", key, err)
	}
	c.miss()

	bars, err := fetch()
	if err != nil {
		return nil, err
	}
	c.store(key, bars)
	return bars, nil
}

func (c *CachedFetcher) FetchCompanyInfo(symbol string) (*model.CompanyInfo, error) {
	key := "info:" + symbol
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var info model.CompanyInfo
		if err := json.Unmarshal(data, &info); err == nil {
			c.hit()
			return &info, nil
		}
	} else if err != goredis.Nil {
		log.Printf("[WARN] cache read %s: %v", key, err)
	}
	c.miss()

	info, err := c.inner.FetchCompanyInfo(symbol)
	if err != nil {
		return nil, err
	}
	c.store(key, info)
	return info, nil
}

func (c *CachedFetcher) store(key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[WARN] cache marshal %s: %v", key, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("[WARN] cache write %s: %v", key, err)
	}
}

func (c *CachedFetcher) hit() {
	if c.metrics != nil {
		c.metrics.CacheHits.Inc()
	}
}

func (c *CachedFetcher) miss() {
	if c.metrics != nil {
		c.metrics.CacheMisses.Inc()
	}
}
