package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
)

// Cache stores quoted output amounts for a short time so bursts of identical
// quote requests do not hammer the RPC endpoint.
type Cache interface {
	GetQuote(ctx context.Context, key string) (string, error)
	SetQuote(ctx context.Context, key string, amountOut string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// QuoteCacheKey generates a cache key for a quote along path with amountIn.
func QuoteCacheKey(path []common.Address, amountIn string) string {
	hops := make([]string, len(path))
	for i, hop := range path {
		hops[i] = hop.Hex()
	}
	return fmt.Sprintf("quote:%s:%s", strings.Join(hops, "-"), amountIn)
}

// RedisCache implements Cache using Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetQuote retrieves a cached quote; a miss returns "".
func (c *RedisCache) GetQuote(ctx context.Context, key string) (string, error) {
	amountOut, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // Cache miss
		}
		return "", err
	}
	return amountOut, nil
}

// SetQuote caches a quote with TTL
func (c *RedisCache) SetQuote(ctx context.Context, key string, amountOut string, ttl time.Duration) error {
	return c.client.Set(ctx, key, amountOut, ttl).Err()
}

// Delete removes a key from cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// InMemoryCache implements Cache using in-memory storage (for testing and
// running without Redis)
type InMemoryCache struct {
	mu     sync.Mutex
	quotes map[string]*cachedQuote
}

type cachedQuote struct {
	amountOut string
	expiresAt time.Time
}

// NewInMemoryCache creates a new in-memory cache
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		quotes: make(map[string]*cachedQuote),
	}
}

func (c *InMemoryCache) GetQuote(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.quotes[key]; ok {
		if time.Now().Before(cached.expiresAt) {
			return cached.amountOut, nil
		}
		delete(c.quotes, key)
	}
	return "", nil
}

func (c *InMemoryCache) SetQuote(ctx context.Context, key string, amountOut string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[key] = &cachedQuote{
		amountOut: amountOut,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.quotes, key)
	return nil
}
