package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ===============================
// CACHE INTERFACE
// ===============================

// Cache defines the caching interface
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error

	Stats(ctx context.Context) (*Stats, error)
	Health(ctx context.Context) error
	Close() error
}

// Stats represents cache statistics
type Stats struct {
	Hits     int64         `json:"hits"`
	Misses   int64         `json:"misses"`
	Sets     int64         `json:"sets"`
	Deletes  int64         `json:"deletes"`
	Keys     int64         `json:"keys"`
	HitRatio float64       `json:"hit_ratio"`
	Uptime   time.Duration `json:"uptime"`
}

// Config holds cache configuration
type Config struct {
	Provider        string        // "memory", "redis"
	TTL             time.Duration // default TTL
	MaxKeys         int           // max keys in memory cache
	CleanupInterval time.Duration // cleanup interval for memory cache
	RedisURL        string
	KeyPrefix       string
}

// DefaultConfig returns a default cache configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:        "memory",
		TTL:             5 * time.Minute,
		MaxKeys:         10000,
		CleanupInterval: 5 * time.Minute,
		KeyPrefix:       "skofie",
	}
}

// New creates a cache for the configured provider.
func New(config *Config, logger *zap.Logger) (Cache, error) {
	switch config.Provider {
	case "redis":
		return NewRedisCache(config, logger)
	case "memory", "":
		return NewMemoryCache(config, logger), nil
	default:
		return nil, fmt.Errorf("unknown cache provider %q", config.Provider)
	}
}

// Marshal encodes a value for storage.
func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes a stored value.
func Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// ===============================
// MEMORY CACHE IMPLEMENTATION
// ===============================

// memoryCache implements Cache using in-memory storage
type memoryCache struct {
	mu              sync.RWMutex
	items           map[string]*cacheItem
	maxKeys         int
	cleanupInterval time.Duration
	logger          *zap.Logger
	stats           Stats
	startTime       time.Time
	stopCh          chan struct{}
	closeOnce       sync.Once
}

type cacheItem struct {
	Value      []byte
	ExpiresAt  time.Time
	AccessedAt time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(config *Config, logger *zap.Logger) Cache {
	cache := &memoryCache{
		items:           make(map[string]*cacheItem),
		maxKeys:         config.MaxKeys,
		cleanupInterval: config.CleanupInterval,
		logger:          logger,
		startTime:       time.Now(),
		stopCh:          make(chan struct{}),
	}

	if cache.maxKeys <= 0 {
		cache.maxKeys = 10000
	}
	if cache.cleanupInterval <= 0 {
		cache.cleanupInterval = 5 * time.Minute
	}

	go cache.cleanup()

	return cache
}

// Get retrieves a value from the cache
func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		c.stats.Misses++
		return nil, false
	}

	if time.Now().After(item.ExpiresAt) {
		delete(c.items, key)
		c.stats.Misses++
		return nil, false
	}

	item.AccessedAt = time.Now()
	c.stats.Hits++

	return item.Value, true
}

// Set stores a value in the cache
func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= c.maxKeys {
		c.evictLRU()
	}

	now := time.Now()
	c.items[key] = &cacheItem{
		Value:      value,
		ExpiresAt:  now.Add(ttl),
		AccessedAt: now,
	}

	c.stats.Sets++
	c.stats.Keys = int64(len(c.items))

	return nil
}

// Delete removes a value from the cache
func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; exists {
		delete(c.items, key)
		c.stats.Deletes++
		c.stats.Keys = int64(len(c.items))
	}

	return nil
}

// DeletePattern removes all keys matching a pattern. Only the trailing "*"
// wildcard is supported.
func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
			c.stats.Deletes++
		}
	}

	c.stats.Keys = int64(len(c.items))

	return nil
}

// Stats returns cache statistics
func (c *memoryCache) Stats(ctx context.Context) (*Stats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.Keys = int64(len(c.items))
	stats.Uptime = time.Since(c.startTime)

	total := stats.Hits + stats.Misses
	if total > 0 {
		stats.HitRatio = float64(stats.Hits) / float64(total)
	}

	return &stats, nil
}

// Health checks cache health
func (c *memoryCache) Health(ctx context.Context) error {
	testKey := "__health_check__"
	if err := c.Set(ctx, testKey, []byte("ok"), time.Minute); err != nil {
		return fmt.Errorf("cache health check failed: %w", err)
	}
	if _, found := c.Get(ctx, testKey); !found {
		return fmt.Errorf("cache health check failed: value not readable")
	}
	return nil
}

// Close stops the cleanup goroutine
func (c *memoryCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopCh)
	})
	return nil
}

// evictLRU removes the least recently accessed item. Caller must hold the lock.
func (c *memoryCache) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time

	for key, item := range c.items {
		if oldestKey == "" || item.AccessedAt.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = item.AccessedAt
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

func (c *memoryCache) cleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *memoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.items {
		if now.After(item.ExpiresAt) {
			delete(c.items, key)
		}
	}
	c.stats.Keys = int64(len(c.items))
}

// ===============================
// REDIS CACHE IMPLEMENTATION
// ===============================

// redisCache implements Cache backed by Redis
type redisCache struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	stats     Stats
	startTime time.Time
	mu        sync.Mutex
}

// NewRedisCache creates a Redis-backed cache
func NewRedisCache(config *Config, logger *zap.Logger) (Cache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("redis cache connected", zap.String("addr", opts.Addr))

	return &redisCache{
		client:    client,
		logger:    logger,
		keyPrefix: config.KeyPrefix,
		startTime: time.Now(),
	}, nil
}

func (c *redisCache) prefixed(key string) string {
	if c.keyPrefix == "" {
		return key
	}
	return c.keyPrefix + ":" + key
}

// Get retrieves a value from Redis
func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.prefixed(key)).Bytes()
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.stats.Misses++
		if err != redis.Nil {
			c.logger.Warn("redis get failed", zap.Error(err), zap.String("key", key))
		}
		return nil, false
	}
	c.stats.Hits++
	return data, true
}

// Set stores a value in Redis
func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefixed(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	c.mu.Lock()
	c.stats.Sets++
	c.mu.Unlock()
	return nil
}

// Delete removes a value from Redis
func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefixed(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	c.mu.Lock()
	c.stats.Deletes++
	c.mu.Unlock()
	return nil
}

// DeletePattern removes all keys matching a pattern using SCAN
func (c *redisCache) DeletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, c.prefixed(pattern), 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete failed: %w", err)
		}
		c.mu.Lock()
		c.stats.Deletes++
		c.mu.Unlock()
	}
	return iter.Err()
}

// Stats returns cache statistics
func (c *redisCache) Stats(ctx context.Context) (*Stats, error) {
	keys, err := c.client.DBSize(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("redis dbsize failed: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Keys = keys
	stats.Uptime = time.Since(c.startTime)

	total := stats.Hits + stats.Misses
	if total > 0 {
		stats.HitRatio = float64(stats.Hits) / float64(total)
	}

	return &stats, nil
}

// Health pings Redis
func (c *redisCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (c *redisCache) Close() error {
	return c.client.Close()
}
