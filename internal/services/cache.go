package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/redis/go-redis/v9"

	"marketlens/backend-go/internal/config"
)

// Cache stores opaque payloads under canonical keys. Both implementations
// normalize keys internally, so "quote:v1:AAPL" and "quote:v1:aapl" address
// the same entry regardless of how the caller cased the symbol.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
}

type MemoryCache struct {
	items *ttlcache.Cache[string, []byte]
}

func NewCache(cfg config.Config) Cache {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return NewMemoryCache(cfg.CacheMaxEntries)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return NewMemoryCache(cfg.CacheMaxEntries)
	}
	return &RedisCache{client: client}
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	items := ttlcache.New[string, []byte](
		ttlcache.WithTTL[string, []byte](time.Hour),
		ttlcache.WithCapacity[string, []byte](uint64(maxEntries)),
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go items.Start()
	return &MemoryCache{items: items}
}

func canonicalKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.client.Get(ctx, canonicalKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (r *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.client.Set(ctx, canonicalKey(key), val, ttl).Err()
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	it := m.items.Get(canonicalKey(key))
	if it == nil {
		return nil, false
	}
	return it.Value(), true
}

func (m *MemoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	m.items.Set(canonicalKey(key), val, ttl)
	return nil
}

func MarshalCache(v any) ([]byte, error) {
	return json.Marshal(v)
}

func UnmarshalCache(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
