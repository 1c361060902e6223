package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var ErrCacheMiss = errors.New("cache miss")

// KV is the shared store behind CachedSource.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisStore) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

type localEntry struct {
	expires time.Time
	data    []byte
}

// MemoryStore is a process local KV with expiry.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]localEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, entries: make(map[string]localEntry)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, ErrCacheMiss
	}
	return e.data, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := localEntry{data: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *MemoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// CachedSource reads through a local layer and a shared KV before asking
// the wrapped source. Cache failures never fail a read.
type CachedSource struct {
	source   Source
	shared   KV
	local    *MemoryStore
	prefix   string
	ttl      time.Duration
	localTTL time.Duration
}

func NewCachedSource(source Source, shared KV, prefix string, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source:   source,
		shared:   shared,
		local:    NewMemoryStore(),
		prefix:   prefix,
		ttl:      ttl,
		localTTL: min(ttl, time.Minute),
	}
}

func (c *CachedSource) key(name string) string {
	return c.prefix + ":catalog:" + name
}

func cached[T any](ctx context.Context, c *CachedSource, name string, hint CacheHint, fetch func(context.Context, CacheHint) (T, error)) (T, error) {
	key := c.key(name)
	if !hint.NoCache {
		if data, err := c.local.Get(ctx, key); err == nil {
			var out T
			if err := jsoncompat.Unmarshal(data, &out); err == nil {
				return out, nil
			}
		}
		if c.shared != nil {
			data, err := c.shared.Get(ctx, key)
			if err == nil {
				var out T
				if err := jsoncompat.Unmarshal(data, &out); err == nil {
					_ = c.local.Set(ctx, key, data, c.localTTL)
					return out, nil
				}
				log.Warn().Str("key", key).Msg("dropping undecodable cache entry")
			} else if !errors.Is(err, ErrCacheMiss) {
				log.Warn().Err(err).Str("key", key).Msg("cache read failed")
			}
		}
	}

	out, err := fetch(ctx, hint)
	if err != nil {
		return out, err
	}
	data, err := jsoncompat.Marshal(out)
	if err != nil {
		return out, nil
	}
	ttl := c.ttl
	if hint.MaxAge > 0 {
		ttl = hint.MaxAge
	}
	_ = c.local.Set(ctx, key, data, min(ttl, c.localTTL))
	if c.shared != nil {
		if err := c.shared.Set(ctx, key, data, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return out, nil
}

func (c *CachedSource) Products(ctx context.Context, hint CacheHint) ([]types.ProductRecord, error) {
	return cached(ctx, c, "products", hint, c.source.Products)
}

func (c *CachedSource) Brands(ctx context.Context, hint CacheHint) ([]types.Brand, error) {
	return cached(ctx, c, "brands", hint, c.source.Brands)
}

func (c *CachedSource) Categories(ctx context.Context, hint CacheHint) ([]types.Category, error) {
	return cached(ctx, c, "categories", hint, c.source.Categories)
}

// Invalidate drops every cached read.
func (c *CachedSource) Invalidate(ctx context.Context) error {
	keys := []string{c.key("products"), c.key("brands"), c.key("categories")}
	_ = c.local.Del(ctx, keys...)
	if c.shared == nil {
		return nil
	}
	return c.shared.Del(ctx, keys...)
}
