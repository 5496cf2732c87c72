package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL applies when Set is called with a non-positive ttl.
const DefaultCacheTTL = 5 * time.Minute

// redisPrefix namespaces L2 keys so Invalidate can SCAN only our keys.
const redisPrefix = "gv:"

// Cache provides 2-tier caching: L1 in-memory + optional L2 Redis.
// L1 expiry is lazy: an expired entry stays until the next Get touches it.
// There is no size cap and no background sweeper.
type Cache struct {
	mu  sync.RWMutex
	l1  map[string]*cacheEntry
	rdb *redis.Client // nil if Redis unavailable
	ttl time.Duration
	now func() time.Time

	gen    uint64 // bumped by Invalidate; guarded by mu
	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	data     []byte
	storedAt time.Time
	ttl      time.Duration
}

func (e *cacheEntry) live(now time.Time) bool {
	return now.Sub(e.storedAt) < e.ttl
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithRedis attaches an L2 Redis client.
func WithRedis(rdb *redis.Client) CacheOption {
	return func(c *Cache) { c.rdb = rdb }
}

// WithDefaultTTL overrides DefaultCacheTTL.
func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// withClock replaces time.Now in tests.
func withClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// NewCache creates an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		l1:  make(map[string]*cacheEntry),
		ttl: DefaultCacheTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConnectRedis parses redisURL and pings it. Returns nil when the URL is empty,
// invalid or unreachable, so callers run with L1 only.
func ConnectRedis(ctx context.Context, redisURL string) *redis.Client {
	if redisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Warn("cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		return nil
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("cache: redis unreachable, L2 disabled", slog.Any("error", err))
		_ = rdb.Close()
		return nil
	}
	slog.Info("cache: L2 redis connected", slog.String("addr", opts.Addr))
	return rdb
}

// CacheKey builds a deterministic cache key from parts.
// Keys stay readable so Invalidate patterns can target them.
func CacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// Set stores data under key until now+ttl, replacing any existing entry.
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	c.set(ctx, key, data, ttl, nil)
}

// Generation returns a token that changes on every Invalidate. Pass it to
// SetSince to drop a value fetched before a purge.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// SetSince stores data only if no Invalidate ran since gen was read.
// Reports whether the value was stored.
func (c *Cache) SetSince(ctx context.Context, gen uint64, key string, data []byte, ttl time.Duration) bool {
	return c.set(ctx, key, data, ttl, &gen)
}

func (c *Cache) set(ctx context.Context, key string, data []byte, ttl time.Duration, gen *uint64) bool {
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.mu.Lock()
	if gen != nil && *gen != c.gen {
		c.mu.Unlock()
		slog.Debug("cache: stale store dropped", slog.String("key", key))
		return false
	}
	c.l1[key] = &cacheEntry{data: data, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, redisPrefix+key, data, ttl).Err(); err != nil {
			slog.Debug("cache: L2 set failed", slog.Any("error", err))
		}
		// An Invalidate may have scanned L2 before this write landed.
		if gen != nil && c.Generation() != *gen {
			_ = c.rdb.Del(ctx, redisPrefix+key).Err()
		}
	}
	return true
}

// Get tries L1, then L2. On L2 hit, populates L1 with the remaining TTL.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.l1[key]
	c.mu.RUnlock()
	if ok {
		if entry.live(now) {
			slog.Debug("cache: L1 hit", slog.String("key", key))
			c.hits.Add(1)
			return entry.data, true
		}
		c.mu.Lock()
		// Re-check: a concurrent Set may have replaced the expired entry.
		if cur, ok := c.l1[key]; ok && !cur.live(now) {
			delete(c.l1, key)
		}
		c.mu.Unlock()
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, redisPrefix+key).Bytes()
		if err == nil {
			ttl, terr := c.rdb.PTTL(ctx, redisPrefix+key).Result()
			if terr != nil || ttl <= 0 {
				ttl = c.ttl
			}
			slog.Debug("cache: L2 hit", slog.String("key", key))
			c.mu.Lock()
			c.l1[key] = &cacheEntry{data: data, storedAt: now, ttl: ttl}
			c.mu.Unlock()
			c.hits.Add(1)
			return data, true
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Invalidate removes entries whose key matches pattern. An empty pattern clears
// everything. The pattern is a regular expression; a plain string therefore
// matches as a substring. Patterns that fail to compile are matched literally.
// Returns the number of L1 entries removed.
func (c *Cache) Invalidate(ctx context.Context, pattern string) int {
	match := keyMatcher(pattern)

	c.mu.Lock()
	c.gen++
	removed := 0
	for key := range c.l1 {
		if match(key) {
			delete(c.l1, key)
			removed++
		}
	}
	c.mu.Unlock()

	if c.rdb != nil {
		c.invalidateL2(ctx, match)
	}
	slog.Debug("cache: invalidated", slog.String("pattern", pattern), slog.Int("removed", removed))
	return removed
}

func (c *Cache) invalidateL2(ctx context.Context, match func(string) bool) {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, redisPrefix+"*", 200).Result()
		if err != nil {
			slog.Warn("cache: L2 scan failed", slog.Any("error", err))
			return
		}
		var doomed []string
		for _, k := range keys {
			if match(strings.TrimPrefix(k, redisPrefix)) {
				doomed = append(doomed, k)
			}
		}
		if len(doomed) > 0 {
			if err := c.rdb.Del(ctx, doomed...).Err(); err != nil {
				slog.Warn("cache: L2 delete failed", slog.Any("error", err))
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

func keyMatcher(pattern string) func(string) bool {
	if pattern == "" {
		return func(string) bool { return true }
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return func(k string) bool { return strings.Contains(k, pattern) }
	}
	return re.MatchString
}

// Size returns the number of L1 entries held, including expired entries that
// have not been touched since they lapsed.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.l1)
}

// Stats returns current cache hit/miss counters.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// CacheLoadJSON loads and decodes a cached value of type T.
// Returns the zero value and false on miss or decode error.
func CacheLoadJSON[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var out T
	data, ok := c.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// CacheStoreJSON marshals v and stores it under key unless an Invalidate ran
// since gen was read from Generation. Reports whether v was stored.
func CacheStoreJSON[T any](ctx context.Context, c *Cache, gen uint64, key string, v T, ttl time.Duration) bool {
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return c.SetSince(ctx, gen, key, data, ttl)
}
