// Package scan implements code resolution: cache-first lookup of a
// scanned table/outlet code, remote resolve on miss, and the bounded
// retry used for deep-link codes.
package scan

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"tably-system/internal/upstream"
)

const (
	SCAN_CACHE_PREFIX = "guest_scan:"
	SCAN_CACHE_TTL    = 15 * time.Minute
)

// Entry is the serialized cache record: resolved payload plus its own
// expiry timestamp, checked on read independently of the store's TTL.
type Entry struct {
	Data      *upstream.ScanResponse `json:"data"`
	ExpiresAt time.Time              `json:"expiresAt"`
}

// Cache is a best-effort store for resolved scan codes. Get returns nil
// on miss, on expiry and on unparseable entries; Set failures are
// swallowed — correctness never depends on the cache persisting.
type Cache interface {
	Get(ctx context.Context, code string) *upstream.ScanResponse
	Set(ctx context.Context, code string, data *upstream.ScanResponse, ttl time.Duration)
	Delete(ctx context.Context, code string)
}

// --- Redis cache ---

type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, code string) *upstream.ScanResponse {
	raw, err := c.rdb.Get(ctx, SCAN_CACHE_PREFIX+code).Bytes()
	if err != nil {
		return nil
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// corrupt entry: treat as miss, do not resurrect
		c.Delete(ctx, code)
		return nil
	}
	if entry.Data == nil || entry.Data.QRContext == nil {
		c.Delete(ctx, code)
		return nil
	}
	if !time.Now().Before(entry.ExpiresAt) {
		c.Delete(ctx, code)
		return nil
	}
	return entry.Data
}

func (c *RedisCache) Set(ctx context.Context, code string, data *upstream.ScanResponse, ttl time.Duration) {
	entry := Entry{Data: data, ExpiresAt: time.Now().Add(ttl)}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, SCAN_CACHE_PREFIX+code, raw, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, code string) {
	_ = c.rdb.Del(ctx, SCAN_CACHE_PREFIX+code).Err()
}

// --- In-memory cache ---

// MemoryCache mirrors RedisCache semantics for tests and cacheless
// deployments.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, code string) *upstream.ScanResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[code]
	if !ok {
		return nil
	}
	if entry.Data == nil || entry.Data.QRContext == nil {
		delete(c.entries, code)
		return nil
	}
	if !c.now().Before(entry.ExpiresAt) {
		delete(c.entries, code)
		return nil
	}
	return entry.Data
}

func (c *MemoryCache) Set(ctx context.Context, code string, data *upstream.ScanResponse, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[code] = Entry{Data: data, ExpiresAt: c.now().Add(ttl)}
}

func (c *MemoryCache) Delete(ctx context.Context, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, code)
}
