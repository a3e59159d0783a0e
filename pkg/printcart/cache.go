package printcart

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Static cache errors.
var (
	ErrCacheKeyNotFound = errors.New("key not found")
	ErrCacheExpired     = errors.New("entry expired")
)

// CacheEntry is a cached response.
type CacheEntry struct {
	Data       []byte    `json:"data"`
	StatusCode int       `json:"status_code"`
	ExpiresAt  time.Time `json:"expires_at"`
	ETag       string    `json:"etag,omitempty"`
}

// Expired reports whether the entry is past its expiry time.
func (e *CacheEntry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// Cache is a response cache backend.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// MemoryCache is an in-process Cache bounded to maxSize entries.
type MemoryCache struct {
	mutex   sync.RWMutex
	entries map[string]*CacheEntry
	maxSize int
}

// NewMemoryCache creates a memory cache. A maxSize of 0 or less means unbounded.
func NewMemoryCache(maxSize int) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get retrieves an entry.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mutex.RLock()
	entry, ok := c.entries[key]
	c.mutex.RUnlock()

	if !ok {
		return nil, ErrCacheKeyNotFound
	}

	if entry.Expired() {
		_ = c.Delete(ctx, key)

		return nil, ErrCacheExpired
	}

	return entry, nil
}

// Set stores an entry, evicting the entry closest to expiry when full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictLocked()
	}

	c.entries[key] = entry

	return nil
}

func (c *MemoryCache) evictLocked() {
	var (
		victim string
		oldest time.Time
	)

	for key, entry := range c.entries {
		if victim == "" || entry.ExpiresAt.Before(oldest) {
			victim = key
			oldest = entry.ExpiresAt
		}
	}

	delete(c.entries, victim)
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)

	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*CacheEntry)

	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[key]

	return ok && !entry.Expired()
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

// Cleanup removes expired entries.
func (c *MemoryCache) Cleanup() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key, entry := range c.entries {
		if entry.Expired() {
			delete(c.entries, key)
		}
	}
}

// CacheStats counts cache activity.
type CacheStats struct {
	Hits          int64
	Misses        int64
	Sets          int64
	Invalidations int64
}

// GetHitRate returns hits / (hits + misses).
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CachingPolicy decides which responses are cached. Paths are matched by
// substring against the request URL path, e.g. "/products".
type CachingPolicy struct {
	IncludePaths []string
	ExcludePaths []string
}

// DefaultCachingPolicy caches every resource.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{}
}

// ShouldCache reports whether a GET response for path may be cached.
func (p *CachingPolicy) ShouldCache(path string) bool {
	for _, excluded := range p.ExcludePaths {
		if strings.Contains(path, excluded) {
			return false
		}
	}

	if len(p.IncludePaths) == 0 {
		return true
	}

	for _, included := range p.IncludePaths {
		if strings.Contains(path, included) {
			return true
		}
	}

	return false
}

// CachingTransport serves GET requests from a Cache. Only 200 responses
// are stored, and any successful write clears the cache, since a write to a
// nested resource can change the collections above it.
type CachingTransport struct {
	next   Transport
	cache  Cache
	ttl    time.Duration
	policy *CachingPolicy

	hits          atomic.Int64
	misses        atomic.Int64
	sets          atomic.Int64
	invalidations atomic.Int64
}

// NewCachingTransport wraps next with cache.
func NewCachingTransport(next Transport, cache Cache, ttl time.Duration) *CachingTransport {
	return &CachingTransport{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		policy: DefaultCachingPolicy(),
	}
}

// WithPolicy sets the caching policy.
func (t *CachingTransport) WithPolicy(policy *CachingPolicy) *CachingTransport {
	if policy != nil {
		t.policy = policy
	}

	return t
}

// Stats returns a snapshot of the cache counters.
func (t *CachingTransport) Stats() CacheStats {
	return CacheStats{
		Hits:          t.hits.Load(),
		Misses:        t.misses.Load(),
		Sets:          t.sets.Load(),
		Invalidations: t.invalidations.Load(),
	}
}

// Send implements Transport.
func (t *CachingTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	if req.Method != http.MethodGet {
		resp, err := t.next.Send(ctx, req)
		if err == nil && resp != nil && IsSuccessStatus(resp.StatusCode) {
			t.invalidations.Add(1)
			_ = t.cache.Clear(ctx)
		}

		return resp, err
	}

	if !t.policy.ShouldCache(requestPath(req.URL)) {
		return t.next.Send(ctx, req)
	}

	key := cacheKey(req)

	entry, err := t.cache.Get(ctx, key)
	if err == nil {
		t.hits.Add(1)

		return &Response{
			StatusCode: entry.StatusCode,
			Headers:    http.Header{"X-Cache": []string{"HIT"}},
			Body:       bytes.Clone(entry.Data),
		}, nil
	}

	t.misses.Add(1)

	resp, err := t.next.Send(ctx, req)
	if err != nil || resp == nil || resp.StatusCode != http.StatusOK {
		return resp, err
	}

	entry = &CacheEntry{
		Data:       bytes.Clone(resp.Body),
		StatusCode: resp.StatusCode,
		ExpiresAt:  time.Now().Add(t.ttl),
	}

	if resp.Headers != nil {
		entry.ETag = resp.Headers.Get("ETag")
	}

	if t.cache.Set(ctx, key, entry) == nil {
		t.sets.Add(1)
	}

	return resp, nil
}

// cacheKey is derived from the URL and the credentials, so clients with
// different accounts never share entries.
func cacheKey(req *Request) string {
	sum := sha256.Sum256([]byte(req.Headers["Authorization"]))

	return "GET:" + req.URL + ":" + hex.EncodeToString(sum[:8])
}
