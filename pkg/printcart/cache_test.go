package printcart_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/printcart/printcart-go/pkg/printcart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := printcart.NewMemoryCache(10)
	ctx := context.Background()

	entry := &printcart.CacheEntry{
		Data:      []byte(`{"data":[]}`),
		ExpiresAt: time.Now().Add(1 * time.Hour),
		ETag:      "abc123",
	}

	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)

	retrieved, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.Equal(t, entry.ETag, retrieved.ETag)
}

func TestMemoryCache_GetNonExistent(t *testing.T) {
	t.Parallel()

	cache := printcart.NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key not found")
}

func TestMemoryCache_GetExpired(t *testing.T) {
	t.Parallel()

	cache := printcart.NewMemoryCache(10)
	ctx := context.Background()

	err := cache.Set(ctx, "key1", &printcart.CacheEntry{ExpiresAt: time.Now().Add(-1 * time.Hour)})
	require.NoError(t, err)

	_, err = cache.Get(ctx, "key1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry expired")
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	t.Parallel()

	cache := printcart.NewMemoryCache(10)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		_ = cache.Set(ctx, key, &printcart.CacheEntry{ExpiresAt: time.Now().Add(time.Hour)})
	}

	require.NoError(t, cache.Delete(ctx, "a"))
	assert.False(t, cache.Has(ctx, "a"))
	assert.True(t, cache.Has(ctx, "b"))

	require.NoError(t, cache.Clear(ctx))
	assert.False(t, cache.Has(ctx, "b"))
	assert.False(t, cache.Has(ctx, "c"))
}

func TestMemoryCache_MaxSize(t *testing.T) {
	t.Parallel()

	cache := printcart.NewMemoryCache(2)
	ctx := context.Background()

	for i, key := range []string{"a", "b", "c"} {
		_ = cache.Set(ctx, key, &printcart.CacheEntry{ExpiresAt: time.Now().Add(time.Duration(i+1) * time.Hour)})
	}

	assert.Equal(t, 2, cache.Len())
	assert.False(t, cache.Has(ctx, "a"), "entry closest to expiry is evicted first")
	assert.True(t, cache.Has(ctx, "c"))
}

func TestMemoryCache_Cleanup(t *testing.T) {
	t.Parallel()

	cache := printcart.NewMemoryCache(10)
	ctx := context.Background()

	_ = cache.Set(ctx, "expired", &printcart.CacheEntry{ExpiresAt: time.Now().Add(-time.Hour)})
	_ = cache.Set(ctx, "valid", &printcart.CacheEntry{ExpiresAt: time.Now().Add(time.Hour)})

	cache.Cleanup()

	assert.Equal(t, 1, cache.Len())
	assert.True(t, cache.Has(ctx, "valid"))
}

func TestCacheChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l1 := printcart.NewMemoryCache(10)
	l2 := printcart.NewMemoryCache(10)
	chain := printcart.NewCacheChain(l1, l2)

	entry := &printcart.CacheEntry{Data: []byte("x"), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, l2.Set(ctx, "k", entry))

	got, err := chain.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got.Data)
	assert.True(t, l1.Has(ctx, "k"), "hit is promoted to the front layer")

	require.NoError(t, chain.Clear(ctx))
	assert.False(t, chain.Has(ctx, "k"))

	_, err = chain.Get(ctx, "k")
	require.ErrorIs(t, err, printcart.ErrKeyNotFoundInAnyCache)
}

func TestCacheFactory(t *testing.T) {
	t.Parallel()

	cache, err := printcart.NewCacheFromConfig(nil)
	require.NoError(t, err)
	assert.IsType(t, &printcart.MemoryCache{}, cache)

	cache, err = printcart.NewCacheFromConfig(&printcart.CacheConfig{Type: printcart.CacheTypeNone})
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), "k")
	require.ErrorIs(t, err, printcart.ErrCacheDisabled)

	_, err = printcart.NewCacheFromConfig(&printcart.CacheConfig{Type: printcart.CacheTypeNATS})
	require.ErrorIs(t, err, printcart.ErrNATSConfigRequired)

	_, err = printcart.NewCacheFromConfig(&printcart.CacheConfig{Type: "redis"})
	require.ErrorIs(t, err, printcart.ErrUnsupportedCacheType)
}

func TestCachingTransport(t *testing.T) {
	t.Parallel()

	upstream := &recordingTransport{respond: respondWith(http.StatusOK, `{"data":[{"id":"1"}]}`)}
	cache := printcart.NewMemoryCache(10)

	client, err := printcart.NewClient(&printcart.Config{
		Username:  testUsername,
		Password:  testPassword,
		Transport: upstream,
		Cache:     cache,
	})
	require.NoError(t, err)

	products, err := client.Product()
	require.NoError(t, err)

	ctx := context.Background()

	first, err := products.Get(ctx, nil)
	require.NoError(t, err)

	second, err := products.Get(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, upstream.count())

	_, err = products.Post(ctx, map[string]any{"name": "Tee"})
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())

	_, err = products.Get(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, upstream.count())
}

func TestCachingTransportCopiesBodies(t *testing.T) {
	t.Parallel()

	const payload = `{"data":[{"id":"1"}]}`

	upstream := &recordingTransport{respond: respondWith(http.StatusOK, payload)}
	transport := printcart.NewCachingTransport(upstream, printcart.NewMemoryCache(10), time.Minute)
	req := &printcart.Request{Method: http.MethodGet, URL: "https://x/v1/fonts"}

	first, err := transport.Send(context.Background(), req)
	require.NoError(t, err)
	for i := range first.Body {
		first.Body[i] = 'x'
	}

	second, err := transport.Send(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "HIT", second.Headers.Get("X-Cache"))
	assert.JSONEq(t, payload, string(second.Body))

	second.Body[0] = '['

	third, err := transport.Send(context.Background(), req)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(third.Body))
	assert.Equal(t, 1, upstream.count())
}

func TestCachingTransportSkipsFailures(t *testing.T) {
	t.Parallel()

	upstream := &recordingTransport{respond: respondWith(http.StatusServiceUnavailable, "")}
	transport := printcart.NewCachingTransport(upstream, printcart.NewMemoryCache(10), time.Minute)

	for range 2 {
		resp, err := transport.Send(context.Background(), &printcart.Request{Method: http.MethodGet, URL: "https://x/v1/fonts"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	}

	assert.Equal(t, 2, upstream.count())

	stats := transport.Stats()
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, int64(0), stats.Sets)
	assert.InDelta(t, 0.0, stats.GetHitRate(), 0.0001)
}

func TestCachingTransportPolicy(t *testing.T) {
	t.Parallel()

	upstream := &recordingTransport{}
	transport := printcart.NewCachingTransport(upstream, printcart.NewMemoryCache(10), time.Minute).
		WithPolicy(&printcart.CachingPolicy{ExcludePaths: []string{"/count"}})

	for range 2 {
		_, err := transport.Send(context.Background(), &printcart.Request{Method: http.MethodGet, URL: "https://x/v1/products/count"})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, upstream.count())
	assert.True(t, printcart.DefaultCachingPolicy().ShouldCache("/v1/products"))
	assert.False(t, (&printcart.CachingPolicy{IncludePaths: []string{"/fonts"}}).ShouldCache("/v1/products"))
}
