package printcart

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/printcart/printcart-go/internal/constants"
)

// ErrCacheValueTooLarge is returned when an entry exceeds MaxValueSize.
var ErrCacheValueTooLarge = errors.New("cache value too large")

// NATSKVConfig configures a NATSKVCache.
type NATSKVConfig struct {
	// URL of the NATS server. Ignored when Conn is set.
	URL string
	// Conn reuses an existing connection. The cache does not close it.
	Conn *nats.Conn
	// Bucket is the key-value bucket, created when missing.
	Bucket string
	// TTL is the bucket-level expiry applied to new buckets.
	TTL time.Duration
	// MaxValueSize caps the encoded entry size.
	MaxValueSize int
	// Options are passed to nats.Connect.
	Options []nats.Option
}

// NATSKVCache is a Cache backed by a NATS JetStream key-value bucket, shared
// by every process connected to the same bucket.
type NATSKVCache struct {
	conn     *nats.Conn
	ownsConn bool
	kv       nats.KeyValue
	maxSize  int
}

// NewNATSKVCache connects to NATS and opens or creates the bucket.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = constants.DefaultNATSBucket
	}

	conn := config.Conn
	ownsConn := false

	if conn == nil {
		url := config.URL
		if url == "" {
			url = nats.DefaultURL
		}

		var err error

		conn, err = nats.Connect(url, config.Options...)
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS: %w", err)
		}

		ownsConn = true
	}

	js, err := conn.JetStream()
	if err != nil {
		closeOwned(conn, ownsConn)

		return nil, fmt.Errorf("opening JetStream context: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      bucket,
			Description: "printcart response cache",
			TTL:         config.TTL,
		})
	}

	if err != nil {
		closeOwned(conn, ownsConn)

		return nil, fmt.Errorf("opening key-value bucket %s: %w", bucket, err)
	}

	maxSize := config.MaxValueSize
	if maxSize <= 0 {
		maxSize = constants.MaxCacheValueSize
	}

	return &NATSKVCache{
		conn:     conn,
		ownsConn: ownsConn,
		kv:       kv,
		maxSize:  maxSize,
	}, nil
}

func closeOwned(conn *nats.Conn, owned bool) {
	if owned {
		conn.Close()
	}
}

// Get retrieves an entry.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kvEntry, err := c.kv.Get(natsKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, ErrCacheKeyNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry CacheEntry

	err = json.Unmarshal(kvEntry.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}

	if entry.Expired() {
		_ = c.Delete(ctx, key)

		return nil, ErrCacheExpired
	}

	return &entry, nil
}

// Set stores an entry.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	if len(data) > c.maxSize {
		return fmt.Errorf("%w: %d bytes", ErrCacheValueTooLarge, len(data))
	}

	_, err = c.kv.Put(natsKey(key), data)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}

	return nil
}

// Delete removes an entry.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	err := c.kv.Delete(natsKey(key))
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("deleting cache entry: %w", err)
	}

	return nil
}

// Clear removes every entry of the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	keys, err := c.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("listing cache keys: %w", err)
	}

	for _, key := range keys {
		err = c.kv.Delete(key)
		if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
			return fmt.Errorf("deleting cache entry: %w", err)
		}
	}

	return nil
}

// Has reports whether a live entry exists for key.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Close closes the NATS connection when the cache opened it.
func (c *NATSKVCache) Close() {
	closeOwned(c.conn, c.ownsConn)
}

// natsKey maps arbitrary cache keys to the key alphabet NATS accepts.
func natsKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}
