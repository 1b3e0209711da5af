package imagecache

import (
	"context"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"github.com/Jansenc08/CryptoApp-sub004/internal/interfaces"
	"github.com/Jansenc08/CryptoApp-sub004/internal/metrics"
)

// Ensure BigCacheStore implements interfaces.ByteStore
var _ interfaces.ByteStore = (*BigCacheStore)(nil)

// BigCacheStore is the in-process byte store for raw logo payloads.
// BigCache handles eviction internally with a hard memory cap; per-call TTLs
// are capped by the store-wide life window.
type BigCacheStore struct {
	cache  *bigcache.BigCache
	logger *zap.Logger
}

// NewBigCacheStore creates a BigCacheStore with sizeMB as its hard cap.
func NewBigCacheStore(sizeMB int, life time.Duration, logger *zap.Logger) (*BigCacheStore, error) {
	cfg := bigcache.DefaultConfig(life)
	cfg.HardMaxCacheSize = sizeMB
	cfg.MaxEntrySize = 1024 * 1024
	cfg.Verbose = false

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	return &BigCacheStore{cache: cache, logger: logger}, nil
}

// Get retrieves raw bytes from the store.
func (s *BigCacheStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.cache.Get(key)
	if err != nil {
		return nil, false
	}
	metrics.ImageHits.WithLabelValues("l1").Inc()
	return data, true
}

// Set stores raw bytes. The TTL argument is accepted for interface parity;
// BigCache expires entries by its store-wide life window.
func (s *BigCacheStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if err := s.cache.Set(key, val); err != nil {
		s.logger.Warn("failed to store image bytes", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes an entry.
func (s *BigCacheStore) Delete(ctx context.Context, key string) {
	_ = s.cache.Delete(key)
}

// Close releases the underlying cache.
func (s *BigCacheStore) Close() error {
	return s.cache.Close()
}
